package arbor

// drawPass selects between the visible scene pass and the hit pass.
type drawPass uint8

const (
	passScene drawPass = iota
	passHit
)

func (p drawPass) String() string {
	if p == passHit {
		return "hit"
	}
	return "scene"
}

// DrawScene draws the subtree rooted at n onto s in child order. When s is
// nil every node draws onto its own layer's scene canvas.
//
// Hidden subtrees are skipped. A container with a ClipFunc draws its
// children inside a clip scope that is released before DrawScene returns,
// including when a child fails or panics. The first shape error stops the
// pass and is returned as a *DrawError.
func (n *Node) DrawScene(s Surface) error {
	if !n.IsVisible() {
		return nil
	}
	return n.draw(s, passScene)
}

// DrawHit is the hit-pass counterpart of DrawScene. It draws onto the layer
// hit canvases when s is nil, skips subtrees that are hidden or not
// listening, and never clips at the Stage.
func (n *Node) DrawHit(s Surface) error {
	if !n.ShouldDrawHit() {
		return nil
	}
	return n.draw(s, passHit)
}

// draw runs one pass over n. Ancestors were checked by the caller, so only
// n's own flags gate the recursion.
func (n *Node) draw(s Surface, pass drawPass) error {
	if !n.Visible || (pass == passHit && !n.Listening) {
		return nil
	}
	target := s
	if target == nil {
		target = n.layerSurface(pass)
	}
	if n.Type == NodeTypeShape {
		return n.drawShape(target, pass)
	}
	if s == nil && n.Type == NodeTypeLayer && n.ClearBeforeDraw && target != nil {
		n.layer.canvas(pass).Clear()
	}
	clip := n.ClipFunc != nil && target != nil
	if pass == passHit && n.Type == NodeTypeStage {
		clip = false
	}
	return n.drawChildren(s, target, pass, clip)
}

// drawChildren recurses into the children, holding a clip scope on target
// for the duration when clip is set. Children receive the caller's surface
// so a nil surface keeps resolving to each child's layer.
func (n *Node) drawChildren(s, target Surface, pass drawPass, clip bool) error {
	if clip {
		target.EnterClip(n)
		defer target.Restore()
	}
	for _, child := range n.children {
		if err := child.draw(s, pass); err != nil {
			return err
		}
	}
	return nil
}

func (n *Node) drawShape(target Surface, pass drawPass) error {
	if target == nil {
		return &DrawError{Pass: pass.String(), Node: n, Err: ErrNoSurface}
	}
	fn := n.SceneFunc
	if pass == passHit && n.HitFunc != nil {
		fn = n.HitFunc
	}
	if fn == nil {
		return nil
	}
	ctx := target.Context()
	ctx.setTransform(n.AbsoluteTransform(), n.AbsoluteOpacity())
	ctx.BeginPath()
	if err := fn(ctx, n); err != nil {
		return &DrawError{Pass: pass.String(), Node: n, Err: err}
	}
	return nil
}

// layerSurface returns the canvas of n's layer for pass, or nil when n is
// not inside a layer with allocated canvases.
func (n *Node) layerSurface(pass drawPass) Surface {
	l := n.Layer()
	if l == nil || l.layer == nil {
		return nil
	}
	return l.layer.canvas(pass)
}
