package arbor

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// recordingSurface logs clip and paint calls instead of drawing.
type recordingSurface struct {
	log   []string
	depth int
	ctx   Context
}

func (s *recordingSurface) EnterClip(n *Node) {
	s.depth++
	s.log = append(s.log, "clip:"+n.Name())
}

func (s *recordingSurface) Restore() {
	s.depth--
	s.log = append(s.log, "restore")
}

func (s *recordingSurface) Context() *Context {
	return &s.ctx
}

func (s *recordingSurface) String() string {
	return strings.Join(s.log, " ")
}

// recordShape returns a shape whose paint function logs its name to s.
func recordShape(s *recordingSurface, name string) *Node {
	return NewShape(name, func(ctx *Context, n *Node) error {
		s.log = append(s.log, "draw:"+n.Name())
		return nil
	})
}

func clipRect(w, h float64) func(*Context) {
	return func(ctx *Context) { ctx.Rect(0, 0, w, h) }
}

// --- Traversal order ---

func TestDrawSceneVisitsChildrenInOrder(t *testing.T) {
	s := &recordingSurface{}
	root := NewGroup("root")
	g := NewGroup("g")
	root.MustAdd(recordShape(s, "a"), g, recordShape(s, "d"))
	g.MustAdd(recordShape(s, "b"), recordShape(s, "c"))

	if err := root.DrawScene(s); err != nil {
		t.Fatalf("DrawScene: %v", err)
	}
	if got, want := s.String(), "draw:a draw:b draw:c draw:d"; got != want {
		t.Errorf("log = %q, want %q", got, want)
	}
}

func TestDrawSceneSkipsHiddenSubtree(t *testing.T) {
	s := &recordingSurface{}
	root := NewGroup("root")
	hidden := NewGroup("hidden")
	hidden.Visible = false
	hidden.ClipFunc = clipRect(1, 1)
	hiddenShape := recordShape(s, "b")
	root.MustAdd(recordShape(s, "a"), hidden)
	hidden.MustAdd(hiddenShape, recordShape(s, "c"))

	_ = root.DrawScene(s)
	if got, want := s.String(), "draw:a"; got != want {
		t.Errorf("log = %q, want %q", got, want)
	}

	// Drawing inside a hidden ancestor draws nothing either.
	s.log = nil
	_ = hiddenShape.DrawScene(s)
	if len(s.log) != 0 {
		t.Errorf("log = %q, want empty", s.String())
	}
}

// --- Clip scopes ---

func TestClipScopesNestLIFO(t *testing.T) {
	s := &recordingSurface{}
	root := NewGroup("root")
	outer := NewGroup("outer")
	outer.ClipFunc = clipRect(100, 100)
	inner := NewGroup("inner")
	inner.ClipFunc = clipRect(50, 50)
	sibling := NewGroup("sibling")
	sibling.ClipFunc = clipRect(10, 10)

	root.MustAdd(outer, sibling)
	outer.MustAdd(recordShape(s, "a"), inner, recordShape(s, "c"))
	inner.MustAdd(recordShape(s, "b"))
	sibling.MustAdd(recordShape(s, "d"))

	if err := root.DrawScene(s); err != nil {
		t.Fatalf("DrawScene: %v", err)
	}
	want := "clip:outer draw:a clip:inner draw:b restore draw:c restore clip:sibling draw:d restore"
	if got := s.String(); got != want {
		t.Errorf("log = %q\nwant  %q", got, want)
	}
	if s.depth != 0 {
		t.Errorf("clip depth = %d after pass, want 0", s.depth)
	}
}

func TestClipScopeReleasedOnError(t *testing.T) {
	s := &recordingSurface{}
	boom := errors.New("boom")
	root := NewGroup("root")
	outer := NewGroup("outer")
	outer.ClipFunc = clipRect(10, 10)
	inner := NewGroup("inner")
	inner.ClipFunc = clipRect(5, 5)
	bad := NewShape("bad", func(*Context, *Node) error { return boom })
	after := recordShape(s, "after")

	root.MustAdd(outer, after)
	outer.MustAdd(inner)
	inner.MustAdd(bad)

	err := root.DrawScene(s)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	var de *DrawError
	if !errors.As(err, &de) || de.Node != bad || de.Pass != "scene" {
		t.Errorf("err = %#v, want *DrawError for bad in scene pass", err)
	}
	if got, want := s.String(), "clip:outer clip:inner restore restore"; got != want {
		t.Errorf("log = %q, want %q", got, want)
	}
	if s.depth != 0 {
		t.Errorf("clip depth = %d, want 0", s.depth)
	}
}

func TestClipScopeReleasedOnPanic(t *testing.T) {
	s := &recordingSurface{}
	g := NewGroup("g")
	g.ClipFunc = clipRect(10, 10)
	g.MustAdd(NewShape("bad", func(*Context, *Node) error { panic("paint exploded") }))

	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected panic to propagate")
			}
		}()
		_ = g.DrawScene(s)
	}()
	if s.depth != 0 {
		t.Errorf("clip depth = %d after panic, want 0", s.depth)
	}
}

// --- Hit pass ---

func TestDrawHitSkipsNonListening(t *testing.T) {
	s := &recordingSurface{}
	root := NewGroup("root")
	deaf := NewGroup("deaf")
	deaf.Listening = false
	hidden := recordShape(s, "hidden")
	hidden.Visible = false
	root.MustAdd(recordShape(s, "a"), deaf, hidden)
	deaf.MustAdd(recordShape(s, "b"))

	_ = root.DrawHit(s)
	if got, want := s.String(), "draw:a"; got != want {
		t.Errorf("hit log = %q, want %q", got, want)
	}

	s.log = nil
	_ = root.DrawScene(s)
	if got, want := s.String(), "draw:a draw:b"; got != want {
		t.Errorf("scene log = %q, want %q", got, want)
	}
}

func TestDrawHitUsesHitFunc(t *testing.T) {
	s := &recordingSurface{}
	shape := recordShape(s, "s")
	shape.HitFunc = func(*Context, *Node) error {
		s.log = append(s.log, "hit")
		return nil
	}
	g := NewGroup("g")
	g.MustAdd(shape)

	_ = g.DrawScene(s)
	_ = g.DrawHit(s)
	if got, want := s.String(), "draw:s hit"; got != want {
		t.Errorf("log = %q, want %q", got, want)
	}
}

func TestDrawHitNeverClipsStage(t *testing.T) {
	st := NewStage(StageConfig{Width: 20, Height: 20}, nil)
	st.Root().SetName("stage")
	st.Root().ClipFunc = clipRect(5, 5)
	layer := NewLayer("layer")
	layer.ClipFunc = clipRect(10, 10)
	st.Root().MustAdd(layer)

	s := &recordingSurface{}
	layer.MustAdd(recordShape(s, "a"))

	_ = st.Root().DrawHit(s)
	if got, want := s.String(), "clip:layer draw:a restore"; got != want {
		t.Errorf("hit log = %q, want %q", got, want)
	}

	s.log = nil
	_ = st.Root().DrawScene(s)
	if got, want := s.String(), "clip:stage clip:layer draw:a restore restore"; got != want {
		t.Errorf("scene log = %q, want %q", got, want)
	}
}

// --- Layer canvases ---

func TestDrawWithoutSurfaceOutsideLayerFails(t *testing.T) {
	g := NewGroup("g")
	r := NewRect("r", 1, 1)
	g.MustAdd(r)

	err := g.DrawScene(nil)
	if !errors.Is(err, ErrNoSurface) {
		t.Errorf("err = %v, want ErrNoSurface", err)
	}

	// Containers with nothing to paint need no surface.
	if err := NewGroup("empty").DrawScene(nil); err != nil {
		t.Errorf("empty group: %v", err)
	}
}

func TestDrawResolvesLayerCanvases(t *testing.T) {
	st := NewStage(StageConfig{Width: 20, Height: 20}, nil)
	layer := NewLayer("layer")
	st.Root().MustAdd(layer)
	r := NewRect("r", 10, 10)
	r.Fill = Color{R: 1, A: 1}
	layer.MustAdd(r)

	if err := st.DrawScene(); err != nil {
		t.Fatalf("DrawScene: %v", err)
	}
	if err := st.DrawHit(); err != nil {
		t.Fatalf("DrawHit: %v", err)
	}

	if got := layer.layer.scene.At(5, 5); got.R != 255 || got.A != 255 {
		t.Errorf("scene pixel = %v, want opaque red", got)
	}
	if got := layer.layer.hit.At(5, 5); rgbaColorKey(got) != r.colorKey || got.A != 255 {
		t.Errorf("hit pixel = %v, want color key %06x", got, r.colorKey)
	}
	if got := layer.layer.scene.At(15, 15); got.A != 0 {
		t.Errorf("outside pixel = %v, want transparent", got)
	}
}

func TestLayerClearBeforeDraw(t *testing.T) {
	st := NewStage(StageConfig{Width: 20, Height: 20}, nil)
	layer := NewLayer("layer")
	st.Root().MustAdd(layer)
	r := NewRect("r", 5, 5)
	layer.MustAdd(r)

	_ = st.DrawScene()
	r.X = 10
	_ = st.DrawScene()
	if got := layer.layer.scene.At(1, 1); got.A != 0 {
		t.Errorf("stale pixel = %v, want cleared", got)
	}

	layer.ClearBeforeDraw = false
	r.X = 0
	_ = st.DrawScene()
	if got := layer.layer.scene.At(11, 1); got.A == 0 {
		t.Error("pixel from the previous pass should survive without clearing")
	}
}

func TestDrawSceneReturnsFirstError(t *testing.T) {
	s := &recordingSurface{}
	g := NewGroup("g")
	for i := 0; i < 3; i++ {
		name := fmt.Sprint(i)
		g.MustAdd(NewShape(name, func(*Context, *Node) error {
			s.log = append(s.log, name)
			if name == "1" {
				return errors.New("fail")
			}
			return nil
		}))
	}
	if err := g.DrawScene(s); err == nil {
		t.Fatal("expected error")
	}
	if got := s.String(); got != "0 1" {
		t.Errorf("log = %q, want the pass to stop at the failing shape", got)
	}
}
