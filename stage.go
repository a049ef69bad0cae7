package arbor

import (
	"image"
	"image/draw"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// layerCanvases holds the surfaces owned by a layer node.
type layerCanvases struct {
	scene *Canvas
	hit   *Canvas
	image *ebiten.Image // GPU copy of scene, refreshed by Stage.Draw
}

func (lc *layerCanvases) canvas(pass drawPass) *Canvas {
	if pass == passHit {
		return lc.hit
	}
	return lc.scene
}

// Stage is the top-level object that owns the root node, the registry and
// the stage size. Layers added to the stage get a scene canvas and a hit
// canvas of the stage's size.
type Stage struct {
	root     *Node
	registry *Registry
	width    int
	height   int
	debug    bool

	// ScreenshotDir is where Screenshot writes PNG files. Defaults to "screenshots".
	ScreenshotDir   string
	screenshotQueue []string

	pointer     pointerState
	injectQueue []syntheticPointerEvent
	script      *ScriptRunner
	store       EntityStore
}

// NewStage creates a stage with a pre-created root node. A nil reg gets a
// fresh registry, so independent stages never share lookups.
func NewStage(cfg StageConfig, reg *Registry) *Stage {
	if reg == nil {
		reg = NewRegistry()
	}
	cfg = cfg.withDefaults()
	root := newNode(NodeTypeStage, "Stage", "")
	st := &Stage{
		root:          root,
		registry:      reg,
		width:         cfg.Width,
		height:        cfg.Height,
		ScreenshotDir: "screenshots",
	}
	root.stage = st
	root.registry = reg
	reg.register(root)
	st.SetDebugMode(cfg.Debug)
	return st
}

// Root returns the stage's root node.
func (s *Stage) Root() *Node {
	return s.root
}

// Registry returns the registry shared by every node on the stage.
func (s *Stage) Registry() *Registry {
	return s.registry
}

// Size returns the stage size in pixels.
func (s *Stage) Size() (w, h int) {
	return s.width, s.height
}

// SetSize resizes the stage and every layer canvas.
func (s *Stage) SetSize(w, h int) {
	s.width, s.height = w, h
	for _, l := range s.root.children {
		s.attachLayer(l)
	}
}

// Add adds a layer to the stage.
func (s *Stage) Add(layer *Node) error {
	return s.root.Add(layer)
}

// Layers returns the stage's layers, bottom first. The returned slice MUST NOT be mutated.
func (s *Stage) Layers() []*Node {
	return s.root.children
}

// Get runs a selector query over the whole stage.
func (s *Stage) Get(selector string) []*Node {
	return s.root.Get(selector)
}

// attachLayer allocates or resizes the canvases of a layer on this stage.
func (s *Stage) attachLayer(l *Node) {
	if l.layer == nil {
		l.layer = &layerCanvases{
			scene: NewSceneCanvas(s.width, s.height),
			hit:   NewHitCanvas(s.width, s.height),
		}
		return
	}
	l.layer.scene.SetSize(s.width, s.height)
	l.layer.hit.SetSize(s.width, s.height)
	if l.layer.image != nil {
		if b := l.layer.image.Bounds(); b.Dx() != s.width || b.Dy() != s.height {
			l.layer.image.Deallocate()
			l.layer.image = nil
		}
	}
}

// DrawScene runs the scene pass on every layer.
func (s *Stage) DrawScene() error {
	return s.root.DrawScene(nil)
}

// DrawHit runs the hit pass on every layer.
func (s *Stage) DrawHit() error {
	return s.root.DrawHit(nil)
}

// Draw runs the scene pass and composites every visible layer onto screen,
// bottom layer first.
func (s *Stage) Draw(screen *ebiten.Image) error {
	var stats debugStats
	var t0 time.Time

	if s.debug {
		t0 = time.Now()
	}

	if err := s.DrawScene(); err != nil {
		return err
	}

	if s.debug {
		stats.sceneTime = time.Since(t0)
		t0 = time.Now()
	}

	for _, l := range s.root.children {
		if !l.Visible || l.layer == nil {
			continue
		}
		if l.layer.image == nil {
			l.layer.image = ebiten.NewImage(s.width, s.height)
		}
		l.layer.image.WritePixels(l.layer.scene.img.Pix)
		screen.DrawImage(l.layer.image, nil)
		stats.layerCount++
	}

	if s.debug {
		stats.compositeTime = time.Since(t0)
		stats.nodeCount = countNodes(s.root)
		s.debugLog(stats)
	}
	s.flushScreenshots()
	return nil
}

// Snapshot runs the scene pass and returns the visible layers composited
// into a new image.
func (s *Stage) Snapshot() (*image.RGBA, error) {
	if err := s.DrawScene(); err != nil {
		return nil, err
	}
	return s.composite(), nil
}

// composite blends the current scene canvases of the visible layers.
func (s *Stage) composite() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	for _, l := range s.root.children {
		if !l.Visible || l.layer == nil {
			continue
		}
		draw.Draw(out, out.Bounds(), l.layer.scene.img, image.Point{}, draw.Over)
	}
	return out
}

// GetIntersection returns the top-most shape drawn at (x, y) on the hit
// canvases, or nil. Layers are checked top first. Only fully opaque hit
// pixels count, so anti-aliased shape edges never report a shape. Call
// DrawHit after changing the tree; the hit canvases are not refreshed here.
func (s *Stage) GetIntersection(x, y int) *Node {
	if !image.Pt(x, y).In(image.Rect(0, 0, s.width, s.height)) {
		return nil
	}
	for i := len(s.root.children) - 1; i >= 0; i-- {
		l := s.root.children[i]
		if !l.ShouldDrawHit() || l.layer == nil {
			continue
		}
		px := l.layer.hit.At(x, y)
		if px.A != 255 {
			continue
		}
		if shape := s.registry.ShapeByColorKey(rgbaColorKey(px)); shape != nil && shape.Layer() == l {
			return shape
		}
	}
	return nil
}

// SetDebugMode enables or disables debug mode. When enabled, tree depth and
// child count warnings are printed on Add, and per-frame timing stats are
// logged to stderr by Draw.
func (s *Stage) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// globalDebug mirrors the most recently set Stage debug flag so that node
// operations (which lack a Stage pointer) can check it cheaply. Only valid
// with a single Stage; multiple Stages with differing debug modes will
// reflect whichever called SetDebugMode last.
var globalDebug bool
