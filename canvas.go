package arbor

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/vector"
)

// Surface is the target of a draw pass. EnterClip and Restore are always
// called in strictly nested pairs, one pair per clipped container.
type Surface interface {
	// EnterClip restricts drawing to the clip path of n until the matching Restore.
	EnterClip(n *Node)
	// Restore undoes the most recent EnterClip.
	Restore()
	// Context returns the drawing context shapes paint through.
	Context() *Context
}

// circleSegments is the number of edges used to approximate a circle.
const circleSegments = 64

// --- Canvas ---

// Canvas is a CPU raster surface backed by an *image.RGBA. A scene canvas
// fills shapes with their Fill color; a hit canvas fills them with their hit
// color key so the shape under a pixel can be looked up in the registry.
//
// Clip regions are axis-aligned: EnterClip intersects the current clip with
// the bounding box of the container's clip path and pushes the result.
type Canvas struct {
	img   *image.RGBA
	hit   bool
	clips []image.Rectangle
	ctx   Context
	ras   vector.Rasterizer
	mask  []uint8
}

// NewSceneCanvas creates a w×h canvas for the scene pass.
func NewSceneCanvas(w, h int) *Canvas {
	c := &Canvas{img: image.NewRGBA(image.Rect(0, 0, w, h))}
	c.ctx.canvas = c
	return c
}

// NewHitCanvas creates a w×h canvas for the hit pass.
func NewHitCanvas(w, h int) *Canvas {
	c := NewSceneCanvas(w, h)
	c.hit = true
	return c
}

// Image returns the backing image. Pixels are premultiplied.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// IsHit reports whether this is a hit canvas.
func (c *Canvas) IsHit() bool {
	return c.hit
}

// Size returns the canvas dimensions in pixels.
func (c *Canvas) Size() (w, h int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

// SetSize reallocates the canvas. Contents and clip state are discarded.
func (c *Canvas) SetSize(w, h int) {
	if cw, ch := c.Size(); cw == w && ch == h {
		return
	}
	c.img = image.NewRGBA(image.Rect(0, 0, w, h))
	c.clips = c.clips[:0]
}

// Clear fills the canvas with transparent black.
func (c *Canvas) Clear() {
	clear(c.img.Pix)
}

// ClipBounds returns the active clip rectangle in canvas pixels.
func (c *Canvas) ClipBounds() image.Rectangle {
	if len(c.clips) == 0 {
		return c.img.Bounds()
	}
	return c.clips[len(c.clips)-1]
}

// ClipDepth returns the number of open clip scopes.
func (c *Canvas) ClipDepth() int {
	return len(c.clips)
}

// EnterClip implements Surface.
func (c *Canvas) EnterClip(n *Node) {
	ctx := &c.ctx
	ctx.setTransform(n.AbsoluteTransform(), 1)
	ctx.BeginPath()
	if n.ClipFunc != nil {
		n.ClipFunc(ctx)
	}
	r := ctx.pathBounds().Intersect(c.ClipBounds())
	ctx.BeginPath()
	c.clips = append(c.clips, r)
}

// Restore implements Surface. Extra calls are ignored.
func (c *Canvas) Restore() {
	if len(c.clips) > 0 {
		c.clips = c.clips[:len(c.clips)-1]
	}
}

// Context implements Surface.
func (c *Canvas) Context() *Context {
	return &c.ctx
}

// At returns the premultiplied pixel at (x, y).
func (c *Canvas) At(x, y int) color.RGBA {
	return c.img.RGBAAt(x, y)
}

// fill rasterizes subpaths (canvas coordinates) inside the active clip. The
// rasterizer only covers the path's bounds, not the whole clip.
//
// Hit fills are aliased: a pixel takes the key when at least half of it is
// covered, so edges never blend two keys into a third.
func (c *Canvas) fill(subpaths [][]Vec2, col color.RGBA) {
	if col.A == 0 {
		return
	}
	area := subpathBounds(subpaths).Intersect(c.ClipBounds())
	if area.Empty() {
		return
	}
	w, h := area.Dx(), area.Dy()
	c.ras.Reset(w, h)
	ox, oy := float64(area.Min.X), float64(area.Min.Y)
	drawn := false
	for _, sp := range subpaths {
		local := make([]Vec2, len(sp))
		for i, p := range sp {
			local[i] = Vec2{p.X - ox, p.Y - oy}
		}
		local = clipToBox(local, float64(w), float64(h))
		if len(local) < 3 {
			continue
		}
		c.ras.MoveTo(float32(local[0].X), float32(local[0].Y))
		for _, p := range local[1:] {
			c.ras.LineTo(float32(p.X), float32(p.Y))
		}
		c.ras.ClosePath()
		drawn = true
	}
	if !drawn {
		return
	}
	if !c.hit {
		c.ras.Draw(c.img, area, image.NewUniform(col), image.Point{})
		return
	}

	mask := c.coverage(w, h)
	c.ras.Draw(mask, mask.Rect, image.Opaque, image.Point{})
	for y := 0; y < h; y++ {
		row := mask.Pix[y*mask.Stride : y*mask.Stride+w]
		for x, a := range row {
			if a >= 0x80 {
				c.img.SetRGBA(area.Min.X+x, area.Min.Y+y, col)
			}
		}
	}
}

// coverage returns a cleared w×h alpha mask backed by a reused buffer.
func (c *Canvas) coverage(w, h int) *image.Alpha {
	if cap(c.mask) < w*h {
		c.mask = make([]uint8, w*h)
	}
	pix := c.mask[:w*h]
	clear(pix)
	return &image.Alpha{Pix: pix, Stride: w, Rect: image.Rect(0, 0, w, h)}
}

// clipToBox clips a closed polygon to [0, w]×[0, h] (Sutherland–Hodgman) so
// the rasterizer never sees coordinates outside its mask.
func clipToBox(poly []Vec2, w, h float64) []Vec2 {
	poly = clipEdge(poly, func(p Vec2) bool { return p.X >= 0 }, func(a, b Vec2) Vec2 { return atX(a, b, 0) })
	poly = clipEdge(poly, func(p Vec2) bool { return p.X <= w }, func(a, b Vec2) Vec2 { return atX(a, b, w) })
	poly = clipEdge(poly, func(p Vec2) bool { return p.Y >= 0 }, func(a, b Vec2) Vec2 { return atY(a, b, 0) })
	poly = clipEdge(poly, func(p Vec2) bool { return p.Y <= h }, func(a, b Vec2) Vec2 { return atY(a, b, h) })
	return poly
}

func clipEdge(poly []Vec2, inside func(Vec2) bool, cross func(a, b Vec2) Vec2) []Vec2 {
	if len(poly) == 0 {
		return poly
	}
	out := make([]Vec2, 0, len(poly)+4)
	prev := poly[len(poly)-1]
	for _, p := range poly {
		switch {
		case inside(p) && inside(prev):
			out = append(out, p)
		case inside(p):
			out = append(out, cross(prev, p), p)
		case inside(prev):
			out = append(out, cross(prev, p))
		}
		prev = p
	}
	return out
}

func atX(a, b Vec2, x float64) Vec2 {
	t := (x - a.X) / (b.X - a.X)
	return Vec2{x, a.Y + t*(b.Y-a.Y)}
}

func atY(a, b Vec2, y float64) Vec2 {
	t := (y - a.Y) / (b.Y - a.Y)
	return Vec2{a.X + t*(b.X-a.X), y}
}

// --- Context ---

// Context records paths in a shape's local space and fills them onto its
// canvas. The zero value records paths but fills nothing, which is enough
// for surfaces that only observe traversal.
type Context struct {
	canvas    *Canvas
	transform [6]float64
	opacity   float64
	subpaths  [][]Vec2
	cur       []Vec2
}

// IsHit reports whether the context paints into a hit canvas.
func (ctx *Context) IsHit() bool {
	return ctx.canvas != nil && ctx.canvas.hit
}

func (ctx *Context) setTransform(m [6]float64, opacity float64) {
	ctx.transform = m
	ctx.opacity = opacity
}

// BeginPath discards the current path.
func (ctx *Context) BeginPath() {
	ctx.subpaths = ctx.subpaths[:0]
	ctx.cur = nil
}

// MoveTo starts a new subpath at (x, y).
func (ctx *Context) MoveTo(x, y float64) {
	ctx.flush()
	ctx.cur = append(ctx.cur, ctx.point(x, y))
}

// LineTo adds a straight edge to (x, y).
func (ctx *Context) LineTo(x, y float64) {
	ctx.cur = append(ctx.cur, ctx.point(x, y))
}

// ClosePath closes the current subpath.
func (ctx *Context) ClosePath() {
	ctx.flush()
}

// Rect adds a closed w×h rectangle subpath.
func (ctx *Context) Rect(x, y, w, h float64) {
	ctx.MoveTo(x, y)
	ctx.LineTo(x+w, y)
	ctx.LineTo(x+w, y+h)
	ctx.LineTo(x, y+h)
	ctx.ClosePath()
}

// Circle adds a closed circle subpath approximated by a regular polygon.
func (ctx *Context) Circle(cx, cy, r float64) {
	for i := 0; i < circleSegments; i++ {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / circleSegments)
		if i == 0 {
			ctx.MoveTo(cx+r*cos, cy+r*sin)
			continue
		}
		ctx.LineTo(cx+r*cos, cy+r*sin)
	}
	ctx.ClosePath()
}

// Polygon adds a closed subpath through points.
func (ctx *Context) Polygon(points []Vec2) {
	for i, p := range points {
		if i == 0 {
			ctx.MoveTo(p.X, p.Y)
			continue
		}
		ctx.LineTo(p.X, p.Y)
	}
	ctx.ClosePath()
}

// Fill paints the current path with col, scaled by the shape's absolute opacity.
func (ctx *Context) Fill(col Color) {
	ctx.flush()
	if ctx.canvas == nil {
		return
	}
	col.A *= ctx.opacity
	ctx.canvas.fill(ctx.subpaths, col.RGBA())
}

// FillShape paints the current path for n: its Fill on a scene canvas, its
// opaque hit color key on a hit canvas.
func (ctx *Context) FillShape(n *Node) {
	ctx.flush()
	if ctx.canvas == nil {
		return
	}
	if ctx.canvas.hit {
		ctx.canvas.fill(ctx.subpaths, colorKeyRGBA(n.colorKey))
		return
	}
	ctx.Fill(n.Fill)
}

// flush moves the open subpath into the finished list.
func (ctx *Context) flush() {
	if len(ctx.cur) > 0 {
		ctx.subpaths = append(ctx.subpaths, ctx.cur)
		ctx.cur = nil
	}
}

func (ctx *Context) point(x, y float64) Vec2 {
	wx, wy := transformPoint(ctx.transform, x, y)
	return Vec2{wx, wy}
}

// pathBounds returns the pixel bounding box of the current path.
func (ctx *Context) pathBounds() image.Rectangle {
	ctx.flush()
	return subpathBounds(ctx.subpaths)
}

// subpathBounds returns the smallest pixel rectangle containing every point.
func subpathBounds(subpaths [][]Vec2) image.Rectangle {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, sp := range subpaths {
		for _, p := range sp {
			minX = math.Min(minX, p.X)
			minY = math.Min(minY, p.Y)
			maxX = math.Max(maxX, p.X)
			maxY = math.Max(maxY, p.Y)
		}
	}
	if minX > maxX {
		return image.Rectangle{}
	}
	return image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY)))
}

// --- Hit color keys ---

func colorKeyRGBA(key uint32) color.RGBA {
	return color.RGBA{R: uint8(key >> 16), G: uint8(key >> 8), B: uint8(key), A: 255}
}

func rgbaColorKey(c color.RGBA) uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}
