package arbor

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs when a canvas fills a path.
type Color struct {
	R, G, B, A float64
}

// ColorBlack is the default fill for shapes.
var ColorBlack = Color{0, 0, 0, 1}

// ColorTransparent fills nothing.
var ColorTransparent = Color{}

// RGBA converts c to a premultiplied color.RGBA.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A)*255 + 0.5),
		G: uint8(clamp01(c.G*c.A)*255 + 0.5),
		B: uint8(clamp01(c.B*c.A)*255 + 0.5),
		A: uint8(clamp01(c.A)*255 + 0.5),
	}
}

// Hex returns the color as "#rrggbb", or "#rrggbbaa" when not fully opaque.
func (c Color) Hex() string {
	r := uint8(clamp01(c.R)*255 + 0.5)
	g := uint8(clamp01(c.G)*255 + 0.5)
	b := uint8(clamp01(c.B)*255 + 0.5)
	a := uint8(clamp01(c.A)*255 + 0.5)
	if a == 255 {
		return fmt.Sprintf("#%02x%02x%02x", r, g, b)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", r, g, b, a)
}

// ParseColor parses "#rgb", "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return Color{}, fmt.Errorf("parse color %q: want #rgb, #rrggbb or #rrggbbaa", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return Color{
		R: float64(v>>24&0xff) / 255,
		G: float64(v>>16&0xff) / 255,
		B: float64(v>>8&0xff) / 255,
		A: float64(v&0xff) / 255,
	}, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Vec2 is a 2D vector used for positions, points and sizes.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// NodeType distinguishes tree behavior for a Node.
type NodeType uint8

const (
	NodeTypeStage NodeType = iota // tree root; accepts only layers
	NodeTypeLayer                 // owns a scene canvas and a hit canvas
	NodeTypeGroup                 // plain container with no visual output
	NodeTypeShape                 // leaf that paints itself; never has children
)

// String returns the selector token for the type ("Stage", "Layer", ...).
func (t NodeType) String() string {
	switch t {
	case NodeTypeStage:
		return "Stage"
	case NodeTypeLayer:
		return "Layer"
	case NodeTypeGroup:
		return "Group"
	case NodeTypeShape:
		return "Shape"
	default:
		return "Unknown"
	}
}

// IsContainer reports whether nodes of this type may hold children.
func (t NodeType) IsContainer() bool {
	return t != NodeTypeShape
}

// EventType identifies a tree mutation or pointer event.
type EventType uint8

const (
	EventAdd     EventType = iota // fires on a container after a child was added
	EventRemove                   // fires on a container after a child was detached
	EventDestroy                  // fires on a node once its destruction completed

	// Pointer events fire on the shape under the pointer and bubble up to
	// the stage root. Enter and leave fire on the shape only.
	EventPointerDown
	EventPointerUp
	EventPointerMove
	EventPointerEnter
	EventPointerLeave
	EventClick
)

// String returns the event name.
func (e EventType) String() string {
	switch e {
	case EventAdd:
		return "add"
	case EventRemove:
		return "remove"
	case EventDestroy:
		return "destroy"
	case EventPointerDown:
		return "pointerdown"
	case EventPointerUp:
		return "pointerup"
	case EventPointerMove:
		return "pointermove"
	case EventPointerEnter:
		return "pointerenter"
	case EventPointerLeave:
		return "pointerleave"
	case EventClick:
		return "click"
	default:
		return "unknown"
	}
}

// Event carries mutation or pointer data to listeners registered with Node.On.
type Event struct {
	Type   EventType
	Target *Node // node the listener is registered on
	Child  *Node // added or removed child; nil for EventDestroy

	// Pointer events only.
	Shape *Node // shape under the pointer, nil over empty stage area
	X, Y  int   // stage coordinates
}
