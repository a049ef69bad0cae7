package arbor

// HitShape is a custom hit region in a node's local coordinates.
type HitShape interface {
	Contains(x, y float64) bool
}

// --- Built-in HitShape types ---

// HitRect is an axis-aligned rectangular hit area in local coordinates.
type HitRect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r HitRect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// HitCircle is a circular hit area in local coordinates.
type HitCircle struct {
	CenterX, CenterY, Radius float64
}

// Contains reports whether (x, y) lies inside or on the circle.
func (c HitCircle) Contains(x, y float64) bool {
	dx := x - c.CenterX
	dy := y - c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// HitPolygon is a convex polygon hit area in local coordinates.
// Points must define a convex polygon in either winding order.
type HitPolygon struct {
	Points []Vec2
}

// Contains reports whether (x, y) lies inside a convex polygon using cross-product sign test.
func (p HitPolygon) Contains(x, y float64) bool {
	n := len(p.Points)
	if n < 3 {
		return false
	}

	// Check that the point is on the same side of every edge.
	var positive, negative bool
	for i := 0; i < n; i++ {
		x1 := p.Points[i].X
		y1 := p.Points[i].Y
		j := (i + 1) % n
		x2 := p.Points[j].X
		y2 := p.Points[j].Y

		cross := (x2-x1)*(y-y1) - (y2-y1)*(x-x1)
		if cross > 0 {
			positive = true
		} else if cross < 0 {
			negative = true
		}
		if positive && negative {
			return false
		}
	}
	return true
}

// --- Intersection ---

// hitGeometry returns the local-space hit region of a shape: HitShape when
// set, otherwise one derived from the shape's class. Custom shapes without a
// HitShape are not hit-testable.
func hitGeometry(n *Node) HitShape {
	if n.HitShape != nil {
		return n.HitShape
	}
	switch n.class {
	case "Rect":
		return HitRect{Width: n.Width, Height: n.Height}
	case "Circle":
		return HitCircle{Radius: n.Radius}
	case "Polygon":
		return HitPolygon{Points: n.Points}
	}
	return nil
}

// Intersects reports whether the stage-space point lies inside the shape's
// hit geometry. Containers never intersect.
func (n *Node) Intersects(point Vec2) bool {
	if n.Type != NodeTypeShape {
		return false
	}
	geom := hitGeometry(n)
	if geom == nil {
		return false
	}
	lx, ly := n.WorldToLocal(point.X, point.Y)
	return geom.Contains(lx, ly)
}

// GetAllIntersections returns every visible shape below n whose geometry
// contains the stage-space point, in traversal order (bottom-most first).
//
// It tests every shape in the subtree and is meant for occasional queries;
// Stage.GetIntersection reads the hit canvases instead and should be
// preferred for picking.
func (n *Node) GetAllIntersections(point Vec2) []*Node {
	var out []*Node
	for _, shape := range n.Get("Shape") {
		if shape.IsVisible() && shape.Intersects(point) {
			out = append(out, shape)
		}
	}
	return out
}
