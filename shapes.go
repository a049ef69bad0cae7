package arbor

// Default paint functions for the built-in shape classes. Custom shapes set
// SceneFunc (and optionally HitFunc) and paint through the same Context.

func drawRect(ctx *Context, n *Node) error {
	ctx.BeginPath()
	ctx.Rect(0, 0, n.Width, n.Height)
	ctx.FillShape(n)
	return nil
}

func drawCircle(ctx *Context, n *Node) error {
	ctx.BeginPath()
	ctx.Circle(0, 0, n.Radius)
	ctx.FillShape(n)
	return nil
}

func drawPolygon(ctx *Context, n *Node) error {
	ctx.BeginPath()
	ctx.Polygon(n.Points)
	ctx.FillShape(n)
	return nil
}

// sceneFuncForClass returns the built-in paint function for class, or nil.
func sceneFuncForClass(class string) func(ctx *Context, n *Node) error {
	switch class {
	case "Rect":
		return drawRect
	case "Circle":
		return drawCircle
	case "Polygon":
		return drawPolygon
	}
	return nil
}
