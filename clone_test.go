package arbor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// walk returns n and its descendants in depth-first order.
func walk(n *Node) []*Node {
	out := []*Node{n}
	for _, c := range n.Children() {
		out = append(out, walk(c)...)
	}
	return out
}

func TestCloneCopiesTreeWithFreshIdentity(t *testing.T) {
	root := NewGroup("root")
	root.SetPosition(5, 6)
	root.ClipFunc = clipRect(10, 10)
	a := NewRect("a", 10, 20)
	a.Fill = Color{R: 1, A: 1}
	a.SetID("a-id")
	inner := NewGroup("inner")
	b := NewPolygon("b", Vec2{0, 0}, Vec2{1, 0}, Vec2{0, 1})
	c := NewCircle("c", 3)
	c.Visible = false
	root.MustAdd(a, inner, c)
	inner.MustAdd(b)

	clone, err := root.Clone(nil)
	require.NoError(t, err)

	orig, copied := walk(root), walk(clone)
	require.Len(t, copied, len(orig))

	seen := map[*Node]bool{}
	for _, n := range orig {
		seen[n] = true
	}
	for i := range orig {
		o, k := orig[i], copied[i]
		assert.False(t, seen[k], "clone shares node %s", describe(o))
		assert.NotEqual(t, o.UID(), k.UID())
		assert.Equal(t, o.ToObject().Attrs, k.ToObject().Attrs, "attrs of %s", describe(o))
		assert.Equal(t, o.ClassName(), k.ClassName())
		assert.Equal(t, o.Index(), k.Index(), "index of %s", describe(o))
		if o.Type == NodeTypeShape {
			assert.NotEqual(t, o.colorKey, k.colorKey)
		}
	}
	assert.Nil(t, clone.Parent(), "clone is detached")
	assert.NotNil(t, clone.ClipFunc, "function fields are shared")
	assert.NotNil(t, copied[1].SceneFunc)
}

func TestCloneDeepCopiesSlices(t *testing.T) {
	p := NewPolygon("p", Vec2{0, 0}, Vec2{1, 0}, Vec2{0, 1})
	k, err := p.Clone(nil)
	require.NoError(t, err)

	k.Points[0].X = 42
	assert.Equal(t, 0.0, p.Points[0].X, "clone must not alias Points")
}

func TestCloneOverrides(t *testing.T) {
	r := NewRect("r", 10, 10)
	r.SetPosition(1, 2)

	k, err := r.Clone(Attrs{"x": 100, "name": "copy", "fill": "#00ff00"})
	require.NoError(t, err)
	assert.Equal(t, 100.0, k.X)
	assert.Equal(t, 2.0, k.Y)
	assert.Equal(t, "copy", k.Name())
	assert.Equal(t, Color{G: 1, A: 1}, k.Fill)
	assert.Equal(t, 1.0, r.X, "original untouched")

	_, err = r.Clone(Attrs{"bogus": 1})
	assert.ErrorIs(t, err, ErrUnknownAttr)
}

func TestCloneAddedToSameTreeTakesOverID(t *testing.T) {
	layer := NewLayer("layer")
	r := NewRect("r", 1, 1)
	r.SetID("hero")
	layer.MustAdd(r)

	k, err := r.Clone(nil)
	require.NoError(t, err)
	layer.MustAdd(k)

	assert.Equal(t, []*Node{k}, layer.Get("#hero"))
	assert.Equal(t, []*Node{r, k}, layer.Get(".r"))
	assert.Equal(t, k, layer.Registry().ShapeByColorKey(k.colorKey))
	assert.Equal(t, r, layer.Registry().ShapeByColorKey(r.colorKey))
}

func TestCloneIsDetachedFromOriginalTree(t *testing.T) {
	layer := NewLayer("layer")
	g := NewGroup("g")
	r := NewRect("r", 4, 4)
	g.MustAdd(r)
	layer.MustAdd(g)

	var origAdds int
	g.On(EventAdd, func(Event) { origAdds++ })

	rc, err := r.Clone(nil)
	require.NoError(t, err)
	assert.Nil(t, rc.Parent())
	assert.Equal(t, -1, rc.Index())
	assert.Nil(t, rc.registry)
	assert.NotPanics(t, func() { rc.Remove() })

	gc, err := g.Clone(nil)
	require.NoError(t, err)
	assert.Nil(t, gc.Parent())
	assert.Len(t, g.Children(), 1, "original keeps its children")
	require.Len(t, gc.Children(), 1)
	assert.NotSame(t, r, gc.Children()[0])
	assert.Same(t, gc, gc.Children()[0].Parent())
	assert.Zero(t, origAdds, "cloning does not touch the original")

	gc.MustAdd(NewRect("extra", 1, 1))
	assert.Zero(t, origAdds, "clone does not share listeners")
	assert.Len(t, g.Children(), 1)
	assert.Equal(t, []*Node{r}, layer.Get(".r"), "clone is not in the original's registry")

	lc, err := layer.Clone(nil)
	require.NoError(t, err)
	assert.Nil(t, lc.layer)
	assert.Nil(t, lc.stage)
}
