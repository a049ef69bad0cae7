package arbor

import (
	"errors"
	"fmt"
	"strings"
)

// MaxTreeDepth bounds the number of levels in a tree. Traversals recurse once
// per level, so Add rejects anything deeper with ErrTreeTooDeep instead of
// letting a draw pass exhaust the stack.
const MaxTreeDepth = 512

// --- ID counter ---

// nodeIDCounter is a plain counter (no atomic; arbor is single-threaded).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// --- Node ---

// Node is the fundamental scene graph element. A single flat struct is used
// for stages, layers, groups and shapes; Type decides which tree rules and
// draw behavior apply.
//
// Structural and identity state is unexported and changed only through
// methods so the registry and child indices stay consistent. Exported fields
// are plain attributes, copied by Clone and serialized by ToObject.
type Node struct {
	// Identity
	uid   uint32
	id    string
	name  string
	class string
	Type  NodeType

	// Hierarchy
	parent   *Node
	children []*Node
	index    int
	registry *Registry

	// Transform (local)
	X, Y             float64
	ScaleX, ScaleY   float64
	Rotation         float64
	SkewX, SkewY     float64
	OffsetX, OffsetY float64

	// Visibility & interaction
	Opacity   float64
	Visible   bool
	Listening bool

	// Shape geometry and paint
	Fill          Color
	Width, Height float64
	Radius        float64
	Points        []Vec2

	// HitShape overrides the geometry derived from Width/Height/Radius/Points.
	HitShape HitShape `copier:"-"`

	// ClipFunc, when set on a container, describes a path in the container's
	// local space. Children are drawn clipped to that path's bounds.
	ClipFunc func(ctx *Context) `copier:"-"`

	// SceneFunc and HitFunc paint a shape. HitFunc defaults to SceneFunc.
	SceneFunc func(ctx *Context, n *Node) error `copier:"-"`
	HitFunc   func(ctx *Context, n *Node) error `copier:"-"`

	// ClearBeforeDraw makes a layer clear its own canvases before each pass.
	ClearBeforeDraw bool

	// Metadata
	UserData any `copier:"-"`

	// OnDestroy runs after every descendant is destroyed and before this node
	// leaves its parent and registry.
	OnDestroy func(n *Node) error `copier:"-"`

	// Internal
	colorKey  uint32
	layer     *layerCanvases
	stage     *Stage
	listeners []listener
	nextLID   uint32
	destroyed bool
}

// nodeDefaults assigns a fresh identity and the default attribute values
// shared by all constructors.
func nodeDefaults(n *Node) {
	n.uid = nextNodeID()
	n.index = -1
	if n.Type == NodeTypeShape {
		n.colorKey = n.uid & 0xffffff
	}
	attrDefaults(n)
}

// attrDefaults sets the exported attributes a new node of n.Type starts with.
func attrDefaults(n *Node) {
	n.ScaleX = 1
	n.ScaleY = 1
	n.Opacity = 1
	n.Visible = true
	n.Listening = true
	switch n.Type {
	case NodeTypeShape:
		n.Fill = ColorBlack
	case NodeTypeLayer:
		n.ClearBeforeDraw = true
	}
}

func newNode(typ NodeType, class, name string) *Node {
	n := &Node{Type: typ, class: class, name: normalizeName(name)}
	nodeDefaults(n)
	return n
}

// NewGroup creates a plain container node.
func NewGroup(name string) *Node {
	return newNode(NodeTypeGroup, "Group", name)
}

// NewLayer creates a layer. Its canvases are allocated when it is added to a
// Stage, sized to the stage.
func NewLayer(name string) *Node {
	return newNode(NodeTypeLayer, "Layer", name)
}

// NewShape creates a shape painted by sceneFunc.
func NewShape(name string, sceneFunc func(ctx *Context, n *Node) error) *Node {
	n := newNode(NodeTypeShape, "Shape", name)
	n.SceneFunc = sceneFunc
	return n
}

// NewRect creates a w×h rectangle shape with its top-left corner at the
// node origin.
func NewRect(name string, w, h float64) *Node {
	n := newNode(NodeTypeShape, "Rect", name)
	n.Width, n.Height = w, h
	n.SceneFunc = drawRect
	return n
}

// NewCircle creates a circle shape centered on the node origin.
func NewCircle(name string, radius float64) *Node {
	n := newNode(NodeTypeShape, "Circle", name)
	n.Radius = radius
	n.SceneFunc = drawCircle
	return n
}

// NewPolygon creates a closed convex polygon shape.
func NewPolygon(name string, points ...Vec2) *Node {
	n := newNode(NodeTypeShape, "Polygon", name)
	n.Points = append([]Vec2(nil), points...)
	n.SceneFunc = drawPolygon
	return n
}

// --- Identity ---

// UID returns the process-unique identity of the node. Clones get fresh UIDs.
func (n *Node) UID() uint32 {
	return n.uid
}

// ID returns the node's id, or "" if none is set.
func (n *Node) ID() string {
	return n.id
}

// SetID changes the node's id and updates the registry entry.
func (n *Node) SetID(id string) {
	if n.registry != nil {
		n.registry.removeID(n.id, n)
		if id != "" {
			n.registry.ids[id] = n
		}
	}
	n.id = id
}

// Name returns the node's names as a single space-separated string.
func (n *Node) Name() string {
	return n.name
}

// Names returns the node's individual names.
func (n *Node) Names() []string {
	return strings.Fields(n.name)
}

// HasName reports whether name is one of the node's names.
func (n *Node) HasName(name string) bool {
	for _, nm := range strings.Fields(n.name) {
		if nm == name {
			return true
		}
	}
	return false
}

// SetName replaces the node's names. Whitespace separates multiple names.
func (n *Node) SetName(name string) {
	name = normalizeName(name)
	if n.registry != nil {
		for _, old := range strings.Fields(n.name) {
			n.registry.removeName(old, n)
		}
		for _, nm := range strings.Fields(name) {
			n.registry.addName(nm, n)
		}
	}
	n.name = name
}

func normalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// ClassName returns the concrete class ("Rect", "Circle", "Group", ...).
func (n *Node) ClassName() string {
	return n.class
}

// Registry returns the registry shared by the node's tree, or nil for a node
// that has never been part of a tree.
func (n *Node) Registry() *Registry {
	return n.registry
}

// IsDestroyed returns true if this node has been destroyed.
func (n *Node) IsDestroyed() bool {
	return n.destroyed
}

// --- Hierarchy accessors ---

// Parent returns the containing node, or nil.
func (n *Node) Parent() *Node {
	return n.parent
}

// Index returns the node's position among its siblings, or -1 when detached.
func (n *Node) Index() int {
	return n.index
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// HasChildren reports whether the node has any children.
func (n *Node) HasChildren() bool {
	return len(n.children) > 0
}

// Layer returns the nearest layer at or above this node, or nil.
func (n *Node) Layer() *Node {
	for p := n; p != nil; p = p.parent {
		if p.Type == NodeTypeLayer {
			return p
		}
	}
	return nil
}

// GetStage returns the Stage the node is attached to, or nil.
func (n *Node) GetStage() *Stage {
	root := n
	for root.parent != nil {
		root = root.parent
	}
	return root.stage
}

// IsVisible reports whether this node and all of its ancestors are visible.
func (n *Node) IsVisible() bool {
	for p := n; p != nil; p = p.parent {
		if !p.Visible {
			return false
		}
	}
	return true
}

// IsListening reports whether this node and all of its ancestors listen for
// hit testing.
func (n *Node) IsListening() bool {
	for p := n; p != nil; p = p.parent {
		if !p.Listening {
			return false
		}
	}
	return true
}

// ShouldDrawHit reports whether the node takes part in the hit pass.
func (n *Node) ShouldDrawHit() bool {
	return n.IsListening() && n.IsVisible()
}

// --- Tree manipulation ---

// Add appends child to this container's children. A child that already has
// a parent is detached from it first, so a node is never held by two
// containers. On failure Add returns an *AddError and changes nothing.
func (n *Node) Add(child *Node) error {
	if err := n.validateAdd(child); err != nil {
		return &AddError{Parent: n, Child: child, Err: err}
	}
	if child.parent != nil {
		child.Remove()
	}
	if n.registry == nil {
		n.registry = NewRegistry()
		n.registry.register(n)
	}
	adopt(child, n.registry)
	child.index = len(n.children)
	child.parent = n
	n.children = append(n.children, child)
	if n.stage != nil && child.Type == NodeTypeLayer {
		n.stage.attachLayer(child)
	}
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
	n.fire(Event{Type: EventAdd, Target: n, Child: child})
	return nil
}

// MustAdd is like Add but panics on failure and returns n for chaining.
func (n *Node) MustAdd(children ...*Node) *Node {
	for _, child := range children {
		if err := n.Add(child); err != nil {
			panic(err.Error())
		}
	}
	return n
}

// validateAdd applies the type-specific rules for accepting child.
func (n *Node) validateAdd(child *Node) error {
	switch {
	case child == nil:
		return ErrNilChild
	case n.destroyed || child.destroyed:
		return ErrDestroyed
	case !n.Type.IsContainer():
		return ErrNotContainer
	case child == n || child.IsAncestorOf(n):
		return ErrCycle
	case !acceptsChild(n.Type, child.Type):
		return ErrChildType
	case n.depth()+child.height() > MaxTreeDepth:
		return ErrTreeTooDeep
	}
	return nil
}

// acceptsChild reports whether a container of type parent may hold a child of
// type child. Stages hold layers; layers and groups hold groups and shapes.
func acceptsChild(parent, child NodeType) bool {
	switch parent {
	case NodeTypeStage:
		return child == NodeTypeLayer
	case NodeTypeLayer, NodeTypeGroup:
		return child == NodeTypeGroup || child == NodeTypeShape
	}
	return false
}

// depth returns the number of levels from the root down to n, inclusive.
func (n *Node) depth() int {
	d := 0
	for p := n; p != nil; p = p.parent {
		d++
	}
	return d
}

// height returns the number of levels in the subtree rooted at n.
func (n *Node) height() int {
	h := 0
	for _, child := range n.children {
		if ch := child.height(); ch > h {
			h = ch
		}
	}
	return h + 1
}

// Remove detaches the node from its parent. The node keeps its children and
// registry entries and can be added elsewhere. No-op without a parent.
func (n *Node) Remove() {
	p := n.parent
	if p == nil {
		return
	}
	i := n.index
	copy(p.children[i:], p.children[i+1:])
	p.children[len(p.children)-1] = nil
	p.children = p.children[:len(p.children)-1]
	p.setChildrenIndices()
	n.parent = nil
	n.index = -1
	p.fire(Event{Type: EventRemove, Target: p, Child: n})
}

// RemoveChildren detaches every child, emptying each child's own subtree
// first. Children are NOT destroyed.
func (n *Node) RemoveChildren() {
	for len(n.children) > 0 {
		child := n.children[0]
		if child.HasChildren() {
			child.RemoveChildren()
		}
		child.Remove()
	}
}

// DestroyChildren destroys every child in order. A failing child does not
// stop its siblings from being destroyed; all failures are joined.
func (n *Node) DestroyChildren() error {
	var errs []error
	for len(n.children) > 0 {
		if err := n.children[0].Destroy(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Destroy destroys all descendants, then runs OnDestroy, detaches the node
// and releases its registry entries. Destruction always completes; errors
// returned by OnDestroy hooks anywhere in the subtree are joined.
// Calling Destroy on a destroyed node is a no-op.
func (n *Node) Destroy() error {
	if n.destroyed {
		return nil
	}
	var errs []error
	if n.HasChildren() {
		if err := n.DestroyChildren(); err != nil {
			errs = append(errs, err)
		}
	}
	if n.OnDestroy != nil {
		if err := n.OnDestroy(n); err != nil {
			errs = append(errs, fmt.Errorf("destroy %s: %w", describe(n), err))
		}
	}
	n.Remove()
	if n.registry != nil {
		n.registry.unregister(n)
	}
	n.fire(Event{Type: EventDestroy, Target: n})
	n.dispose()
	return errors.Join(errs...)
}

func (n *Node) dispose() {
	n.destroyed = true
	n.children = nil
	n.parent = nil
	n.registry = nil
	n.layer = nil
	n.stage = nil
	n.listeners = nil
	n.HitShape = nil
	n.ClipFunc = nil
	n.SceneFunc = nil
	n.HitFunc = nil
	n.OnDestroy = nil
	n.UserData = nil
}

// setChildrenIndices reassigns every child's index to its position.
func (n *Node) setChildrenIndices() {
	for i, child := range n.children {
		child.index = i
	}
}

// --- Z-order ---

// SetZIndex moves the node to position index among its siblings.
// Panics if index is out of range. No-op without a parent.
func (n *Node) SetZIndex(index int) {
	p := n.parent
	if p == nil {
		return
	}
	if index < 0 || index >= len(p.children) {
		panic("arbor: child index out of range")
	}
	old := n.index
	if old == index {
		return
	}
	// Shift elements to fill the gap and open the target slot.
	if old < index {
		copy(p.children[old:], p.children[old+1:index+1])
	} else {
		copy(p.children[index+1:], p.children[index:old])
	}
	p.children[index] = n
	p.setChildrenIndices()
}

// MoveToTop moves the node above all of its siblings.
func (n *Node) MoveToTop() {
	if n.parent != nil {
		n.SetZIndex(len(n.parent.children) - 1)
	}
}

// MoveToBottom moves the node below all of its siblings.
func (n *Node) MoveToBottom() {
	if n.parent != nil {
		n.SetZIndex(0)
	}
}

// MoveUp swaps the node with the sibling above it. Reports whether it moved.
func (n *Node) MoveUp() bool {
	if n.parent == nil || n.index >= len(n.parent.children)-1 {
		return false
	}
	n.SetZIndex(n.index + 1)
	return true
}

// MoveDown swaps the node with the sibling below it. Reports whether it moved.
func (n *Node) MoveDown() bool {
	if n.parent == nil || n.index <= 0 {
		return false
	}
	n.SetZIndex(n.index - 1)
	return true
}

// --- Ancestry ---

// IsAncestorOf reports whether n appears strictly above node in node's
// parent chain. Ancestors are compared by UID. A destroyed link in the chain
// ends the walk with no match, as does a chain longer than MaxTreeDepth.
func (n *Node) IsAncestorOf(node *Node) bool {
	if node == nil {
		return false
	}
	steps := 0
	for p := node.parent; p != nil; p = p.parent {
		if p.destroyed || steps > MaxTreeDepth {
			return false
		}
		if p.uid == n.uid {
			return true
		}
		steps++
	}
	return false
}
