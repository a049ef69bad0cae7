package arbor

import "strings"

// Registry maps ids and names to the nodes of one tree. Ids are unique; a
// name may be shared by any number of nodes. Shapes are also indexed by
// their hit color key.
//
// A Stage is constructed with a Registry; detached containers create their
// own on first Add. Nodes stay registered when they are removed from a tree
// and are only released on Destroy, so lookups must be filtered through
// ancestry by the caller.
type Registry struct {
	ids    map[string]*Node
	names  map[string][]*Node
	shapes map[uint32]*Node
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		ids:    make(map[string]*Node),
		names:  make(map[string][]*Node),
		shapes: make(map[uint32]*Node),
	}
}

// NodeByID returns the node registered under id, or nil.
func (r *Registry) NodeByID(id string) *Node {
	return r.ids[id]
}

// NodesByName returns the nodes registered under name in registration order.
// The returned slice MUST NOT be mutated.
func (r *Registry) NodesByName(name string) []*Node {
	return r.names[name]
}

// ShapeByColorKey returns the shape whose hit color key is key, or nil.
func (r *Registry) ShapeByColorKey(key uint32) *Node {
	return r.shapes[key]
}

// Len returns the number of registered ids.
func (r *Registry) Len() int {
	return len(r.ids)
}

func (r *Registry) register(n *Node) {
	if n.id != "" {
		r.ids[n.id] = n
	}
	for _, name := range strings.Fields(n.name) {
		r.addName(name, n)
	}
	if n.Type == NodeTypeShape {
		r.shapes[n.colorKey] = n
	}
}

func (r *Registry) unregister(n *Node) {
	r.removeID(n.id, n)
	for _, name := range strings.Fields(n.name) {
		r.removeName(name, n)
	}
	if n.Type == NodeTypeShape && r.shapes[n.colorKey] == n {
		delete(r.shapes, n.colorKey)
	}
}

func (r *Registry) removeID(id string, n *Node) {
	if id != "" && r.ids[id] == n {
		delete(r.ids, id)
	}
}

func (r *Registry) addName(name string, n *Node) {
	for _, existing := range r.names[name] {
		if existing == n {
			return
		}
	}
	r.names[name] = append(r.names[name], n)
}

func (r *Registry) removeName(name string, n *Node) {
	list := r.names[name]
	for i, existing := range list {
		if existing == n {
			copy(list[i:], list[i+1:])
			list[len(list)-1] = nil
			list = list[:len(list)-1]
			break
		}
	}
	if len(list) == 0 {
		delete(r.names, name)
		return
	}
	r.names[name] = list
}

// adopt moves every node of the subtree rooted at n into reg.
func adopt(n *Node, reg *Registry) {
	if n.registry == reg {
		return
	}
	if n.registry != nil {
		n.registry.unregister(n)
	}
	n.registry = reg
	reg.register(n)
	for _, child := range n.children {
		adopt(child, reg)
	}
}
