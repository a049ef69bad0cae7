package arbor

import (
	"fmt"
	"slices"

	"github.com/jinzhu/copier"
)

// Clone returns a detached deep copy of n and its subtree. Every node in the
// copy gets a fresh UID and hit color key; exported attributes are deep
// copied and function-valued fields are shared with the original. The id and
// names are copied too, so adding a clone to the original's tree makes the
// clone the registered holder of the id.
//
// overrides, when non-nil, is applied to the top-level copy only. Children
// are cloned and added in their original order.
func (n *Node) Clone(overrides Attrs) (*Node, error) {
	c, err := n.cloneSelf()
	if err != nil {
		return nil, err
	}
	if err := c.SetAttrs(overrides); err != nil {
		return nil, err
	}
	for _, child := range n.children {
		cc, err := child.Clone(nil)
		if err != nil {
			return nil, err
		}
		if err := c.Add(cc); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// cloneSelf copies n's own attributes into a new detached node.
func (n *Node) cloneSelf() (*Node, error) {
	c := &Node{}
	if err := copier.CopyWithOption(c, n, copier.Option{CaseSensitive: true, DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("arbor: clone %s: %w", describe(n), err)
	}
	c.Type = n.Type
	c.class = n.class
	c.id = n.id
	c.name = n.name
	c.uid = nextNodeID()
	c.index = -1

	// copier copies unexported fields of same-typed structs shallowly, so
	// everything tying the copy to n's tree is reset here.
	c.parent = nil
	c.children = nil
	c.registry = nil
	c.layer = nil
	c.stage = nil
	c.listeners = nil
	c.nextLID = 0
	c.destroyed = false
	c.colorKey = 0
	c.Points = slices.Clone(n.Points)
	if c.Type == NodeTypeShape {
		c.colorKey = c.uid & 0xffffff
	}

	// Tagged copier:"-"; shared rather than copied.
	c.HitShape = n.HitShape
	c.ClipFunc = n.ClipFunc
	c.SceneFunc = n.SceneFunc
	c.HitFunc = n.HitFunc
	c.UserData = n.UserData
	c.OnDestroy = n.OnDestroy
	return c, nil
}
