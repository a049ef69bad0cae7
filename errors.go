package arbor

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAdd matches every *AddError via errors.Is.
	ErrInvalidAdd = errors.New("arbor: invalid add")

	ErrNilChild     = errors.New("child is nil")
	ErrDestroyed    = errors.New("node is destroyed")
	ErrCycle        = errors.New("child is an ancestor of the container")
	ErrNotContainer = errors.New("shapes cannot hold children")
	ErrChildType    = errors.New("child type not accepted by container")
	ErrTreeTooDeep  = errors.New("tree depth exceeds MaxTreeDepth")

	// ErrNoSurface is returned by a draw pass that reaches a shape with no
	// surface supplied and no layer canvas to fall back on.
	ErrNoSurface = errors.New("arbor: no drawing surface")

	// ErrUnknownClass is returned when deserializing an unsupported className.
	ErrUnknownClass = errors.New("arbor: unknown class")

	// ErrUnknownAttr is returned by SetAttrs for a key no node carries.
	ErrUnknownAttr = errors.New("arbor: unknown attribute")
)

// AddError reports a rejected Add. The container is left unmodified.
type AddError struct {
	Parent *Node
	Child  *Node
	Err    error
}

func (e *AddError) Error() string {
	return fmt.Sprintf("arbor: cannot add %s to %s: %v", describe(e.Child), describe(e.Parent), e.Err)
}

func (e *AddError) Unwrap() error {
	return e.Err
}

// Is makes every AddError match ErrInvalidAdd.
func (e *AddError) Is(target error) bool {
	return target == ErrInvalidAdd
}

// DrawError wraps a failure raised while drawing a shape.
type DrawError struct {
	Pass string // "scene" or "hit"
	Node *Node
	Err  error
}

func (e *DrawError) Error() string {
	return fmt.Sprintf("arbor: %s pass on %s: %v", e.Pass, describe(e.Node), e.Err)
}

func (e *DrawError) Unwrap() error {
	return e.Err
}

// describe formats a node for error messages and debug output.
func describe(n *Node) string {
	if n == nil {
		return "<nil>"
	}
	s := n.class
	if n.id != "" {
		s += "#" + n.id
	}
	if n.name != "" {
		s += "." + n.name
	}
	return fmt.Sprintf("%s(%d)", s, n.uid)
}
