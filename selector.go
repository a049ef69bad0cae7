package arbor

import "strings"

// ClauseKind identifies how a selector clause is resolved.
type ClauseKind uint8

const (
	ClauseType ClauseKind = iota // bare token matched against node type or class
	ClauseID                     // "#id", resolved through the registry
	ClauseName                   // ".name", resolved through the registry
)

// Clause is one comma-separated term of a selector.
type Clause struct {
	Kind  ClauseKind
	Token string
}

// Selector is a parsed selector expression.
//
//	selector := clause (',' clause)*
//	clause   := '#' id | '.' name | type
//
// Whitespace anywhere in the expression is ignored.
type Selector []Clause

// ParseSelector splits s into clauses. It never fails: an empty expression
// yields a single empty type clause, which matches nothing.
func ParseSelector(s string) Selector {
	s = strings.Join(strings.Fields(s), "")
	parts := strings.Split(s, ",")
	sel := make(Selector, 0, len(parts))
	for _, p := range parts {
		switch {
		case strings.HasPrefix(p, "#"):
			sel = append(sel, Clause{Kind: ClauseID, Token: p[1:]})
		case strings.HasPrefix(p, "."):
			sel = append(sel, Clause{Kind: ClauseName, Token: p[1:]})
		default:
			sel = append(sel, Clause{Kind: ClauseType, Token: p})
		}
	}
	return sel
}

// Get returns the descendants of n matching selector. Clauses are evaluated
// left to right and their results concatenated without deduplication, so a
// node matched by two clauses appears twice.
//
//	layer.Get("#hero")          // descendant with id "hero"
//	layer.Get(".enemy")         // descendants named "enemy"
//	layer.Get("Rect")           // descendants of class Rect
//	layer.Get("Shape")          // every shape
//	layer.Get("#hero, .enemy")  // both, in clause order
func (n *Node) Get(selector string) []*Node {
	var out []*Node
	for _, c := range ParseSelector(selector) {
		switch c.Kind {
		case ClauseID:
			if node := n.nodeByID(c.Token); node != nil {
				out = append(out, node)
			}
		case ClauseName:
			out = n.appendDescendants(out, n.nodesByName(c.Token))
		default:
			for _, child := range n.children {
				out = child.collect(c.Token, out)
			}
		}
	}
	return out
}

// nodeByID resolves id through the registry and keeps it only if it lives
// inside n's subtree.
func (n *Node) nodeByID(id string) *Node {
	if n.registry == nil || id == "" {
		return nil
	}
	node := n.registry.NodeByID(id)
	if node != nil && n.IsAncestorOf(node) {
		return node
	}
	return nil
}

func (n *Node) nodesByName(name string) []*Node {
	if n.registry == nil || name == "" {
		return nil
	}
	return n.registry.NodesByName(name)
}

// appendDescendants appends the members of candidates that are descendants of n.
func (n *Node) appendDescendants(out, candidates []*Node) []*Node {
	for _, node := range candidates {
		if n.IsAncestorOf(node) {
			out = append(out, node)
		}
	}
	return out
}

// collect appends n, if it matches token, followed by every matching node of
// its subtree in depth-first order. Shapes have no children, so the same
// walk serves leaves and containers.
func (n *Node) collect(token string, out []*Node) []*Node {
	if n.matches(token) {
		out = append(out, n)
	}
	for _, child := range n.children {
		out = child.collect(token, out)
	}
	return out
}

// matches reports whether n's type or class name equals token. Blank and
// unrecognized tokens match nothing.
func (n *Node) matches(token string) bool {
	return token != "" && (token == n.Type.String() || token == n.class)
}
