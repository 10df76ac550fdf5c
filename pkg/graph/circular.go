package graph

import (
	"strconv"
	"strings"
)

// Trail is an ordered cycle path of the form [target, ..., dependent, target].
type Trail []*Node

// Trace checks whether adding the edge dependent → target would close a cycle.
//
// It searches depth-first from target along normal edges, in the order their
// specifiers were recorded, for a path back to dependent. The first path
// found wins. The returned trail starts and ends with target. Trace returns
// nil when no such path exists, and also when target and dependent are the
// same node: a direct self-reference is not reported as a cycle.
//
// lookup resolves edge targets to nodes; Store.Get satisfies it.
func Trace(target, dependent *Node, lookup func(id string) (*Node, bool)) Trail {
	if target == nil || dependent == nil || target.ID == dependent.ID {
		return nil
	}

	var trail Trail
	seen := make(map[string]bool)

	var visit func(n *Node) bool
	visit = func(n *Node) bool {
		if n.ID == dependent.ID {
			trail = append(trail, n)
			return true
		}
		// Nodes already on the path or already exhausted cannot lead anywhere new.
		if seen[n.ID] {
			return false
		}
		seen[n.ID] = true
		trail = append(trail, n)

		for _, spec := range n.Specifiers(Normal) {
			id, ok := n.Target(Normal, spec)
			if !ok {
				continue
			}
			next, ok := lookup(id)
			if !ok {
				continue
			}
			if visit(next) {
				return true
			}
		}
		trail = trail[:len(trail)-1]
		return false
	}

	if !visit(target) {
		return nil
	}
	return append(trail, target)
}

// IDs returns the node ids along the trail.
func (t Trail) IDs() []string {
	ids := make([]string, len(t))
	for i, n := range t {
		ids[i] = n.ID
	}
	return ids
}

// String renders the trail as a numbered list followed by a flow line:
//
//	1: /src/a.js
//	2: /src/b.js
//
//	[1] -> 2 -> [1]
func (t Trail) String() string {
	if len(t) == 0 {
		return ""
	}
	var b strings.Builder
	for i, n := range t[:len(t)-1] {
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(": ")
		b.WriteString(n.ID)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	for i := range t {
		if i > 0 {
			b.WriteString(" -> ")
		}
		if i == 0 || i == len(t)-1 {
			b.WriteString("[1]")
		} else {
			b.WriteString(strconv.Itoa(i + 1))
		}
	}
	return b.String()
}
