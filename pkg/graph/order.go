package graph

const (
	white = iota
	gray
	black
)

// Order returns node ids so that every node appears after the nodes it
// depends on through normal edges. Cycles are broken at the back edge, so
// every node still appears exactly once. Nodes are visited in id order and
// children in specifier order, which makes the result deterministic.
func Order(s *Store) []string {
	order := make([]string, 0, s.Len())
	walkNormal(s, nil, func(n *Node) {
		order = append(order, n.ID)
	})
	return order
}

// Cycles lists the cycles closed by back edges in a depth-first traversal
// of the normal edges. Each cycle is returned as a trail of ids whose first
// and last elements are equal.
func Cycles(s *Store) [][]string {
	var cycles [][]string
	walkNormal(s, func(path []*Node, back *Node) {
		start := len(path) - 1
		for start >= 0 && path[start] != back {
			start--
		}
		if start < 0 {
			return
		}
		cycle := make([]string, 0, len(path)-start+1)
		for _, n := range path[start:] {
			cycle = append(cycle, n.ID)
		}
		cycles = append(cycles, append(cycle, back.ID))
	}, nil)
	return cycles
}

// walkNormal runs a white/gray/black depth-first search over normal edges.
// onBack is called with the current path when an edge reaches a gray node;
// onDone is called in post-order.
func walkNormal(s *Store, onBack func(path []*Node, back *Node), onDone func(*Node)) {
	color := make(map[string]int)
	var path []*Node

	var dfs func(n *Node)
	dfs = func(n *Node) {
		color[n.ID] = gray
		path = append(path, n)
		for _, spec := range n.Specifiers(Normal) {
			id, _ := n.Target(Normal, spec)
			child, ok := s.Get(id)
			if !ok {
				continue
			}
			switch color[child.ID] {
			case white:
				dfs(child)
			case gray:
				if onBack != nil {
					onBack(path, child)
				}
			}
		}
		path = path[:len(path)-1]
		color[n.ID] = black
		if onDone != nil {
			onDone(n)
		}
	}

	for _, n := range s.Nodes() {
		if color[n.ID] == white {
			dfs(n)
		}
	}
}
