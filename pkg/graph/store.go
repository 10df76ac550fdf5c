package graph

import (
	"slices"
	"sync"
)

// Store is the id → Node mapping for one walk.
//
// All methods are safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	nodes map[string]*Node
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{nodes: make(map[string]*Node)}
}

// GetOrCreate returns the node for id, creating it if absent.
// created is true for exactly one caller per id. Foreign nodes are created
// already settled for every dependency type.
func (s *Store) GetOrCreate(id string, foreign bool) (n *Node, created bool) {
	s.mu.RLock()
	n, ok := s.nodes[id]
	s.mu.RUnlock()
	if ok {
		return n, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.nodes[id]; ok {
		return n, false
	}
	n = newNode(id, foreign)
	s.nodes[id] = n
	return n, true
}

// Get returns the node for id.
func (s *Store) Get(id string) (*Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[id]
	return n, ok
}

// Len returns the number of nodes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// Nodes returns every node sorted by id.
func (s *Store) Nodes() []*Node {
	s.mu.RLock()
	out := make([]*Node, 0, len(s.nodes))
	for _, n := range s.nodes {
		out = append(out, n)
	}
	s.mu.RUnlock()
	slices.SortFunc(out, func(a, b *Node) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out
}

// EdgeCount returns the number of recorded edges across all types.
func (s *Store) EdgeCount() int {
	count := 0
	for _, n := range s.Nodes() {
		n.mu.RLock()
		for _, e := range n.edges {
			count += len(e.keys)
		}
		n.mu.RUnlock()
	}
	return count
}

// Link records that from refers to to through specifier with type t.
// It reports false if the specifier was already recorded for t.
func (s *Store) Link(from *Node, t DepType, specifier string, to *Node) bool {
	if !t.valid() {
		return false
	}
	from.mu.Lock()
	defer from.mu.Unlock()
	e := &from.edges[t]
	if _, ok := e.targets[specifier]; ok {
		return false
	}
	if e.targets == nil {
		e.targets = make(map[string]string)
	}
	e.targets[specifier] = to.ID
	e.keys = append(e.keys, specifier)
	return true
}

// Claim marks n as scheduled for type t. It reports false if n was already
// claimed for t, in which case the caller must not process it again.
func (s *Store) Claim(n *Node, t DepType) bool {
	if !t.valid() {
		return false
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.claimed[t] {
		return false
	}
	n.claimed[t] = true
	return true
}

// Settle marks n as fully processed for type t.
func (s *Store) Settle(n *Node, t DepType) {
	if !t.valid() {
		return
	}
	n.mu.Lock()
	n.claimed[t] = true
	n.settled[t] = true
	n.mu.Unlock()
}

// TraceCycle reports whether the edge dependent → target closes a cycle
// through normal edges. See [Trace].
func (s *Store) TraceCycle(dependent, target *Node) Trail {
	return Trace(target, dependent, s.Get)
}
