package graph

import (
	"fmt"
	"sync"

	"github.com/zeebo/xxh3"
)

// DepType is the kind of reference that produced an edge.
type DepType int

const (
	// Normal references are loaded eagerly and followed.
	Normal DepType = iota
	// ResolveOnly references are resolved to a path but never followed.
	ResolveOnly
	// Async references are lazily loaded chunks: resolved and loaded, not followed.
	Async
)

// DepTypes lists every dependency type in declaration order.
var DepTypes = []DepType{Normal, ResolveOnly, Async}

const numDepTypes = 3

func (t DepType) String() string {
	switch t {
	case Normal:
		return "normal"
	case ResolveOnly:
		return "resolve"
	case Async:
		return "async"
	default:
		return fmt.Sprintf("DepType(%d)", int(t))
	}
}

// ParseDepType converts the string form of a dependency type back to a DepType.
func ParseDepType(s string) (DepType, error) {
	switch s {
	case "normal", "require":
		return Normal, nil
	case "resolve", "resolveOnly":
		return ResolveOnly, nil
	case "async":
		return Async, nil
	}
	return 0, fmt.Errorf("unknown dependency type %q", s)
}

func (t DepType) valid() bool { return t >= 0 && int(t) < numDepTypes }

// Content is the loaded source of a node.
type Content struct {
	Raw         []byte // Bytes read from disk
	Compiled    []byte // Output of the transform pipeline
	Kind        string // File classification (source, data, native, opaque)
	Extractable bool   // Whether dependencies are extracted from Compiled
}

// Node is one file or foreign package within a single walk.
//
// Nodes are created by a [Store] and never replaced. The zero value is not
// usable.
type Node struct {
	ID      string // Absolute path, or the package specifier for foreign nodes
	Foreign bool   // True for package references that are never read

	mu      sync.RWMutex
	edges   [numDepTypes]edgeSet
	claimed [numDepTypes]bool
	settled [numDepTypes]bool

	loadMu  sync.Mutex
	loaded  bool
	content Content
}

// edgeSet keeps specifier → target id pairs in insertion order.
type edgeSet struct {
	keys    []string
	targets map[string]string
}

func newNode(id string, foreign bool) *Node {
	n := &Node{ID: id, Foreign: foreign}
	if foreign {
		for i := range numDepTypes {
			n.claimed[i] = true
			n.settled[i] = true
		}
	}
	return n
}

// Edges returns a copy of the specifier → target id map for t.
func (n *Node) Edges(t DepType) map[string]string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make(map[string]string, len(n.edges[t].keys))
	for k, v := range n.edges[t].targets {
		out[k] = v
	}
	return out
}

// Specifiers returns the specifiers recorded for t, in insertion order.
func (n *Node) Specifiers(t DepType) []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return append([]string(nil), n.edges[t].keys...)
}

// Target returns the node id a specifier of type t resolved to.
func (n *Node) Target(t DepType, specifier string) (string, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	id, ok := n.edges[t].targets[specifier]
	return id, ok
}

// Settled reports whether the node's own dependencies of type t are fully recorded.
func (n *Node) Settled(t DepType) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.settled[t]
}

// ProcessedTypes returns the dependency types the node is settled for.
func (n *Node) ProcessedTypes() []DepType {
	n.mu.RLock()
	defer n.mu.RUnlock()
	var out []DepType
	for _, t := range DepTypes {
		if n.settled[t] {
			out = append(out, t)
		}
	}
	return out
}

// Load returns the node's content, calling load on first use.
//
// Concurrent callers are serialized: load runs at most once per successful
// result. A failed load is returned to its caller and not memoized.
func (n *Node) Load(load func() (Content, error)) (Content, error) {
	n.loadMu.Lock()
	defer n.loadMu.Unlock()
	if n.loaded {
		return n.content, nil
	}
	c, err := load()
	if err != nil {
		return Content{}, err
	}
	n.content = c
	n.loaded = true
	return c, nil
}

// Content returns the memoized content and whether it has been loaded.
func (n *Node) Content() (Content, bool) {
	n.loadMu.Lock()
	defer n.loadMu.Unlock()
	return n.content, n.loaded
}

// Digest returns a hex xxh3 hash of the raw content, or "" if it was never loaded.
func (n *Node) Digest() string {
	c, ok := n.Content()
	if !ok {
		return ""
	}
	return fmt.Sprintf("%016x", xxh3.Hash(c.Raw))
}
