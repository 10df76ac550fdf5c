package extract

import (
	"context"
	"fmt"

	"github.com/kaelzhang/module-walker/pkg/graph"
)

// Extractor finds the dependency specifiers of one file.
//
// Implementations must be safe for concurrent use.
type Extractor interface {
	Extract(ctx context.Context, content []byte, filename string, opts Options) (*Result, error)
}

// Options controls which references are collected and how strictly calls
// are checked.
type Options struct {
	RequireResolve         bool // Collect require.resolve references
	RequireAsync           bool // Collect require.async and import() references
	CheckRequireLength     bool // Fail on require calls with the wrong argument count
	AllowNonLiteralRequire bool // Skip, rather than fail on, non-literal arguments
	CommentRequire         bool // Honour @require annotations in comments
}

// Result holds specifiers in first-seen order without duplicates.
type Result struct {
	Normal      []string
	ResolveOnly []string
	Async       []string
}

// Of returns the specifiers for t.
func (r *Result) Of(t graph.DepType) []string {
	switch t {
	case graph.Normal:
		return r.Normal
	case graph.ResolveOnly:
		return r.ResolveOnly
	case graph.Async:
		return r.Async
	}
	return nil
}

// Len returns the total number of specifiers.
func (r *Result) Len() int {
	return len(r.Normal) + len(r.ResolveOnly) + len(r.Async)
}

// collector accumulates unique specifiers per type.
type collector struct {
	lists [3][]string
	seen  [3]map[string]bool
}

func (c *collector) add(t graph.DepType, spec string) {
	if c.seen[t] == nil {
		c.seen[t] = make(map[string]bool)
	}
	if c.seen[t][spec] {
		return
	}
	c.seen[t][spec] = true
	c.lists[t] = append(c.lists[t], spec)
}

func (c *collector) result() *Result {
	return &Result{
		Normal:      c.lists[graph.Normal],
		ResolveOnly: c.lists[graph.ResolveOnly],
		Async:       c.lists[graph.Async],
	}
}

// Location formats a zero-based row and column the way errors report them.
func Location(row, column int) string {
	return fmt.Sprintf("Line %d: Column %d", row+1, column)
}
