package walker

import (
	"context"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/kaelzhang/module-walker/pkg/errors"
	"github.com/kaelzhang/module-walker/pkg/graph"
	"github.com/kaelzhang/module-walker/pkg/resolve"
	"github.com/kaelzhang/module-walker/pkg/transform"
)

// Walker builds dependency graphs. A Walker is immutable after New and safe
// for concurrent use; every Walk starts from a fresh graph.
type Walker struct {
	opts     Options
	resolver *resolve.Resolver
	pipeline *transform.Pipeline
}

// Result is the outcome of a successful walk.
type Result struct {
	ID       string       // Unique per walk
	Entries  []string     // Resolved entry paths, deduplicated, in the order given
	Graph    *graph.Store // Every node and edge discovered
	Warnings []Warning    // Warnings in the order they were raised
	Duration time.Duration
}

// New validates opts, fills defaults and creates a Walker.
func New(opts Options) (*Walker, error) {
	if err := errors.ValidateConcurrency(opts.Concurrency); err != nil {
		return nil, err
	}
	opts = opts.WithDefaults()

	r, err := resolve.New(resolve.Options{Extensions: opts.Extensions, Packages: opts.Packages})
	if err != nil {
		return nil, err
	}
	p, err := transform.NewPipeline(opts.Stages...)
	if err != nil {
		return nil, err
	}
	return &Walker{opts: opts, resolver: r, pipeline: p}, nil
}

// Walk walks opts from entries. See [Walker.Walk].
func Walk(ctx context.Context, opts Options, entries ...string) (*Result, error) {
	w, err := New(opts)
	if err != nil {
		return nil, err
	}
	return w.Walk(ctx, entries...)
}

// Options returns the effective options.
func (w *Walker) Options() Options { return w.opts }

// Walk discovers every dependency reachable from entries.
//
// Entries are made absolute, deduplicated and resolved with the configured
// extensions, so "src" may name "src/index.js". Walk returns when every
// reachable node is settled, on the first fatal error, or when ctx is done.
// On failure no graph is returned.
func (w *Walker) Walk(ctx context.Context, entries ...string) (*Result, error) {
	if len(entries) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidOptions, "no entry files given")
	}

	id := uuid.NewString()
	start := time.Now()
	w.opts.Hooks.OnWalkStart(ctx, id, len(entries))

	res, err := w.walk(ctx, id, entries)

	d := time.Since(start)
	nodes := 0
	if err == nil {
		res.Duration = d
		nodes = res.Graph.Len()
	}
	w.opts.Hooks.OnWalkComplete(ctx, id, nodes, d, err)
	if err != nil {
		w.opts.Logger.Debug("walk failed", "walk", id, "error", err)
		return nil, err
	}
	w.opts.Logger.Debug("walk complete", "walk", id, "nodes", nodes, "warnings", len(res.Warnings), "duration", d)
	return res, nil
}

func (w *Walker) walk(ctx context.Context, id string, entries []string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	paths, err := w.entries(entries)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c := newCrawler(ctx, cancel, w, id)
	if err := c.run(paths); err != nil {
		return nil, err
	}
	return &Result{ID: id, Entries: paths, Graph: c.store, Warnings: c.warnings}, nil
}

func (w *Walker) entries(entries []string) ([]string, error) {
	seen := make(map[string]bool, len(entries))
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		abs, err := filepath.Abs(e)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidOptions, err, "invalid entry %q", e)
		}
		r, err := w.resolver.Resolve(abs, abs)
		if err != nil {
			return nil, err
		}
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		out = append(out, r.ID)
	}
	return out, nil
}
