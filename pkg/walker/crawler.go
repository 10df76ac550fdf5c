package walker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/kaelzhang/module-walker/pkg/errors"
	"github.com/kaelzhang/module-walker/pkg/graph"
	"github.com/kaelzhang/module-walker/pkg/resolve"
)

// crawler runs one walk.
//
// Workers load, transform and extract files and resolve their specifiers;
// they never touch graph edges. The collector goroutine (the one calling run)
// owns linking, cycle checks, settling, scheduling and warnings, so those
// happen in a single total order.
type crawler struct {
	ctx    context.Context
	cancel context.CancelFunc
	w      *Walker
	id     string
	logger *log.Logger

	store *graph.Store

	jobs    chan job    // Unbuffered; fed by the collector from queue
	results chan result // Worker results
	done    chan struct{}
	wg      sync.WaitGroup

	// Owned by the collector.
	queue    []job
	pending  int // Queued plus in flight
	warnings []Warning
}

// job asks for node to be processed under one dependency type.
type job struct {
	node *graph.Node
	typ  graph.DepType
}

// dep is one resolved specifier of a processed node.
type dep struct {
	typ  graph.DepType
	spec string
	res  resolve.Resolution
}

type result struct {
	job
	deps     []dep
	warnings []Warning
	err      error
}

func newCrawler(ctx context.Context, cancel context.CancelFunc, w *Walker, id string) *crawler {
	return &crawler{
		ctx:     ctx,
		cancel:  cancel,
		w:       w,
		id:      id,
		logger:  w.opts.Logger.With("walk", id),
		store:   graph.NewStore(),
		jobs:    make(chan job),
		results: make(chan result, w.opts.Concurrency),
		done:    make(chan struct{}),
	}
}

// run walks from the given entry paths until every node settles or the
// walk fails.
func (c *crawler) run(entries []string) error {
	for range c.w.opts.Concurrency {
		c.wg.Add(1)
		go c.worker()
	}

	for _, e := range entries {
		n, _ := c.store.GetOrCreate(e, false)
		c.enqueue(job{node: n, typ: graph.Normal})
	}
	err := c.collect()

	// Stop in-flight work and release blocked workers. Nothing sends on
	// jobs once collect has returned.
	c.cancel()
	close(c.done)
	close(c.jobs)
	c.wg.Wait()
	return err
}

func (c *crawler) worker() {
	defer c.wg.Done()
	for j := range c.jobs {
		r := c.process(j)
		select {
		case c.results <- r:
		case <-c.done:
			return
		}
	}
}

// enqueue schedules j unless its node is already claimed for j's type.
// Resolve-only targets need no work and settle immediately.
func (c *crawler) enqueue(j job) {
	if !c.store.Claim(j.node, j.typ) {
		return
	}
	if j.typ == graph.ResolveOnly {
		c.store.Settle(j.node, j.typ)
		return
	}
	c.queue = append(c.queue, j)
	c.pending++
}

// collect feeds queued jobs to workers and handles their results until
// nothing is pending. The first error stops it.
func (c *crawler) collect() error {
	for c.pending > 0 {
		var (
			out  chan<- job
			next job
		)
		if len(c.queue) > 0 {
			out = c.jobs
			next = c.queue[0]
		}
		select {
		case out <- next:
			c.queue[0] = job{}
			c.queue = c.queue[1:]
		case r := <-c.results:
			c.pending--
			if err := c.handle(r); err != nil {
				return err
			}
		case <-c.ctx.Done():
			return c.ctx.Err()
		}
	}
	return nil
}

func (c *crawler) handle(r result) error {
	if r.err != nil {
		return r.err
	}
	for _, w := range r.warnings {
		c.warn(w)
	}
	for _, d := range r.deps {
		if err := c.link(r.node, d); err != nil {
			return err
		}
	}
	c.store.Settle(r.node, r.typ)
	c.logger.Debug("settled", "path", r.node.ID, "type", r.typ, "deps", len(r.deps))
	return nil
}

// link records one edge, checks it for a cycle and schedules its target.
func (c *crawler) link(from *graph.Node, d dep) error {
	to, created := c.store.GetOrCreate(d.res.ID, d.res.Foreign)
	if !c.store.Link(from, d.typ, d.spec, to) {
		return nil
	}

	// Only an edge to an existing node can close a cycle. The edge itself
	// may be of any type; the search back follows normal edges only.
	if !created {
		if trail := c.store.TraceCycle(from, to); trail != nil {
			msg := "cyclic dependency found:\n" + trail.String()
			if !c.w.opts.AllowCyclic {
				e := errors.New(errors.ErrCodeCyclicDependency, "%s", msg).
					WithPath(from.ID).WithSpecifier(d.spec)
				e.Trail = trail.IDs()
				return e
			}
			c.warn(Warning{
				Code:      errors.ErrCodeCyclicDependency,
				Message:   msg,
				Path:      from.ID,
				Specifier: d.spec,
				Trail:     trail.IDs(),
			})
		}
	}

	c.enqueue(job{node: to, typ: d.typ})
	return nil
}

func (c *crawler) warn(w Warning) {
	c.warnings = append(c.warnings, w)
	c.logger.Debug("warning", "code", w.Code, "path", w.Path, "specifier", w.Specifier)
	c.w.opts.Hooks.OnWarning(c.ctx, string(w.Code))
	if c.w.opts.OnWarning != nil {
		c.w.opts.OnWarning(w)
	}
}

// process runs on a worker goroutine.
func (c *crawler) process(j job) result {
	start := time.Now()
	r := result{job: j}
	switch j.typ {
	case graph.Async:
		_, r.err = c.load(j.node)
	default:
		r.deps, r.warnings, r.err = c.expand(j.node)
	}
	c.w.opts.Hooks.OnFileProcessed(c.ctx, j.node.ID, j.typ.String(), time.Since(start), r.err)
	return r
}

// load reads and transforms n once per walk.
func (c *crawler) load(n *graph.Node) (graph.Content, error) {
	return n.Load(func() (graph.Content, error) {
		raw, err := c.w.opts.ReadFile(n.ID)
		if err != nil {
			return graph.Content{}, errors.Wrap(errors.ErrCodeFileRead, err, "cannot read %s", n.ID).WithPath(n.ID)
		}
		src, err := c.w.pipeline.Run(c.ctx, n.ID, raw)
		if err != nil {
			return graph.Content{}, err
		}
		return graph.Content{
			Raw:         raw,
			Compiled:    src.Content,
			Kind:        src.Kind.String(),
			Extractable: src.Kind.Extractable(),
		}, nil
	})
}

// expand loads n, extracts its specifiers and resolves them. The three
// dependency types resolve concurrently; results keep type then source order.
func (c *crawler) expand(n *graph.Node) ([]dep, []Warning, error) {
	content, err := c.load(n)
	if err != nil {
		return nil, nil, err
	}
	if !content.Extractable {
		return nil, nil, nil
	}

	found, err := c.w.opts.Extractor.Extract(c.ctx, content.Compiled, n.ID, c.w.opts.extractOptions())
	if err != nil {
		if _, ok := errors.As(err); !ok && c.ctx.Err() == nil {
			err = errors.Wrap(errors.ErrCodeParse, err, "cannot extract dependencies").WithPath(n.ID)
		}
		return nil, nil, err
	}

	var g errgroup.Group
	deps := make([][]dep, len(graph.DepTypes))
	warns := make([][]Warning, len(graph.DepTypes))
	for i, t := range graph.DepTypes {
		specs := found.Of(t)
		if len(specs) == 0 {
			continue
		}
		g.Go(func() error {
			for _, spec := range specs {
				d, w, err := c.resolve(n, t, spec)
				if err != nil {
					return err
				}
				if w != nil {
					warns[i] = append(warns[i], *w)
				}
				deps[i] = append(deps[i], d)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var (
		allDeps  []dep
		allWarns []Warning
	)
	for i := range graph.DepTypes {
		allDeps = append(allDeps, deps[i]...)
		allWarns = append(allWarns, warns[i]...)
	}
	return allDeps, allWarns, nil
}

// resolve applies the absolute-specifier policy and resolves spec.
func (c *crawler) resolve(n *graph.Node, t graph.DepType, spec string) (dep, *Warning, error) {
	var warn *Warning
	if resolve.Classify(spec) == resolve.Absolute {
		if !c.w.opts.AllowAbsoluteDependency {
			return dep{}, nil, errors.New(errors.ErrCodeDisallowedAbsolute,
				"absolute dependency %q is not allowed", spec).WithPath(n.ID).WithSpecifier(spec)
		}
		warn = &Warning{
			Code:      errors.ErrCodeDisallowedAbsolute,
			Message:   fmt.Sprintf("absolute dependency %q in %s", spec, n.ID),
			Path:      n.ID,
			Specifier: spec,
		}
	}
	res, err := c.w.resolver.Resolve(spec, n.ID)
	if err != nil {
		return dep{}, nil, err
	}
	return dep{typ: t, spec: spec, res: res}, warn, nil
}
