// Package walker builds a module dependency graph from entry files.
//
// A [Walker] discovers every file its entries depend on, resolves each
// reference with Node-style resolution and records the result in a
// [graph.Store]. Files are processed by a bounded pool of workers; a single
// collector goroutine owns graph mutation, cycle detection and scheduling.
//
// # Dependency types
//
// Each reference carries a [graph.DepType]:
//
//   - normal references are loaded, transformed and followed
//   - async references are loaded and transformed but not followed
//   - resolve-only references are resolved and never loaded
//
// A node is processed at most once per type, however many files reach it.
//
// # Failure
//
// The first fatal error stops the walk: no further work is dispatched,
// in-flight results are discarded and Walk returns that error with no graph.
// Tolerated conditions (cycles when AllowCyclic is set, absolute specifiers
// when AllowAbsoluteDependency is set) are reported as [Warning] values
// through Options.OnWarning and in the [Result].
//
// # Usage
//
//	w, err := walker.New(walker.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	res, err := w.Walk(ctx, "src/index.js")
//	if err != nil {
//	    return err
//	}
//	for _, n := range res.Graph.Nodes() {
//	    fmt.Println(n.ID, n.Edges(graph.Normal))
//	}
package walker
