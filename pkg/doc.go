// Package pkg provides the libraries behind modwalk, a module dependency
// graph walker for JavaScript projects.
//
// # Overview
//
// Starting from entry files, modwalk finds every require and import, resolves
// each specifier with Node-style resolution and records the result as a
// typed dependency graph. The pkg directory is organized leaf-first:
//
//  1. [errors] - Structured errors with machine-readable codes
//  2. [graph] - Thread-safe node store, cycle tracing and load order
//  3. [resolve] - Specifier classification and file resolution
//  4. [transform] - Ordered content transforms applied before extraction
//  5. [extract] - Specifier extraction from source (tree-sitter)
//  6. [walker] - The concurrent walk tying the above together
//  7. [render], [config], [observability] - Output, config files, metrics
//
// # Architecture
//
//	entry files
//	     ↓
//	[walker] schedules one task per (file, dependency type)
//	     ↓
//	read → [transform] → [extract] → [resolve]
//	     ↓
//	[graph] records edges; cycles are traced as edges are added
//	     ↓
//	[render] JSON / DOT / SVG / text
//
// # Quick Start
//
//	res, err := walker.Walk(ctx, walker.DefaultOptions(), "src/index.js")
//	if err != nil {
//	    return err
//	}
//	for _, id := range graph.Order(res.Graph) {
//	    fmt.Println(id)
//	}
//	for _, w := range res.Warnings {
//	    fmt.Println(w)
//	}
//
// # Concurrency
//
// Files are processed by a bounded worker pool. A node is processed at most
// once per dependency type per walk, and all graph mutation happens on a
// single collector goroutine, so a walk's graph and warnings are the same
// regardless of scheduling.
//
// [errors]: github.com/kaelzhang/module-walker/pkg/errors
// [graph]: github.com/kaelzhang/module-walker/pkg/graph
// [resolve]: github.com/kaelzhang/module-walker/pkg/resolve
// [transform]: github.com/kaelzhang/module-walker/pkg/transform
// [extract]: github.com/kaelzhang/module-walker/pkg/extract
// [walker]: github.com/kaelzhang/module-walker/pkg/walker
// [render]: github.com/kaelzhang/module-walker/pkg/render
// [config]: github.com/kaelzhang/module-walker/pkg/config
// [observability]: github.com/kaelzhang/module-walker/pkg/observability
package pkg
