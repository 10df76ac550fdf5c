// Package graph holds the module dependency graph built by a walk.
//
// # Overview
//
// A [Store] maps node ids to [Node] values. A node id is either the absolute
// path of a file or, for a foreign dependency, the bare package specifier
// exactly as written by the dependent. Foreign nodes are terminal: they are
// never read and never expanded.
//
// Each node keeps one edge set per [DepType]. An edge maps the literal
// specifier text written in the dependent file to the id of the node it
// resolved to. A specifier is recorded at most once per type.
//
// # Concurrency
//
// [Store.GetOrCreate] is linearizable: when several goroutines race to
// create the same id, exactly one of them observes created == true and all
// of them receive the same *Node. Edge insertion, claims and settlement are
// guarded per node, and node content is loaded at most once through
// [Node.Load].
//
// # Cycles
//
// [Trace] answers whether adding an edge closes a cycle and returns the
// [Trail] of nodes that make it up. [Cycles] and [Order] inspect a finished
// graph: the former lists every back-edge cycle, the latter returns a
// dependencies-first load order.
package graph
