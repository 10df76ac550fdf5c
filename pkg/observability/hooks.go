// Package observability provides hooks for metrics, tracing, and logging of
// walks.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. A [WalkHooks] value is
// passed to each walker through its options; there is no process-wide
// registry, so two walkers in one process can report to different backends.
//
// # Usage
//
//	hooks := promhooks.New(prometheus.NewRegistry())
//	w, _ := walker.New(walker.Options{Hooks: hooks})
//
// The walker calls hooks to emit events:
//
//	hooks.OnWalkStart(ctx, id, len(entries))
//	// ... walk ...
//	hooks.OnWalkComplete(ctx, id, nodes, duration, err)
package observability

import (
	"context"
	"time"
)

// =============================================================================
// Walk Hooks
// =============================================================================

// WalkHooks receives events from a walker. Implementations must be safe for
// concurrent use: file events arrive from worker goroutines.
type WalkHooks interface {
	// Walk events
	OnWalkStart(ctx context.Context, walkID string, entries int)
	OnWalkComplete(ctx context.Context, walkID string, nodes int, duration time.Duration, err error)

	// OnFileProcessed records one task: a file loaded (and, for normal
	// tasks, extracted) for the given dependency type.
	OnFileProcessed(ctx context.Context, path, depType string, duration time.Duration, err error)

	// OnWarning records a tolerated condition reported as a warning.
	OnWarning(ctx context.Context, code string)
}

// =============================================================================
// No-op Implementation
// =============================================================================

// NoopWalkHooks is a no-op implementation of WalkHooks.
type NoopWalkHooks struct{}

func (NoopWalkHooks) OnWalkStart(context.Context, string, int)                              {}
func (NoopWalkHooks) OnWalkComplete(context.Context, string, int, time.Duration, error)     {}
func (NoopWalkHooks) OnFileProcessed(context.Context, string, string, time.Duration, error) {}
func (NoopWalkHooks) OnWarning(context.Context, string)                                     {}

// =============================================================================
// Fan-out
// =============================================================================

// Multi returns hooks that forward every event to each of hooks in order.
// Nil entries are skipped.
func Multi(hooks ...WalkHooks) WalkHooks {
	var m multi
	for _, h := range hooks {
		if h != nil {
			m = append(m, h)
		}
	}
	if len(m) == 0 {
		return NoopWalkHooks{}
	}
	if len(m) == 1 {
		return m[0]
	}
	return m
}

type multi []WalkHooks

func (m multi) OnWalkStart(ctx context.Context, id string, entries int) {
	for _, h := range m {
		h.OnWalkStart(ctx, id, entries)
	}
}

func (m multi) OnWalkComplete(ctx context.Context, id string, nodes int, d time.Duration, err error) {
	for _, h := range m {
		h.OnWalkComplete(ctx, id, nodes, d, err)
	}
}

func (m multi) OnFileProcessed(ctx context.Context, path, depType string, d time.Duration, err error) {
	for _, h := range m {
		h.OnFileProcessed(ctx, path, depType, d, err)
	}
}

func (m multi) OnWarning(ctx context.Context, code string) {
	for _, h := range m {
		h.OnWarning(ctx, code)
	}
}
