package observability

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	h := NoopWalkHooks{}
	h.OnWalkStart(ctx, "id", 1)
	h.OnFileProcessed(ctx, "/a.js", "normal", time.Millisecond, nil)
	h.OnWarning(ctx, "CYCLIC_DEPENDENCY")
	h.OnWalkComplete(ctx, "id", 2, time.Second, nil)
}

func TestMulti(t *testing.T) {
	ctx := context.Background()
	a, b := &testWalkHooks{}, &testWalkHooks{}

	m := Multi(a, nil, b)
	m.OnWalkStart(ctx, "id", 2)
	m.OnFileProcessed(ctx, "/a.js", "normal", time.Millisecond, nil)
	m.OnWarning(ctx, "CYCLIC_DEPENDENCY")
	m.OnWalkComplete(ctx, "id", 3, time.Second, nil)

	for i, h := range []*testWalkHooks{a, b} {
		if h.starts != 1 || h.files != 1 || h.warnings != 1 || h.completes != 1 {
			t.Errorf("hooks[%d] = %+v, want one of each event", i, h)
		}
	}
}

func TestMultiCollapses(t *testing.T) {
	if _, ok := Multi().(NoopWalkHooks); !ok {
		t.Error("Multi() should return NoopWalkHooks")
	}
	if _, ok := Multi(nil).(NoopWalkHooks); !ok {
		t.Error("Multi(nil) should return NoopWalkHooks")
	}
	one := &testWalkHooks{}
	if Multi(one) != one {
		t.Error("Multi(h) should return h")
	}
}

// testWalkHooks counts events.
type testWalkHooks struct {
	mu                                 sync.Mutex
	starts, files, warnings, completes int
}

func (h *testWalkHooks) OnWalkStart(context.Context, string, int) {
	h.mu.Lock()
	h.starts++
	h.mu.Unlock()
}

func (h *testWalkHooks) OnWalkComplete(context.Context, string, int, time.Duration, error) {
	h.mu.Lock()
	h.completes++
	h.mu.Unlock()
}

func (h *testWalkHooks) OnFileProcessed(context.Context, string, string, time.Duration, error) {
	h.mu.Lock()
	h.files++
	h.mu.Unlock()
}

func (h *testWalkHooks) OnWarning(context.Context, string) {
	h.mu.Lock()
	h.warnings++
	h.mu.Unlock()
}
