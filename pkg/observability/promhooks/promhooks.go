// Package promhooks reports walk events as Prometheus metrics.
package promhooks

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/kaelzhang/module-walker/pkg/errors"
	"github.com/kaelzhang/module-walker/pkg/observability"
)

const namespace = "modwalk"

// Hooks implements observability.WalkHooks with Prometheus collectors.
type Hooks struct {
	walks        *prometheus.CounterVec
	walkDuration prometheus.Histogram
	walkNodes    prometheus.Histogram
	files        *prometheus.CounterVec
	fileDuration *prometheus.HistogramVec
	warnings     *prometheus.CounterVec
	inflight     prometheus.Gauge
}

var _ observability.WalkHooks = (*Hooks)(nil)

// New registers the walk collectors with reg and returns hooks that update them.
func New(reg prometheus.Registerer) *Hooks {
	f := promauto.With(reg)
	return &Hooks{
		walks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "walks_total",
			Help:      "Completed walks by outcome code (ok on success).",
		}, []string{"code"}),
		walkDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "walk_duration_seconds",
			Help:      "Wall time of a walk.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		walkNodes: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "walk_nodes",
			Help:      "Nodes in the graph of a successful walk.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		files: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_processed_total",
			Help:      "Processed (file, dependency type) tasks by outcome code.",
		}, []string{"type", "code"}),
		fileDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "file_duration_seconds",
			Help:      "Time spent loading, transforming and extracting one file.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"type"}),
		warnings: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "warnings_total",
			Help:      "Warnings emitted by walks.",
		}, []string{"code"}),
		inflight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "walks_in_flight",
			Help:      "Walks currently running.",
		}),
	}
}

func (h *Hooks) OnWalkStart(context.Context, string, int) {
	h.inflight.Inc()
}

func (h *Hooks) OnWalkComplete(_ context.Context, _ string, nodes int, d time.Duration, err error) {
	h.inflight.Dec()
	h.walks.WithLabelValues(outcome(err)).Inc()
	h.walkDuration.Observe(d.Seconds())
	if err == nil {
		h.walkNodes.Observe(float64(nodes))
	}
}

func (h *Hooks) OnFileProcessed(_ context.Context, _ string, depType string, d time.Duration, err error) {
	h.files.WithLabelValues(depType, outcome(err)).Inc()
	h.fileDuration.WithLabelValues(depType).Observe(d.Seconds())
}

func (h *Hooks) OnWarning(_ context.Context, code string) {
	h.warnings.WithLabelValues(code).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.GetCode(err) != "":
		return string(errors.GetCode(err))
	case err == context.Canceled, err == context.DeadlineExceeded:
		return "canceled"
	}
	return "error"
}
