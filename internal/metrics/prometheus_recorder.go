package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "ion"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	dirDuration    prom.Histogram
	dirResults     *prom.CounterVec
	renderDuration prom.Histogram
	renderOutcome  *prom.CounterVec
	pagesRendered  prom.Gauge
	lastRender     prom.Gauge
}

// NewPrometheusRecorder constructs the metrics and registers them with reg.
// A nil reg gets a private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		dirDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "directory_duration_seconds",
			Help:      "Duration of rendering a single directory",
			Buckets:   prom.ExponentialBuckets(0.0005, 4, 8),
		}),
		dirResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "directory_results_total",
			Help:      "Visited directories by result",
		}, []string{"result"}),
		renderDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Total duration of a render pass",
			Buckets:   prom.DefBuckets,
		}),
		renderOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "render_outcomes_total",
			Help:      "Render passes by final status",
		}, []string{"outcome"}),
		pagesRendered: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "pages_rendered",
			Help:      "Pages written by the last render pass",
		}),
		lastRender: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "last_render_timestamp_seconds",
			Help:      "Unix time the last render pass finished",
		}),
	}
	reg.MustRegister(pr.dirDuration, pr.dirResults, pr.renderDuration, pr.renderOutcome, pr.pagesRendered, pr.lastRender)
	return pr
}

func (p *PrometheusRecorder) ObserveDirectoryDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.dirDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncDirectoryResult(result ResultLabel) {
	if p == nil {
		return
	}
	p.dirResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveRenderDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.renderDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRenderOutcome(outcome OutcomeLabel) {
	if p == nil {
		return
	}
	p.renderOutcome.WithLabelValues(string(outcome)).Inc()
	p.lastRender.SetToCurrentTime()
}

func (p *PrometheusRecorder) SetPagesRendered(n int) {
	if p == nil {
		return
	}
	p.pagesRendered.Set(float64(n))
}
