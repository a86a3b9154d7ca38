package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "docmark"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	renderDuration *prom.HistogramVec
	renderOutcome  *prom.CounterVec
	inputBytes     prom.Histogram
}

// NewPrometheusRecorder constructs the render metrics and registers them with reg.
// A nil registry gets a private one.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		renderDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Duration of document renders",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"format"}),
		renderOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "render_outcomes_total",
			Help:      "Render outcomes by output format",
		}, []string{"format", "outcome"}),
		inputBytes: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "render_input_bytes",
			Help:      "Size of rendered markdown sources",
			Buckets:   prom.ExponentialBuckets(256, 4, 8),
		}),
	}
	reg.MustRegister(pr.renderDuration, pr.renderOutcome, pr.inputBytes)
	return pr
}

func (p *PrometheusRecorder) ObserveRenderDuration(format string, d time.Duration) {
	if p == nil {
		return
	}
	p.renderDuration.WithLabelValues(format).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRenderOutcome(format string, outcome OutcomeLabel) {
	if p == nil {
		return
	}
	p.renderOutcome.WithLabelValues(format, string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveInputBytes(n int) {
	if p == nil {
		return
	}
	p.inputBytes.Observe(float64(n))
}
