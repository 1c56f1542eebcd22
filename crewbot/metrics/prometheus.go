package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg                 *prom.Registry
	flushDuration       *prom.HistogramVec
	interactionDuration *prom.HistogramVec
	interactions        *prom.CounterVec
	activeShifts        *prom.GaugeVec
	refreshDuration     prom.Histogram
	refreshFailures     prom.Counter
}

// NewPrometheusRecorder registers the bot metrics on reg, or on a fresh
// registry when reg is nil.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	pr := &PrometheusRecorder{
		reg: reg,
		flushDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "crewbot",
			Name:      "store_flush_duration_seconds",
			Help:      "Duration of state document flushes",
			Buckets:   prom.DefBuckets,
		}, []string{"backend", "result"}),
		interactionDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "crewbot",
			Name:      "interaction_duration_seconds",
			Help:      "Duration of commands, components and modals",
			Buckets:   prom.DefBuckets,
		}, []string{"kind", "name"}),
		interactions: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "crewbot",
			Name:      "interactions_total",
			Help:      "Interactions by outcome",
		}, []string{"kind", "name", "outcome"}),
		activeShifts: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: "crewbot",
			Name:      "active_shifts",
			Help:      "Members currently clocked in, by state",
		}, []string{"state"}),
		refreshDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "crewbot",
			Name:      "status_refresh_duration_seconds",
			Help:      "Duration of a full status board refresh",
			Buckets:   prom.DefBuckets,
		}),
		refreshFailures: prom.NewCounter(prom.CounterOpts{
			Namespace: "crewbot",
			Name:      "status_refresh_failures_total",
			Help:      "Communities whose status board could not be refreshed",
		}),
	}
	reg.MustRegister(pr.flushDuration, pr.interactionDuration, pr.interactions, pr.activeShifts, pr.refreshDuration, pr.refreshFailures)
	return pr
}

func (p *PrometheusRecorder) ObserveFlush(backend string, d time.Duration, success bool) {
	res := "failed"
	if success {
		res = "success"
	}
	p.flushDuration.WithLabelValues(backend, res).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveInteraction(kind, name string, d time.Duration, outcome string) {
	p.interactionDuration.WithLabelValues(kind, name).Observe(d.Seconds())
	p.interactions.WithLabelValues(kind, name, outcome).Inc()
}

func (p *PrometheusRecorder) SetActiveShifts(onDuty, onBreak int) {
	p.activeShifts.WithLabelValues("on_duty").Set(float64(onDuty))
	p.activeShifts.WithLabelValues("on_break").Set(float64(onBreak))
}

func (p *PrometheusRecorder) ObserveRefresh(d time.Duration, _ int, failed int) {
	p.refreshDuration.Observe(d.Seconds())
	p.refreshFailures.Add(float64(failed))
}

// Handler serves the registry in the Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
