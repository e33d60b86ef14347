package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles Prometheus collectors for the deal pipeline.
// All increment helpers are nil-receiver safe so components can carry an
// optional *Metrics without guarding every call site.
type Metrics struct {
	Registry           *prometheus.Registry
	RunsTotal          *prometheus.CounterVec
	RunDuration        prometheus.Histogram
	DealsScrapedTotal  prometheus.Counter
	DealsNewTotal      prometheus.Counter
	NotificationsTotal *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	runs := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dealworker_runs_total",
			Help: "Total pipeline runs by outcome.",
		},
		[]string{"status"},
	)
	runDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dealworker_run_duration_seconds",
			Help:    "Duration of a full pipeline run.",
			Buckets: prometheus.DefBuckets,
		},
	)
	dealsScraped := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dealworker_deals_scraped_total",
			Help: "Total deal records extracted from the source page.",
		},
	)
	dealsNew := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dealworker_deals_new_total",
			Help: "Total deal records persisted as new.",
		},
	)
	notifications := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dealworker_notifications_total",
			Help: "Total webhook notification attempts by outcome.",
		},
		[]string{"status"},
	)

	registry.MustRegister(runs, runDuration, dealsScraped, dealsNew, notifications)

	return &Metrics{
		Registry:           registry,
		RunsTotal:          runs,
		RunDuration:        runDuration,
		DealsScrapedTotal:  dealsScraped,
		DealsNewTotal:      dealsNew,
		NotificationsTotal: notifications,
	}
}

// IncRun increments the runs counter for an outcome
func (m *Metrics) IncRun(status string) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(status).Inc()
}

// ObserveRunDuration records the duration of a pipeline run
func (m *Metrics) ObserveRunDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.RunDuration.Observe(d.Seconds())
}

// AddDealsScraped adds to the scraped deals counter
func (m *Metrics) AddDealsScraped(n int) {
	if m == nil {
		return
	}
	m.DealsScrapedTotal.Add(float64(n))
}

// IncDealsNew increments the new deals counter
func (m *Metrics) IncDealsNew() {
	if m == nil {
		return
	}
	m.DealsNewTotal.Inc()
}

// IncNotification increments the notifications counter for an outcome
func (m *Metrics) IncNotification(status string) {
	if m == nil {
		return
	}
	m.NotificationsTotal.WithLabelValues(status).Inc()
}

// Handler returns an HTTP handler exposing the registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
