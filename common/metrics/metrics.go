// Package metrics holds the Prometheus collectors shared by the server and worker.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values.
const (
	OutcomeProcessed = "processed"
	OutcomeDuplicate = "duplicate"
	OutcomeIgnored   = "ignored"
	OutcomeSuccess   = "success"
	OutcomeFailure   = "failure"
	OutcomeSkipped   = "skipped"
)

// Metrics is safe to use as a nil pointer; every recorder becomes a no-op.
type Metrics struct {
	registry *prometheus.Registry

	NotificationsTotal    *prometheus.CounterVec
	EnrichmentRunsTotal   *prometheus.CounterVec
	EnrichmentSeconds     prometheus.Histogram
	LLMTokensTotal        *prometheus.CounterVec
	SyncTotal             *prometheus.CounterVec
	GhostMeetingsTotal    prometheus.Counter
	QueueTasksTotal       *prometheus.CounterVec
	BackstopResyncedTotal prometheus.Counter
}

// New registers the collectors on a fresh registry together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := NewWithRegisterer(reg)
	m.registry = reg
	return m
}

func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		NotificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "callnote_notifications_total",
				Help: "Provider notifications handled by the dispatcher",
			},
			[]string{"kind", "outcome"},
		),
		EnrichmentRunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "callnote_enrichment_runs_total",
				Help: "Enrichment runs by analyzer and outcome",
			},
			[]string{"analyzer", "outcome"},
		),
		EnrichmentSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "callnote_enrichment_duration_seconds",
				Help:    "Analyzer latency per enrichment run",
				Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 20, 30, 60, 90, 120},
			},
		),
		LLMTokensTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "callnote_llm_tokens_total",
				Help: "LLM tokens consumed by direction and model",
			},
			[]string{"direction", "model"},
		),
		SyncTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "callnote_sync_total",
				Help: "Provider sync pulls by outcome",
			},
			[]string{"outcome"},
		),
		GhostMeetingsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "callnote_ghost_meetings_total",
				Help: "Sessions that ended below the ghost duration threshold",
			},
		),
		QueueTasksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "callnote_queue_tasks_total",
				Help: "Worker task executions by type and outcome",
			},
			[]string{"task_type", "outcome"},
		),
		BackstopResyncedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "callnote_backstop_resynced_total",
				Help: "Stale meetings queued for re-sync by the backstop",
			},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) RecordNotification(kind, outcome string) {
	if m == nil {
		return
	}
	m.NotificationsTotal.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) RecordEnrichment(analyzer, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.EnrichmentRunsTotal.WithLabelValues(analyzer, outcome).Inc()
	if seconds > 0 {
		m.EnrichmentSeconds.Observe(seconds)
	}
}

func (m *Metrics) RecordLLMTokens(model string, prompt, completion int) {
	if m == nil {
		return
	}
	m.LLMTokensTotal.WithLabelValues("input", model).Add(float64(prompt))
	m.LLMTokensTotal.WithLabelValues("output", model).Add(float64(completion))
}

func (m *Metrics) RecordSync(outcome string) {
	if m == nil {
		return
	}
	m.SyncTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordGhost() {
	if m == nil {
		return
	}
	m.GhostMeetingsTotal.Inc()
}

func (m *Metrics) RecordTask(taskType, outcome string) {
	if m == nil {
		return
	}
	m.QueueTasksTotal.WithLabelValues(taskType, outcome).Inc()
}

func (m *Metrics) RecordBackstop(count int) {
	if m == nil {
		return
	}
	m.BackstopResyncedTotal.Add(float64(count))
}
