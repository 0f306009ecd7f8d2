// Package metrics exposes ingestion and fetch diagnostics as Prometheus
// collectors on an explicit registry with an explicit lifecycle.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds every collector for the process. Construct once, pass by
// handle, and expose through the read API's /metrics endpoint.
type Metrics struct {
	registry *prometheus.Registry

	fetchAttempts      *prometheus.CounterVec
	transportFallbacks *prometheus.CounterVec
	retriesExhausted   prometheus.Counter
	articlesIngested   *prometheus.CounterVec
	duplicatesSkipped  *prometheus.CounterVec
	snapshotsWritten   prometheus.Counter
}

// New creates and registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		fetchAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "newsbrief",
			Name:      "fetch_attempts_total",
			Help:      "Transport calls issued, by transport family.",
		}, []string{"transport"}),
		transportFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "newsbrief",
			Name:      "transport_fallbacks_total",
			Help:      "Per-attempt fallbacks taken, by kind.",
		}, []string{"kind"}),
		retriesExhausted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "newsbrief",
			Name:      "fetch_retries_exhausted_total",
			Help:      "Fetches that failed after exhausting every attempt.",
		}),
		articlesIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "newsbrief",
			Name:      "articles_ingested_total",
			Help:      "Articles accepted into a run, by source.",
		}, []string{"source"}),
		duplicatesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "newsbrief",
			Name:      "duplicates_skipped_total",
			Help:      "Articles skipped as near-duplicate titles, by source.",
		}, []string{"source"}),
		snapshotsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "newsbrief",
			Name:      "snapshots_written_total",
			Help:      "Per-date snapshots written.",
		}),
	}

	m.registry.MustRegister(
		m.fetchAttempts,
		m.transportFallbacks,
		m.retriesExhausted,
		m.articlesIngested,
		m.duplicatesSkipped,
		m.snapshotsWritten,
	)

	return m
}

// Registry returns the registry backing the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordAttempt implements fetch.Recorder.
func (m *Metrics) RecordAttempt(transport string) {
	m.fetchAttempts.WithLabelValues(transport).Inc()
}

// RecordFallback implements fetch.Recorder.
func (m *Metrics) RecordFallback(kind string) {
	m.transportFallbacks.WithLabelValues(kind).Inc()
}

// RecordRetryExhausted implements fetch.Recorder.
func (m *Metrics) RecordRetryExhausted() {
	m.retriesExhausted.Inc()
}

// RecordIngested counts an accepted article.
func (m *Metrics) RecordIngested(source string) {
	m.articlesIngested.WithLabelValues(source).Inc()
}

// RecordDuplicate counts a skipped near-duplicate.
func (m *Metrics) RecordDuplicate(source string) {
	m.duplicatesSkipped.WithLabelValues(source).Inc()
}

// RecordSnapshotWritten counts one written per-date snapshot.
func (m *Metrics) RecordSnapshotWritten() {
	m.snapshotsWritten.Inc()
}
