// Package metrics exposes pipeline counters for Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Stage names used for the failure counter.
const (
	StageFetch   = "fetch"
	StageRead    = "read"
	StageWrite   = "write"
	StagePredict = "predict"
	StageReport  = "report"
)

// Metrics groups the collectors of one process.
type Metrics struct {
	registry *prometheus.Registry

	FetchedRecords   *prometheus.CounterVec
	PersistedRecords *prometheus.GaugeVec
	StageFailures    *prometheus.CounterVec
	Predictions      *prometheus.CounterVec
}

// New creates the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		FetchedRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lottery_fetched_records_total",
			Help: "Draw records extracted from the source site.",
		}, []string{"game"}),
		PersistedRecords: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "lottery_persisted_records",
			Help: "Draw records in the data file after the last merge.",
		}, []string{"game"}),
		StageFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lottery_stage_failures_total",
			Help: "Pipeline failures by stage.",
		}, []string{"game", "stage"}),
		Predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lottery_predictions_total",
			Help: "Prediction runs appended to the report log.",
		}, []string{"game"}),
	}
	m.registry.MustRegister(m.FetchedRecords, m.PersistedRecords, m.StageFailures, m.Predictions)
	return m
}

// Fail counts a failure of stage for game. Safe on a nil receiver.
func (m *Metrics) Fail(game, stage string) {
	if m == nil {
		return
	}
	m.StageFailures.WithLabelValues(game, stage).Inc()
}

// Fetched records a successful fetch. Safe on a nil receiver.
func (m *Metrics) Fetched(game string, n int) {
	if m == nil {
		return
	}
	m.FetchedRecords.WithLabelValues(game).Add(float64(n))
}

// Persisted records the size of the data file. Safe on a nil receiver.
func (m *Metrics) Persisted(game string, n int) {
	if m == nil {
		return
	}
	m.PersistedRecords.WithLabelValues(game).Set(float64(n))
}

// Predicted counts a prediction run. Safe on a nil receiver.
func (m *Metrics) Predicted(game string) {
	if m == nil {
		return
	}
	m.Predictions.WithLabelValues(game).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
