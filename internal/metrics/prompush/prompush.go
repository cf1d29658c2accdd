// Package prompush pushes run metrics to a Prometheus Pushgateway.
//
// A reconciliation run is a short-lived batch job, so there is no scrape
// endpoint: collectors accumulate in a private registry and Flush pushes
// them once at the end of the run, grouped under the configured job name.
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"fleximart/internal/metrics"
)

// Backend is a metrics.Backend backed by a Prometheus registry.
type Backend struct {
	gatewayURL string
	jobName    string
	reg        *prometheus.Registry

	steps    *prometheus.CounterVec   // step, status
	duration *prometheus.HistogramVec // step, status
	records  *prometheus.CounterVec   // kind
	loaded   *prometheus.CounterVec   // table
}

// NewBackend registers the collectors. jobName defaults to "fleximart".
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "fleximart"
	}

	b := &Backend{
		gatewayURL: gatewayURL,
		jobName:    jobName,
		reg:        prometheus.NewRegistry(),
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.StepTotal,
			Help: "Pipeline stage executions by step and status.",
		}, []string{"step", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    metrics.StepDuration,
			Help:    "Pipeline stage duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"step", "status"}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.RecordsTotal,
			Help: "Rows read, cleaned, imputed or dropped, by kind.",
		}, []string{"kind"}),
		loaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.LoadedRowsTotal,
			Help: "Rows written to each destination table.",
		}, []string{"table"}),
	}
	for _, c := range []prometheus.Collector{b.steps, b.duration, b.records, b.loaded} {
		if err := b.reg.Register(c); err != nil {
			return nil, fmt.Errorf("prompush: register: %w", err)
		}
	}
	return b, nil
}

// IncCounter routes known counters; unknown names are ignored.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case metrics.StepTotal:
		b.steps.WithLabelValues(labels["step"], labels["status"]).Add(delta)
	case metrics.RecordsTotal:
		b.records.WithLabelValues(labels["kind"]).Add(delta)
	case metrics.LoadedRowsTotal:
		b.loaded.WithLabelValues(labels["table"]).Add(delta)
	}
}

// ObserveHistogram records stage durations; other names are ignored.
func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if name != metrics.StepDuration {
		return
	}
	b.duration.WithLabelValues(labels["step"], labels["status"]).Observe(value)
}

// Flush pushes the registry to the gateway, replacing the job's group.
func (b *Backend) Flush() error {
	if err := push.New(b.gatewayURL, b.jobName).Gatherer(b.reg).Push(); err != nil {
		return fmt.Errorf("prompush: push: %w", err)
	}
	return nil
}
