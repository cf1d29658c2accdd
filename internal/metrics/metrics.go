// Package metrics records operational metrics for a reconciliation run.
//
// Callers use the package-level helpers (RecordStep, RecordRow,
// RecordLoaded, Time); a concrete backend is installed once at startup with
// SetBackend. Until then every call goes to a no-op backend, so metrics are
// always safe to record. Backends live in subpackages (prompush, datadog) so
// the pipeline never imports a metrics system directly.
package metrics

import "time"

// Metric names emitted by the helpers.
const (
	StepTotal       = "etl_step_total"
	StepDuration    = "etl_step_duration_seconds"
	RecordsTotal    = "etl_records_total"
	LoadedRowsTotal = "etl_loaded_rows_total"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend receives counters and duration observations.
type Backend interface {
	IncCounter(name string, delta float64, labels Labels)
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush delivers buffered metrics, if the backend buffers.
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

var backend Backend = nopBackend{}

// SetBackend installs b. A nil b leaves the current backend in place.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the installed backend.
func Flush() error { return backend.Flush() }

// RecordStep counts one execution of a pipeline stage and observes its
// duration, labelled with success or failure.
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{"job": job, "step": step, "status": status}
	backend.IncCounter(StepTotal, 1, lbls)
	backend.ObserveHistogram(StepDuration, d.Seconds(), lbls)
}

// RecordRow adds delta to the row counter of kind, e.g. "read_sales" or
// "dropped_missing_ids". Non-positive deltas are ignored.
func RecordRow(job, kind string, delta int) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(RecordsTotal, float64(delta), Labels{"job": job, "kind": kind})
}

// RecordLoaded adds n rows written to table.
func RecordLoaded(job, table string, n int64) {
	if n <= 0 {
		return
	}
	backend.IncCounter(LoadedRowsTotal, float64(n), Labels{"job": job, "table": table})
}

// Time runs fn as stage step and records it with RecordStep. It returns
// fn's error unchanged.
func Time(job, step string, fn func() error) error {
	start := time.Now()
	err := fn()
	RecordStep(job, step, err, time.Since(start))
	return err
}
