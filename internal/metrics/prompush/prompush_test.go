package prompush

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"fleximart/internal/metrics"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestNewBackend(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		job     string
		url     string
		wantErr bool
		wantJob string
	}{
		{name: "missing url", job: "x", url: "", wantErr: true},
		{name: "default job", job: "", url: "http://pg:9091", wantJob: "fleximart"},
		{name: "explicit job", job: "nightly", url: "http://pg:9091", wantJob: "nightly"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b, err := NewBackend(tt.job, tt.url)
			if tt.wantErr {
				if err == nil || b != nil {
					t.Fatalf("want error, got b=%v err=%v", b, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewBackend: %v", err)
			}
			if b.jobName != tt.wantJob {
				t.Fatalf("jobName = %q, want %q", b.jobName, tt.wantJob)
			}
		})
	}
}

func TestIncCounterRouting(t *testing.T) {
	t.Parallel()
	b, err := NewBackend("", "http://pg:9091")
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}

	b.IncCounter(metrics.StepTotal, 1, metrics.Labels{"step": "load", "status": "success"})
	b.IncCounter(metrics.RecordsTotal, 3, metrics.Labels{"kind": "read_sales"})
	b.IncCounter(metrics.RecordsTotal, 2, metrics.Labels{"kind": "read_sales"})
	b.IncCounter(metrics.LoadedRowsTotal, 9, metrics.Labels{"table": "orders"})
	b.IncCounter("unknown", 100, nil)
	b.ObserveHistogram(metrics.StepDuration, 0.25, metrics.Labels{"step": "load", "status": "success"})

	if got := counterValue(t, b.steps.WithLabelValues("load", "success")); got != 1 {
		t.Fatalf("steps = %v", got)
	}
	if got := counterValue(t, b.records.WithLabelValues("read_sales")); got != 5 {
		t.Fatalf("records = %v", got)
	}
	if got := counterValue(t, b.loaded.WithLabelValues("orders")); got != 9 {
		t.Fatalf("loaded = %v", got)
	}
}

func TestFlushPushesToGateway(t *testing.T) {
	t.Parallel()
	var hits int32
	var path atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		path.Store(r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	b, err := NewBackend("nightly", srv.URL)
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	b.IncCounter(metrics.RecordsTotal, 1, metrics.Labels{"kind": "read_customers"})
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Fatalf("hits = %d", hits)
	}
	if p, _ := path.Load().(string); !strings.Contains(p, "/job/nightly") {
		t.Fatalf("push path = %q", p)
	}
}

func TestFlushReportsGatewayError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	b, err := NewBackend("", srv.URL)
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	if err := b.Flush(); err == nil {
		t.Fatal("expected push error")
	}
}
