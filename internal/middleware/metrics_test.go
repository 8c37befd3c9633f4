package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsCountsRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	if err != nil {
		t.Fatalf("create metrics: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /files/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	handler := metrics.Handler(mux)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/files/abc-123", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	// The counter is labelled with the route pattern, not the raw path.
	count := testutil.ToFloat64(metrics.requestCount.WithLabelValues("GET", "GET /files/{id}", "200"))
	if count != 1 {
		t.Fatalf("expected count 1, got %f", count)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	count = testutil.ToFloat64(metrics.requestCount.WithLabelValues("GET", "GET /missing", "404"))
	if count != 1 {
		t.Fatalf("expected count 1 for 404, got %f", count)
	}

	if got := testutil.CollectAndCount(metrics.requestDuration); got == 0 {
		t.Error("expected duration samples to be collected")
	}
}

func TestMetricsExcludesMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	if err != nil {
		t.Fatalf("create metrics: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /metrics", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := metrics.Handler(mux)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() == "http_requests_total" && len(mf.GetMetric()) > 0 {
			t.Errorf("expected /metrics to be excluded, got %d series", len(mf.GetMetric()))
		}
	}
}
