package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsMiddleware_RecordsDurationAndCount(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/api/test", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	req := httptest.NewRequest("GET", "/api/test", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != 200 {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	requestsVal := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/test", "200"))
	if requestsVal < 1 {
		t.Errorf("expected http_requests_total >= 1, got %f", requestsVal)
	}

	durationCount := testutil.CollectAndCount(httpRequestDuration)
	if durationCount == 0 {
		t.Error("expected http_request_duration_seconds to have observations")
	}
}

func TestMetricsMiddleware_DifferentStatusCodes(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())

	r.Get("/ok", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/notfound", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/error", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	tests := []struct {
		path           string
		expectedStatus string
	}{
		{"/ok", "200"},
		{"/notfound", "404"},
		{"/error", "500"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest("GET", tt.path, http.NoBody)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", tt.path, tt.expectedStatus))
		if val < 1 {
			t.Errorf("path %s: expected counter >= 1 for status %s, got %f",
				tt.path, tt.expectedStatus, val)
		}
	}
}

func TestMetricsMiddleware_RoutePatternNormalization(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/v1/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, id := range []string{"mug-1", "tracker-2"} {
		req := httptest.NewRequest("GET", "/v1/items/"+id, http.NoBody)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
	}

	val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/v1/items/{id}", "200"))
	if val < 2 {
		t.Errorf("expected both requests under one route pattern label, got %f", val)
	}
}

func TestNormalizePath_Empty(t *testing.T) {
	if got := normalizePath(""); got != "unknown" {
		t.Errorf("normalizePath(\"\") = %q, want unknown", got)
	}
}
