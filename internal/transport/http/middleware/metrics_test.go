package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fahim-cse12/AutoDiagon/internal/transport/http/middleware"
)

func TestHTTPMetricsRecordsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()

	m, err := middleware.NewHTTPMetrics(reg)
	if err != nil {
		t.Fatalf("construct metrics: %v", err)
	}

	r := gin.New()
	r.Use(m.Handler())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	found := false
	for _, f := range families {
		if f.GetName() != "auth_http_requests_total" {
			continue
		}
		found = true
		metrics := f.GetMetric()
		if len(metrics) != 1 {
			t.Fatalf("expected one sample, got %d", len(metrics))
		}
		if got := metrics[0].GetCounter().GetValue(); got != 1 {
			t.Fatalf("expected counter value 1, got %v", got)
		}
		labels := map[string]string{}
		for _, l := range metrics[0].GetLabel() {
			labels[l.GetName()] = l.GetValue()
		}
		if labels["route"] != "/ping" || labels["status"] != "200" || labels["method"] != http.MethodGet {
			t.Fatalf("unexpected labels: %v", labels)
		}
	}
	if !found {
		t.Fatalf("requests counter not registered")
	}
}

func TestHTTPMetricsReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()

	if _, err := middleware.NewHTTPMetrics(reg); err != nil {
		t.Fatalf("first construction: %v", err)
	}
	if _, err := middleware.NewHTTPMetrics(reg); err != nil {
		t.Fatalf("second construction: %v", err)
	}
}
