package routes_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fahim-cse12/AutoDiagon/internal/infra/config"
	httproutes "github.com/fahim-cse12/AutoDiagon/internal/transport/http/routes"
)

type staticChecker struct {
	err error
}

func (c staticChecker) Ping(context.Context) error        { return c.err }
func (c staticChecker) HealthCheck(context.Context) error { return c.err }

func newTestEngine(t *testing.T, deps httproutes.Dependencies) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	if deps.Config == nil {
		deps.Config = &config.AppConfig{App: config.AppSettings{Env: "test"}}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return httproutes.Register(deps)
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestEngine(t, httproutes.Dependencies{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestReadinessEndpointReportsFailingDependency(t *testing.T) {
	r := newTestEngine(t, httproutes.Dependencies{
		Database: staticChecker{err: errors.New("connection refused")},
		Cache:    staticChecker{},
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/readyz", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", w.Code)
	}
}

func TestReadinessEndpointAllHealthy(t *testing.T) {
	r := newTestEngine(t, httproutes.Dependencies{
		Database: staticChecker{},
		Cache:    staticChecker{},
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/readyz", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestEngine(t, httproutes.Dependencies{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/metrics", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestRequestIDHeaderAssigned(t *testing.T) {
	r := newTestEngine(t, httproutes.Dependencies{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)
	r.ServeHTTP(w, req)

	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected a request id header")
	}
}

func TestCORSPreflight(t *testing.T) {
	r := newTestEngine(t, httproutes.Dependencies{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodOptions, "/api/Auth/login", nil)
	req.Header.Set("Origin", "http://example.com")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Fatalf("expected CORS headers on preflight")
	}
}
