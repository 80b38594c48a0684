package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mealmatch/planner/internal/application/library"
	"github.com/mealmatch/planner/internal/application/planner"
	"github.com/mealmatch/planner/internal/infrastructure/config"
	"github.com/mealmatch/planner/internal/infrastructure/http/handlers"
	"github.com/mealmatch/planner/internal/infrastructure/http/middleware"
	"github.com/mealmatch/planner/internal/infrastructure/http/server"
	"github.com/mealmatch/planner/internal/infrastructure/monitoring"
	"github.com/mealmatch/planner/internal/infrastructure/recognition"
	"github.com/mealmatch/planner/pkg/errors"
	"github.com/mealmatch/planner/pkg/healthcheck"
	"github.com/mealmatch/planner/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "mealmatch", Version: "test", Environment: "test"},
		Server: config.ServerConfig{
			Host:           "127.0.0.1",
			Port:           0,
			ReadTimeout:    5 * time.Second,
			WriteTimeout:   5 * time.Second,
			IdleTimeout:    30 * time.Second,
			EnableCORS:     true,
			AllowedOrigins: []string{"https://app.example.com"},
		},
		RateLimit: config.RateLimitConfig{Enable: true, RequestsPerMin: 60, BurstSize: 3},
	}
}

func newServer(t *testing.T, cfg *config.Config, healthy bool) (*server.Server, *monitoring.Metrics) {
	t.Helper()

	logger := zap.NewNop()
	validator := handlers.NewValidator()
	plannerService := planner.NewService(
		testutils.StaticCatalogProvider{Catalog: testutils.FixtureCatalog()},
		testutils.NewInMemorySessionRepository(),
		recognition.NewStaticRecognizer(nil, 0, logger),
		nil,
		logger,
	)
	libraryService := library.NewService(testutils.NewInMemoryKeyValueStore(), "", logger)

	metrics := monitoring.NewMetrics(logger)
	health := healthcheck.New(cfg.App.Version, logger)
	health.Register("catalog", healthcheck.NewCustomChecker(func(ctx context.Context) (healthcheck.Status, string, interface{}) {
		if !healthy {
			return healthcheck.StatusUnhealthy, "catalog is empty", nil
		}
		return healthcheck.StatusHealthy, "", nil
	}))

	srv := server.NewServer(
		cfg,
		logger,
		handlers.NewPlannerHandlers(plannerService, validator, 0, logger),
		handlers.NewLibraryHandlers(libraryService, validator, logger),
		metrics,
		health,
		nil,
	)
	return srv, metrics
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServer_APIRoutes(t *testing.T) {
	srv, _ := newServer(t, testConfig(), true)

	rec := serve(srv.Handler(), httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/api/v1/sessions/"))
}

func TestServer_RejectsNonJSONBodies(t *testing.T) {
	srv, _ := newServer(t, testConfig(), true)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/saved", strings.NewReader("title=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := serve(srv.Handler(), req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	var body errors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, errors.CodeUnsupportedMedia, body.Error.Code)
}

func TestServer_RateLimitAppliesToAPIOnly(t *testing.T) {
	srv, _ := newServer(t, testConfig(), true)

	var last *httptest.ResponseRecorder
	for i := 0; i < 4; i++ {
		last = serve(srv.Handler(), httptest.NewRequest(http.MethodGet, "/api/v1/saved", nil))
	}
	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.NotEmpty(t, last.Header().Get("Retry-After"))

	for i := 0; i < 5; i++ {
		rec := serve(srv.Handler(), httptest.NewRequest(http.MethodGet, "/health/live", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestServer_HealthEndpoints(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		srv, _ := newServer(t, testConfig(), true)

		assert.Equal(t, http.StatusOK, serve(srv.Handler(), httptest.NewRequest(http.MethodGet, "/health", nil)).Code)
		assert.Equal(t, http.StatusOK, serve(srv.Handler(), httptest.NewRequest(http.MethodGet, "/health/ready", nil)).Code)
	})

	t.Run("unhealthy", func(t *testing.T) {
		srv, _ := newServer(t, testConfig(), false)

		assert.Equal(t, http.StatusServiceUnavailable, serve(srv.Handler(), httptest.NewRequest(http.MethodGet, "/health", nil)).Code)
		assert.Equal(t, http.StatusServiceUnavailable, serve(srv.Handler(), httptest.NewRequest(http.MethodGet, "/health/ready", nil)).Code)
		assert.Equal(t, http.StatusOK, serve(srv.Handler(), httptest.NewRequest(http.MethodGet, "/health/live", nil)).Code)
	})
}

func TestServer_MetricsEndpoint(t *testing.T) {
	srv, _ := newServer(t, testConfig(), true)

	serve(srv.Handler(), httptest.NewRequest(http.MethodGet, "/api/v1/ingredients?q=tofu", nil))
	rec := serve(srv.Handler(), httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `mealmatch_http_requests_total{method="GET",route="/api/v1/ingredients",status_code="200"} 1`)
}

func TestServer_CORS(t *testing.T) {
	srv, _ := newServer(t, testConfig(), true)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/saved", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := serve(srv.Handler(), req)

	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/saved", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = serve(srv.Handler(), req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_Shutdown(t *testing.T) {
	srv, _ := newServer(t, testConfig(), true)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, srv.Shutdown(ctx))
}
