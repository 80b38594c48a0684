// Package monitoring exposes Prometheus metrics and OpenTelemetry tracing
// for the planner API.
package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const namespace = "mealmatch"

// Metrics owns a private registry so several instances can coexist in tests
type Metrics struct {
	registry *prometheus.Registry
	logger   *zap.Logger

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpActiveRequests  prometheus.Gauge

	// Business metrics
	ingredientsSelected *prometheus.CounterVec
	recipesGenerated    *prometheus.CounterVec
	recipesMatched      *prometheus.HistogramVec
	savedRecipes        *prometheus.CounterVec
	catalogReloads      *prometheus.CounterVec
	catalogSize         *prometheus.GaugeVec
}

// NewMetrics creates and registers all collectors
func NewMetrics(logger *zap.Logger) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		logger:   logger.Named("metrics"),

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status_code"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		httpActiveRequests: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_active_requests",
				Help:      "Number of in-flight HTTP requests",
			},
		),

		ingredientsSelected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "selection_changes_total",
				Help:      "Ingredients added to or removed from selections",
			},
			[]string{"action"},
		),
		recipesGenerated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "recipe_generations_total",
				Help:      "Recipe generation requests by provenance",
			},
			[]string{"provenance"},
		),
		recipesMatched: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "recipes_matched",
				Help:      "Recipes left after filtering, per generation request",
				Buckets:   []float64{0, 1, 2, 3, 5, 10, 25},
			},
			[]string{"provenance"},
		),
		savedRecipes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "saved_recipe_operations_total",
				Help:      "Saved recipe log changes",
			},
			[]string{"operation"},
		),
		catalogReloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "catalog_reloads_total",
				Help:      "Catalog reload attempts by result",
			},
			[]string{"result"},
		),
		catalogSize: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "catalog_entries",
				Help:      "Entries in the catalog currently in effect",
			},
			[]string{"kind"},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.httpActiveRequests,
		m.ingredientsSelected,
		m.recipesGenerated,
		m.recipesMatched,
		m.savedRecipes,
		m.catalogReloads,
		m.catalogSize,
	)

	return m
}

// Registry returns the registry holding every collector
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		Registry:          m.registry,
		EnableOpenMetrics: true,
	})
}

// RequestStarted tracks an in-flight request
func (m *Metrics) RequestStarted() {
	m.httpActiveRequests.Inc()
}

// RecordRequest records a finished request. route is the matched pattern,
// not the raw path, to keep label cardinality bounded.
func (m *Metrics) RecordRequest(method, route string, status int, duration time.Duration) {
	m.httpActiveRequests.Dec()
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordSelectionChange counts an added or removed ingredient
func (m *Metrics) RecordSelectionChange(action string) {
	m.ingredientsSelected.WithLabelValues(action).Inc()
}

// RecordGeneration counts one generation request and how many recipes survived
func (m *Metrics) RecordGeneration(provenance string, matched int) {
	m.recipesGenerated.WithLabelValues(provenance).Inc()
	m.recipesMatched.WithLabelValues(provenance).Observe(float64(matched))
}

// RecordSavedRecipe counts a change to the saved log
func (m *Metrics) RecordSavedRecipe(operation string) {
	m.savedRecipes.WithLabelValues(operation).Inc()
}

// RecordCatalogReload counts a reload attempt and, on success, the new sizes
func (m *Metrics) RecordCatalogReload(err error, ingredients, recipes int) {
	if err != nil {
		m.catalogReloads.WithLabelValues("error").Inc()
		return
	}
	m.catalogReloads.WithLabelValues("success").Inc()
	m.SetCatalogSize(ingredients, recipes)
}

// SetCatalogSize publishes the size of the catalog in effect
func (m *Metrics) SetCatalogSize(ingredients, recipes int) {
	m.catalogSize.WithLabelValues("ingredients").Set(float64(ingredients))
	m.catalogSize.WithLabelValues("recipes").Set(float64(recipes))
}
