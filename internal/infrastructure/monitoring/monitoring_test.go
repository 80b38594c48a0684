package monitoring

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mealmatch/planner/internal/domain/recipe"
	"github.com/mealmatch/planner/internal/infrastructure/config"
	"github.com/mealmatch/planner/internal/ports/outbound"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeBus delivers synchronously to subscribers
type fakeBus struct {
	handlers map[string][]outbound.MessageHandler
}

func (b *fakeBus) Publish(ctx context.Context, topic string, msg outbound.Message) error {
	for _, h := range b.handlers[topic] {
		if err := h(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

func (b *fakeBus) Subscribe(topic string, handler outbound.MessageHandler) {
	if b.handlers == nil {
		b.handlers = map[string][]outbound.MessageHandler{}
	}
	b.handlers[topic] = append(b.handlers[topic], handler)
}

func TestMetrics_RecordRequest(t *testing.T) {
	m := NewMetrics(zap.NewNop())

	m.RequestStarted()
	m.RecordRequest(http.MethodGet, "/api/v1/saved", http.StatusOK, 20*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/api/v1/saved", "200")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.httpActiveRequests))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics(zap.NewNop())
	m.SetCatalogSize(12, 3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `mealmatch_catalog_entries{kind="ingredients"} 12`))
}

func TestMetrics_CatalogReload(t *testing.T) {
	m := NewMetrics(zap.NewNop())

	m.RecordCatalogReload(errors.New("bad json"), 0, 0)
	m.RecordCatalogReload(nil, 5, 2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.catalogReloads.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.catalogReloads.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.catalogSize.WithLabelValues("recipes")))
}

func TestSubscribeDomainEvents(t *testing.T) {
	m := NewMetrics(zap.NewNop())
	bus := &fakeBus{}
	SubscribeDomainEvents(bus, m)
	ctx := context.Background()

	payload, err := json.Marshal(recipe.RecipesGeneratedEvent{Provenance: recipe.ProvenanceSynthesized, Candidates: 3, Matched: 2})
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, "recipes.generated", outbound.Message{Payload: payload}))
	require.NoError(t, bus.Publish(ctx, "selection.ingredient.added", outbound.Message{}))
	require.NoError(t, bus.Publish(ctx, "saved_recipe.created", outbound.Message{}))
	require.NoError(t, bus.Publish(ctx, "saved_recipe.removed", outbound.Message{}))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.recipesGenerated.WithLabelValues("synthesized")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ingredientsSelected.WithLabelValues("added")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.savedRecipes.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.savedRecipes.WithLabelValues("removed")))

	assert.Error(t, bus.Publish(ctx, "recipes.generated", outbound.Message{Payload: []byte("{")}))
}

func TestNewTracingProvider_Disabled(t *testing.T) {
	tp, err := NewTracingProvider(config.AppConfig{Name: "mealmatch"}, config.MonitoringConfig{}, zap.NewNop())

	require.NoError(t, err)
	assert.False(t, tp.Enabled())
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestNewTracingProvider_Enabled(t *testing.T) {
	tp, err := NewTracingProvider(
		config.AppConfig{Name: "mealmatch", Version: "test", Environment: "test"},
		config.MonitoringConfig{EnableTracing: true, OTLPTraceEndpoint: "localhost:4318", SamplingRate: 1},
		zap.NewNop(),
	)

	require.NoError(t, err)
	assert.True(t, tp.Enabled())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = tp.Shutdown(ctx)
}
