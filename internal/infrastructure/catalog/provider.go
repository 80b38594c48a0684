package catalog

import (
	"context"
	"sync"

	"github.com/mealmatch/planner/internal/domain/recipe"
	"github.com/mealmatch/planner/internal/ports/outbound"
	"go.uber.org/zap"
)

// Provider holds the current catalog snapshot. Readers always get a
// complete catalog; a reload swaps the pointer atomically.
type Provider struct {
	source outbound.CatalogSource
	logger *zap.Logger

	mu      sync.RWMutex
	current *recipe.Catalog
}

// NewProvider creates a provider that starts with an empty catalog
func NewProvider(source outbound.CatalogSource, logger *zap.Logger) *Provider {
	return &Provider{
		source:  source,
		logger:  logger.Named("catalog-provider"),
		current: recipe.EmptyCatalog(),
	}
}

var _ outbound.CatalogProvider = (*Provider)(nil)

// Current returns the active catalog
func (p *Provider) Current() *recipe.Catalog {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Reload loads the catalog again. On failure the previous snapshot is
// kept and the error returned.
func (p *Provider) Reload(ctx context.Context) error {
	next, err := p.source.Load(ctx)
	if err != nil {
		p.logger.Error("Catalog reload failed, keeping previous catalog", zap.Error(err))
		return err
	}

	p.mu.Lock()
	p.current = next
	p.mu.Unlock()

	p.logger.Info("Catalog active",
		zap.Int("ingredients", next.IngredientCount()),
		zap.Int("recipes", next.RecipeCount()),
	)
	return nil
}
