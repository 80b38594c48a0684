package monitoring

import (
	"context"
	"encoding/json"

	"github.com/mealmatch/planner/internal/domain/recipe"
	"github.com/mealmatch/planner/internal/domain/saved"
	"github.com/mealmatch/planner/internal/domain/session"
	"github.com/mealmatch/planner/internal/ports/outbound"
)

// SubscribeDomainEvents turns published domain events into business metrics
func SubscribeDomainEvents(bus outbound.MessageBus, m *Metrics) {
	bus.Subscribe(session.IngredientAddedEvent{}.EventName(), func(ctx context.Context, msg outbound.Message) error {
		m.RecordSelectionChange("added")
		return nil
	})
	bus.Subscribe(session.IngredientRemovedEvent{}.EventName(), func(ctx context.Context, msg outbound.Message) error {
		m.RecordSelectionChange("removed")
		return nil
	})
	bus.Subscribe(recipe.RecipesGeneratedEvent{}.EventName(), func(ctx context.Context, msg outbound.Message) error {
		var event recipe.RecipesGeneratedEvent
		if err := json.Unmarshal(msg.Payload, &event); err != nil {
			return err
		}
		m.RecordGeneration(string(event.Provenance), event.Matched)
		return nil
	})
	bus.Subscribe(saved.RecipeSavedEvent{}.EventName(), func(ctx context.Context, msg outbound.Message) error {
		m.RecordSavedRecipe("created")
		return nil
	})
	bus.Subscribe(saved.RecipeRemovedEvent{}.EventName(), func(ctx context.Context, msg outbound.Message) error {
		m.RecordSavedRecipe("removed")
		return nil
	})
}
