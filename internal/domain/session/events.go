package session

import (
	"time"

	"github.com/google/uuid"
)

// IngredientAddedEvent is raised when an ingredient joins a selection
type IngredientAddedEvent struct {
	SessionID uuid.UUID
	Name      string
	Grams     float64
	AddedAt   time.Time
}

func (e IngredientAddedEvent) EventName() string {
	return "selection.ingredient.added"
}

func (e IngredientAddedEvent) OccurredAt() time.Time {
	return e.AddedAt
}

// IngredientRemovedEvent is raised when an ingredient leaves a selection
type IngredientRemovedEvent struct {
	SessionID uuid.UUID
	Name      string
	RemovedAt time.Time
}

func (e IngredientRemovedEvent) EventName() string {
	return "selection.ingredient.removed"
}

func (e IngredientRemovedEvent) OccurredAt() time.Time {
	return e.RemovedAt
}
