// Package session models the ingredient selection a user builds up before
// asking for recipes.
package session

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/mealmatch/planner/internal/domain/recipe"
	"github.com/mealmatch/planner/internal/domain/shared"
)

var (
	ErrIndexOutOfRange = errors.New("selection index out of range")
	ErrSessionNotFound = errors.New("session not found")
)

// Selection is the ordered list of ingredients picked in one session
type Selection struct {
	ID        uuid.UUID                   `json:"id"`
	Items     []recipe.SelectedIngredient `json:"items"`
	CreatedAt time.Time                   `json:"created_at"`
	UpdatedAt time.Time                   `json:"updated_at"`

	events shared.EventRecorder
}

// New creates an empty selection
func New() *Selection {
	now := time.Now()
	return &Selection{
		ID:        uuid.New(),
		Items:     []recipe.SelectedIngredient{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewItem validates a user entry and converts it to its canonical gram
// amount. An empty unit picks the first unit offered for the ingredient.
func NewItem(catalog *recipe.Catalog, name string, quantity float64, unit recipe.Unit) (recipe.SelectedIngredient, error) {
	info, ok := catalog.Lookup(name)
	if !ok {
		return recipe.SelectedIngredient{}, recipe.ErrUnknownIngredient
	}
	if math.IsNaN(quantity) || math.IsInf(quantity, 0) || quantity <= 0 {
		return recipe.SelectedIngredient{}, recipe.ErrInvalidQuantity
	}
	if unit == "" {
		unit = recipe.AvailableUnits(info)[0]
	}
	if !recipe.AcceptsUnit(info, unit) {
		return recipe.SelectedIngredient{}, recipe.ErrUnsupportedUnit
	}

	return recipe.SelectedIngredient{
		Name:            name,
		Grams:           recipe.ToGrams(info, unit, quantity),
		DisplayQuantity: quantity,
		DisplayUnit:     unit,
	}, nil
}

// Add appends items in order
func (s *Selection) Add(items ...recipe.SelectedIngredient) {
	if len(items) == 0 {
		return
	}
	s.Items = append(s.Items, items...)
	s.touch()
	for _, item := range items {
		s.events.Record(IngredientAddedEvent{SessionID: s.ID, Name: item.Name, Grams: item.Grams, AddedAt: s.UpdatedAt})
	}
}

// Replace swaps the item at index, keeping its position
func (s *Selection) Replace(index int, item recipe.SelectedIngredient) error {
	if index < 0 || index >= len(s.Items) {
		return ErrIndexOutOfRange
	}
	s.Items[index] = item
	s.touch()
	return nil
}

// Remove deletes the item at index, shifting later items down
func (s *Selection) Remove(index int) error {
	if index < 0 || index >= len(s.Items) {
		return ErrIndexOutOfRange
	}
	removed := s.Items[index]
	s.Items = append(s.Items[:index:index], s.Items[index+1:]...)
	s.touch()
	s.events.Record(IngredientRemovedEvent{SessionID: s.ID, Name: removed.Name, RemovedAt: s.UpdatedAt})
	return nil
}

// At returns the item at index
func (s *Selection) At(index int) (recipe.SelectedIngredient, error) {
	if index < 0 || index >= len(s.Items) {
		return recipe.SelectedIngredient{}, ErrIndexOutOfRange
	}
	return s.Items[index], nil
}

// Names returns the ingredient names in selection order
func (s *Selection) Names() []string {
	names := make([]string, len(s.Items))
	for i, item := range s.Items {
		names[i] = item.Name
	}
	return names
}

// IsEmpty reports whether nothing has been selected
func (s *Selection) IsEmpty() bool {
	return len(s.Items) == 0
}

// Snapshot returns a copy of the items safe to hand to pure functions
func (s *Selection) Snapshot() []recipe.SelectedIngredient {
	return append([]recipe.SelectedIngredient(nil), s.Items...)
}

// Events returns and clears pending domain events
func (s *Selection) Events() []shared.DomainEvent {
	return s.events.Events()
}

func (s *Selection) touch() {
	s.UpdatedAt = time.Now()
}
