// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mealmatch/planner/internal/domain/recipe"
)

// PlannerService covers ingredient lookup, selection editing and recipe generation.
// HTTP handlers and other driving adapters go through this port.
type PlannerService interface {
	// Catalog queries
	SuggestIngredients(ctx context.Context, query string, limit int) ([]IngredientSuggestionDTO, error)
	DescribeIngredient(ctx context.Context, name string) (*IngredientDTO, error)

	// Selection commands
	StartSession(ctx context.Context) (*SelectionDTO, error)
	GetSession(ctx context.Context, sessionID uuid.UUID) (*SelectionDTO, error)
	AddIngredient(ctx context.Context, cmd AddIngredientCommand) (*SelectionDTO, error)
	UpdateIngredient(ctx context.Context, cmd UpdateIngredientCommand) (*SelectionDTO, error)
	RemoveIngredient(ctx context.Context, sessionID uuid.UUID, index int) (*SelectionDTO, error)
	RecognizeFromPhoto(ctx context.Context, cmd RecognizePhotoCommand) (*RecognitionDTO, error)

	// Recipe generation
	FindCatalogRecipes(ctx context.Context, sessionID uuid.UUID, filters recipe.Filters) ([]recipe.Recipe, error)
	SynthesizeRecipes(ctx context.Context, sessionID uuid.UUID, filters recipe.Filters) ([]recipe.Recipe, error)
}

// LibraryService manages the saved recipe log
type LibraryService interface {
	SaveRecipe(ctx context.Context, r recipe.Recipe) (*SavedRecipeDTO, error)
	ListSaved(ctx context.Context) ([]SavedRecipeDTO, error)
	GetSaved(ctx context.Context, id int64) (*SavedRecipeDTO, error)
	RemoveSaved(ctx context.Context, id int64) error
}

// Command objects for operations

// AddIngredientCommand adds one ingredient to a session
type AddIngredientCommand struct {
	SessionID uuid.UUID
	Name      string
	Quantity  float64
	Unit      recipe.Unit
}

// UpdateIngredientCommand replaces the ingredient at Index
type UpdateIngredientCommand struct {
	SessionID uuid.UUID
	Index     int
	Quantity  float64
	Unit      recipe.Unit
}

// RecognizePhotoCommand carries an uploaded fridge photo
type RecognizePhotoCommand struct {
	SessionID   uuid.UUID
	Filename    string
	ContentType string
	Data        []byte
}

// Response DTOs

// IngredientSuggestionDTO is one autocomplete hit
type IngredientSuggestionDTO struct {
	Name    string  `json:"name"`
	Kcal    float64 `json:"kcal"`
	Protein float64 `json:"protein"`
	Carb    float64 `json:"carb"`
	Fat     float64 `json:"fat"`
}

// IngredientDTO describes an ingredient and how to enter its quantity
type IngredientDTO struct {
	Name  string                `json:"name"`
	Info  recipe.IngredientInfo `json:"info"`
	Type  recipe.IngredientType `json:"type"`
	Units []recipe.Unit         `json:"units"`
	Hint  string                `json:"hint"`
}

// SelectionItemDTO is one selection row with its own nutrition
type SelectionItemDTO struct {
	Index           int                    `json:"index"`
	Name            string                 `json:"name"`
	Grams           float64                `json:"grams"`
	DisplayQuantity float64                `json:"display_quantity"`
	DisplayUnit     recipe.Unit            `json:"display_unit"`
	Nutrition       recipe.NutritionTotals `json:"nutrition"`
}

// SelectionDTO is a session with running totals
type SelectionDTO struct {
	ID        uuid.UUID              `json:"id"`
	Items     []SelectionItemDTO     `json:"items"`
	Totals    recipe.NutritionTotals `json:"totals"`
	DietTags  []recipe.DietLabel     `json:"diet_tags"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// RecognitionDTO reports what the photo recognizer added
type RecognitionDTO struct {
	Recognized []string      `json:"recognized"`
	Selection  *SelectionDTO `json:"selection"`
}

// SavedRecipeDTO is a saved log entry
type SavedRecipeDTO struct {
	ID        int64         `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Recipe    recipe.Recipe `json:"recipe"`
}
