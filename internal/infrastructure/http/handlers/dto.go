package handlers

import (
	"github.com/mealmatch/planner/internal/domain/recipe"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// AddIngredientRequest is the body of POST /sessions/{id}/ingredients.
// Quantity and unit are checked by the planner so the caller gets the
// domain error codes.
type AddIngredientRequest struct {
	Name     string  `json:"name" validate:"required,max=100,ingredient_name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit" validate:"max=20"`
}

// UpdateIngredientRequest is the body of PUT /sessions/{id}/ingredients/{index}
type UpdateIngredientRequest struct {
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit" validate:"max=20"`
}

// FiltersRequest carries the recipe filters; zero upper bounds mean unbounded
type FiltersRequest struct {
	KcalMin    float64 `json:"kcal_min" validate:"gte=0"`
	KcalMax    float64 `json:"kcal_max" validate:"gte=0"`
	ProteinMin float64 `json:"protein_min" validate:"gte=0"`
	CarbMax    float64 `json:"carb_max" validate:"gte=0"`
	FatMax     float64 `json:"fat_max" validate:"gte=0"`
	CostMax    float64 `json:"cost_max" validate:"gte=0"`
	TimeMax    float64 `json:"time_max" validate:"gte=0"`
	Difficulty string  `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Diet       string  `json:"diet" validate:"omitempty,oneof=vegan vegetarian omnivore"`
	Event      string  `json:"event" validate:"omitempty,oneof=christmas easter birthday quick_lunch light_dinner"`
}

// ToFilters converts the request into domain filters
func (f FiltersRequest) ToFilters() recipe.Filters {
	return recipe.Filters{
		KcalMin:    f.KcalMin,
		KcalMax:    f.KcalMax,
		ProteinMin: f.ProteinMin,
		CarbMax:    f.CarbMax,
		FatMax:     f.FatMax,
		CostMax:    f.CostMax,
		TimeMax:    f.TimeMax,
		Difficulty: recipe.ParseDifficulty(f.Difficulty),
		Diet:       recipe.ParseDiet(f.Diet),
		Event:      recipe.Event(f.Event),
	}
}

// RecipeIngredientRequest is one ingredient line of a recipe being saved
type RecipeIngredientRequest struct {
	Name            string  `json:"name" validate:"required,max=100"`
	Grams           float64 `json:"grams" validate:"gte=0"`
	DisplayQuantity float64 `json:"display_quantity" validate:"gte=0"`
	DisplayUnit     string  `json:"display_unit" validate:"omitempty,oneof=g ml teaspoon tablespoon piece"`
}

// SaveRecipeRequest is the body of POST /saved: the recipe as it was shown
type SaveRecipeRequest struct {
	Provenance  string                    `json:"provenance" validate:"omitempty,oneof=real synthesized"`
	Title       string                    `json:"title" validate:"required,max=200"`
	Ingredients []RecipeIngredientRequest `json:"ingredients" validate:"dive"`
	Totals      recipe.NutritionTotals    `json:"totals"`
	Difficulty  string                    `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	TimeMinutes int                       `json:"time_minutes" validate:"gte=0"`
	Tags        []recipe.DietLabel        `json:"tags"`
	Events      []recipe.Event            `json:"events"`
	Event       recipe.Event              `json:"event"`
	Steps       []string                  `json:"steps"`
}

// ToRecipe converts the request into a domain recipe with non-nil lists
func (s SaveRecipeRequest) ToRecipe() recipe.Recipe {
	ingredients := make([]recipe.SelectedIngredient, 0, len(s.Ingredients))
	for _, ing := range s.Ingredients {
		ingredients = append(ingredients, recipe.SelectedIngredient{
			Name:            ing.Name,
			Grams:           ing.Grams,
			DisplayQuantity: ing.DisplayQuantity,
			DisplayUnit:     recipe.Unit(ing.DisplayUnit),
		})
	}

	provenance := recipe.Provenance(s.Provenance)
	if provenance == "" {
		provenance = recipe.ProvenanceReal
	}
	difficulty := recipe.ParseDifficulty(s.Difficulty)
	if difficulty == "" {
		difficulty = recipe.DifficultyLevelEasy
	}

	return recipe.Recipe{
		Provenance:  provenance,
		Title:       s.Title,
		Ingredients: ingredients,
		Totals:      s.Totals,
		Difficulty:  difficulty,
		TimeMinutes: s.TimeMinutes,
		Tags:        orEmpty(s.Tags),
		Events:      s.Events,
		Event:       s.Event,
		Steps:       orEmpty(s.Steps),
	}
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
