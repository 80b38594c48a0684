// Package testutils provides custom assertions for testing
package testutils

import (
	"testing"

	"github.com/mealmatch/planner/internal/domain/recipe"
	"github.com/stretchr/testify/assert"
)

// NutritionDelta is the tolerance used when comparing float totals
const NutritionDelta = 1e-9

// RecipeAssertions provides domain-specific assertions
type RecipeAssertions struct {
	t *testing.T
}

// NewRecipeAssertions creates a new recipe assertions helper
func NewRecipeAssertions(t *testing.T) *RecipeAssertions {
	return &RecipeAssertions{t: t}
}

// TotalsEqual asserts every field of two totals matches within NutritionDelta
func (ra *RecipeAssertions) TotalsEqual(expected, actual recipe.NutritionTotals) {
	ra.t.Helper()
	assert.InDelta(ra.t, expected.Kcal, actual.Kcal, NutritionDelta, "kcal")
	assert.InDelta(ra.t, expected.Protein, actual.Protein, NutritionDelta, "protein")
	assert.InDelta(ra.t, expected.Carb, actual.Carb, NutritionDelta, "carb")
	assert.InDelta(ra.t, expected.Fat, actual.Fat, NutritionDelta, "fat")
	assert.InDelta(ra.t, expected.Cost, actual.Cost, NutritionDelta, "cost")
}

// SameGrams asserts two ingredient lists carry the same names and grams in order
func (ra *RecipeAssertions) SameGrams(expected, actual []recipe.SelectedIngredient) {
	ra.t.Helper()
	if !assert.Len(ra.t, actual, len(expected)) {
		return
	}
	for i := range expected {
		assert.Equal(ra.t, expected[i].Name, actual[i].Name)
		assert.InDelta(ra.t, expected[i].Grams, actual[i].Grams, NutritionDelta, expected[i].Name)
	}
}
