// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/mealmatch/planner/internal/domain/recipe"
)

// Float returns a pointer to v, for optional IngredientInfo fields
func Float(v float64) *float64 {
	return &v
}

var allDiets = []recipe.DietLabel{recipe.DietVegan, recipe.DietVegetarian, recipe.DietOmnivore}
var vegetarianDiets = []recipe.DietLabel{recipe.DietVegetarian, recipe.DietOmnivore}
var omnivoreOnly = []recipe.DietLabel{recipe.DietOmnivore}

// FixtureIngredients is a small, hand-checked ingredient table
func FixtureIngredients() map[string]recipe.IngredientInfo {
	return map[string]recipe.IngredientInfo{
		"Chicken breast": {
			KcalPer100g: 165, ProteinPer100g: 31, CarbPer100g: 0, FatPer100g: 3.6,
			CostPer100g: Float(0.9), Diets: omnivoreOnly,
		},
		"Tofu": {
			KcalPer100g: 76, ProteinPer100g: 8, CarbPer100g: 1.9, FatPer100g: 4.8,
			CostPer100g: Float(0.6), Diets: allDiets,
		},
		"Durum wheat pasta": {
			KcalPer100g: 353, ProteinPer100g: 13, CarbPer100g: 70, FatPer100g: 1.5,
			CostPer100g: Float(0.2), Diets: allDiets,
		},
		"Olive oil": {
			KcalPer100g: 884, ProteinPer100g: 0, CarbPer100g: 0, FatPer100g: 100,
			CostPer100g: Float(1.0), Type: recipe.IngredientTypeLiquid, DensityGPerML: Float(0.91),
			Diets: allDiets,
		},
		"Milk": {
			KcalPer100g: 42, ProteinPer100g: 3.4, CarbPer100g: 5, FatPer100g: 1,
			CostPer100g: Float(0.15), Type: recipe.IngredientTypeLiquid, DensityGPerML: Float(1.03),
			Diets: vegetarianDiets,
		},
		"Egg": {
			KcalPer100g: 155, ProteinPer100g: 13, CarbPer100g: 1.1, FatPer100g: 11,
			CostPer100g: Float(0.4), Type: recipe.IngredientTypePiece, GramsPerPiece: Float(60),
			Diets: vegetarianDiets,
		},
		"Zucchini": {
			KcalPer100g: 17, ProteinPer100g: 1.2, CarbPer100g: 3.1, FatPer100g: 0.3,
			Diets: allDiets,
		},
		"Apple": {
			KcalPer100g: 52, ProteinPer100g: 0.3, CarbPer100g: 14, FatPer100g: 0.2,
			CostPer100g: Float(0.3), Diets: allDiets,
		},
		"Parmesan": {
			KcalPer100g: 431, ProteinPer100g: 38, CarbPer100g: 4.1, FatPer100g: 29,
			CostPer100g: Float(2.5), Diets: vegetarianDiets,
		},
		"Bacon": {
			KcalPer100g: 541, ProteinPer100g: 37, CarbPer100g: 1.4, FatPer100g: 42,
		},
	}
}

// FixtureRecipes is a small recipe catalog over FixtureIngredients
func FixtureRecipes() []recipe.Recipe {
	return []recipe.Recipe{
		{
			Provenance: recipe.ProvenanceReal,
			Title:      "Pasta with zucchini",
			Ingredients: []recipe.SelectedIngredient{
				{Name: "Durum wheat pasta", Grams: 100},
				{Name: "Zucchini", Grams: 150},
				{Name: "Olive oil", Grams: 10},
			},
			Totals:      recipe.NutritionTotals{Kcal: 467, Protein: 14.8, Carb: 74.7, Fat: 12, Cost: 1.05},
			Difficulty:  recipe.DifficultyLevelEasy,
			TimeMinutes: 20,
			Tags:        allDiets,
			Events:      []recipe.Event{recipe.EventQuickLunch, recipe.EventLightDinner},
			Steps:       []string{"Boil the pasta.", "Saute the zucchini in oil.", "Toss together."},
		},
		{
			Provenance: recipe.ProvenanceReal,
			Title:      "Grilled chicken with zucchini",
			Ingredients: []recipe.SelectedIngredient{
				{Name: "Chicken breast", Grams: 200},
				{Name: "Zucchini", Grams: 200},
			},
			Totals:      recipe.NutritionTotals{Kcal: 364, Protein: 64.4, Carb: 6.2, Fat: 7.8, Cost: 2.8},
			Difficulty:  recipe.DifficultyLevelMedium,
			TimeMinutes: 30,
			Tags:        omnivoreOnly,
			Events:      []recipe.Event{recipe.EventLightDinner},
			Steps:       []string{"Grill the chicken.", "Grill the zucchini.", "Serve."},
		},
	}
}

// FixtureCatalog builds a catalog from the fixture data
func FixtureCatalog() *recipe.Catalog {
	return recipe.NewCatalog(FixtureIngredients(), FixtureRecipes())
}

// CatalogFactory generates random catalog data
type CatalogFactory struct {
	faker *gofakeit.Faker
}

// NewCatalogFactory creates a new catalog factory with seeded faker
func NewCatalogFactory(seed int64) *CatalogFactory {
	return &CatalogFactory{
		faker: gofakeit.New(seed),
	}
}

// IngredientInfo returns plausible random per-100g facts
func (f *CatalogFactory) IngredientInfo() recipe.IngredientInfo {
	types := []recipe.IngredientType{recipe.IngredientTypeSolid, recipe.IngredientTypeLiquid, recipe.IngredientTypePiece}
	info := recipe.IngredientInfo{
		KcalPer100g:    f.faker.Float64Range(5, 900),
		ProteinPer100g: f.faker.Float64Range(0, 40),
		CarbPer100g:    f.faker.Float64Range(0, 80),
		FatPer100g:     f.faker.Float64Range(0, 100),
		Type:           types[f.faker.Number(0, len(types)-1)],
	}
	if f.faker.Bool() {
		info.CostPer100g = Float(f.faker.Float64Range(0.05, 3))
	}
	switch info.Type {
	case recipe.IngredientTypeLiquid:
		info.DensityGPerML = Float(f.faker.Float64Range(0.8, 1.4))
	case recipe.IngredientTypePiece:
		info.GramsPerPiece = Float(f.faker.Float64Range(5, 250))
	}
	n := f.faker.Number(0, len(allDiets))
	info.Diets = append([]recipe.DietLabel(nil), allDiets[len(allDiets)-n:]...)
	return info
}

// Ingredients returns n uniquely named random ingredients
func (f *CatalogFactory) Ingredients(n int) map[string]recipe.IngredientInfo {
	out := make(map[string]recipe.IngredientInfo, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("%s %d", f.faker.Noun(), i)
		out[name] = f.IngredientInfo()
	}
	return out
}

// Selection picks n entries from names with random gram amounts
func (f *CatalogFactory) Selection(names []string, n int) []recipe.SelectedIngredient {
	items := make([]recipe.SelectedIngredient, 0, n)
	for i := 0; i < n && len(names) > 0; i++ {
		items = append(items, recipe.SelectedIngredient{
			Name:  names[f.faker.Number(0, len(names)-1)],
			Grams: float64(f.faker.Number(1, 500)),
		})
	}
	return items
}

// Title returns a random recipe title
func (f *CatalogFactory) Title() string {
	return f.faker.Sentence(3)
}
