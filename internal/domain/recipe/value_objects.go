package recipe

import "strings"

// Value Objects - Immutable objects that describe aspects of the domain

// IngredientType describes how quantities of an ingredient are measured
type IngredientType string

const (
	IngredientTypeSolid  IngredientType = "solid"
	IngredientTypeLiquid IngredientType = "liquid"
	IngredientTypePiece  IngredientType = "piece"
)

// Unit represents units of measurement accepted for an ingredient
type Unit string

const (
	UnitGram       Unit = "g"
	UnitMilliliter Unit = "ml"
	UnitTeaspoon   Unit = "teaspoon"
	UnitTablespoon Unit = "tablespoon"
	UnitPiece      Unit = "piece"
)

// DietLabel is a dietary classification
type DietLabel string

const (
	DietVegan      DietLabel = "vegan"
	DietVegetarian DietLabel = "vegetarian"
	DietOmnivore   DietLabel = "omnivore"
)

// dietOrder is the canonical order for derived tag sets
var dietOrder = []DietLabel{DietVegan, DietVegetarian, DietOmnivore}

// DifficultyLevel represents recipe difficulty
type DifficultyLevel string

const (
	DifficultyLevelEasy   DifficultyLevel = "easy"
	DifficultyLevelMedium DifficultyLevel = "medium"
	DifficultyLevelHard   DifficultyLevel = "hard"
)

// Event is an occasion a recipe can be planned for
type Event string

const (
	EventChristmas   Event = "christmas"
	EventEaster      Event = "easter"
	EventBirthday    Event = "birthday"
	EventQuickLunch  Event = "quick_lunch"
	EventLightDinner Event = "light_dinner"
)

// Goal selects a variant transformation of a synthesized recipe
type Goal string

const (
	GoalHighProtein Goal = "high_protein"
	GoalLight       Goal = "light"
)

// Provenance tells catalog recipes apart from synthesized ones
type Provenance string

const (
	ProvenanceReal        Provenance = "real"
	ProvenanceSynthesized Provenance = "synthesized"
)

// IngredientInfo holds the per-100g nutrition facts and measurement hints of one ingredient
type IngredientInfo struct {
	KcalPer100g    float64        `json:"kcal"`
	ProteinPer100g float64        `json:"protein"`
	CarbPer100g    float64        `json:"carb"`
	FatPer100g     float64        `json:"fat"`
	CostPer100g    *float64       `json:"cost_per_100g,omitempty"`
	Type           IngredientType `json:"type,omitempty"`
	DensityGPerML  *float64       `json:"density_g_per_ml,omitempty"`
	GramsPerPiece  *float64       `json:"grams_per_piece,omitempty"`
	Diets          []DietLabel    `json:"diet,omitempty"`
	Units          []Unit         `json:"units,omitempty"`
}

// EffectiveType returns the declared type, solid when absent
func (i IngredientInfo) EffectiveType() IngredientType {
	if i.Type == "" {
		return IngredientTypeSolid
	}
	return i.Type
}

// HasDiet reports whether the ingredient supports the diet.
// Undeclared diets mean omnivore only.
func (i IngredientInfo) HasDiet(label DietLabel) bool {
	if len(i.Diets) == 0 {
		return label == DietOmnivore
	}
	return containsDiet(i.Diets, label)
}

// SelectedIngredient is one entry of the user's current selection.
// Grams is always the converted, canonical quantity.
type SelectedIngredient struct {
	Name            string  `json:"name"`
	Grams           float64 `json:"grams"`
	DisplayQuantity float64 `json:"display_quantity,omitempty"`
	DisplayUnit     Unit    `json:"display_unit,omitempty"`
}

// NutritionTotals is the sum of nutrition facts over a list of ingredients
type NutritionTotals struct {
	Kcal    float64 `json:"kcal"`
	Protein float64 `json:"protein"`
	Carb    float64 `json:"carb"`
	Fat     float64 `json:"fat"`
	Cost    float64 `json:"cost"`
}

// Add returns the element-wise sum of both totals
func (t NutritionTotals) Add(other NutritionTotals) NutritionTotals {
	return NutritionTotals{
		Kcal:    t.Kcal + other.Kcal,
		Protein: t.Protein + other.Protein,
		Carb:    t.Carb + other.Carb,
		Fat:     t.Fat + other.Fat,
		Cost:    t.Cost + other.Cost,
	}
}

// ParseDiet maps free-form input onto a diet label; empty or unknown input means no constraint
func ParseDiet(s string) DietLabel {
	switch DietLabel(strings.ToLower(strings.TrimSpace(s))) {
	case DietVegan:
		return DietVegan
	case DietVegetarian:
		return DietVegetarian
	case DietOmnivore:
		return DietOmnivore
	default:
		return ""
	}
}

// ParseDifficulty maps free-form input onto a difficulty; empty or unknown input means no constraint
func ParseDifficulty(s string) DifficultyLevel {
	switch DifficultyLevel(strings.ToLower(strings.TrimSpace(s))) {
	case DifficultyLevelEasy:
		return DifficultyLevelEasy
	case DifficultyLevelMedium:
		return DifficultyLevelMedium
	case DifficultyLevelHard:
		return DifficultyLevelHard
	default:
		return ""
	}
}
