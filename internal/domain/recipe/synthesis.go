package recipe

import "math"

const (
	mediumIngredientCount = 5
	hardIngredientCount   = 8
	mediumKcalThreshold   = 800

	baseMinutes           = 10
	minutesPerIngredient  = 5
	quickLunchMaxMinutes  = 20
	lightDinnerMaxMinutes = 25

	highProteinFactor    = 1.3
	highProteinThreshold = 10
	lightFactor          = 0.7
	lightKcalThreshold   = 150
)

var eventTitles = map[Event]string{
	EventChristmas:   "Christmas special dish",
	EventEaster:      "Easter dish",
	EventBirthday:    "Birthday dish",
	EventQuickLunch:  "Quick lunch",
	EventLightDinner: "Light dinner",
}

const defaultTitle = "Mixed dish"

var stepPreamble = []string{
	"1) Prepare all the ingredients: wash and cut where needed.",
	"2) Start cooking the ingredients that take longest (hard vegetables, meat).",
	"3) Add the remaining ingredients, stirring well.",
	"4) Adjust salt, spices and oil to taste.",
}

var closingSteps = map[Event]string{
	EventChristmas: "5) Plate elegantly and add a festive garnish (rosemary, citrus).",
	EventEaster:    "5) Serve with fresh side dishes and spring colours.",
	EventBirthday:  "5) Take care of presentation: a colourful, inviting plate.",
}

const defaultClosingStep = "5) Serve hot with a source of carbohydrates or extra vegetables according to your goals."

var goalSuffixes = map[Goal]string{
	GoalHighProtein: " (high protein)",
	GoalLight:       " (light)",
}

// Difficulty grades a selection by size and energy; later thresholds win.
func Difficulty(ingredientCount int, kcal float64) DifficultyLevel {
	level := DifficultyLevelEasy
	if ingredientCount >= mediumIngredientCount || kcal > mediumKcalThreshold {
		level = DifficultyLevelMedium
	}
	if ingredientCount >= hardIngredientCount {
		level = DifficultyLevelHard
	}
	return level
}

// PreparationMinutes estimates cooking time, clamped for quick occasions
func PreparationMinutes(ingredientCount int, event Event) int {
	minutes := baseMinutes + minutesPerIngredient*ingredientCount
	switch event {
	case EventQuickLunch:
		minutes = min(minutes, quickLunchMaxMinutes)
	case EventLightDinner:
		minutes = min(minutes, lightDinnerMaxMinutes)
	}
	return minutes
}

// Title returns the dish title for an occasion
func Title(event Event) string {
	if title, ok := eventTitles[event]; ok {
		return title
	}
	return defaultTitle
}

// Steps returns the generic preparation steps followed by an occasion-specific closing step
func Steps(event Event) []string {
	steps := make([]string, 0, len(stepPreamble)+1)
	steps = append(steps, stepPreamble...)
	if closing, ok := closingSteps[event]; ok {
		return append(steps, closing)
	}
	return append(steps, defaultClosingStep)
}

// BuildBase synthesizes the base recipe for a selection under the given filters
func BuildBase(catalog *Catalog, items []SelectedIngredient, filters Filters) Recipe {
	ingredients := append([]SelectedIngredient(nil), items...)
	totals := Aggregate(catalog, ingredients)

	return Recipe{
		Provenance:  ProvenanceSynthesized,
		Title:       Title(filters.Event),
		Ingredients: ingredients,
		Totals:      totals,
		Difficulty:  Difficulty(len(ingredients), totals.Kcal),
		TimeMinutes: PreparationMinutes(len(ingredients), filters.Event),
		Tags:        DeriveDietTags(catalog, ingredients),
		Event:       filters.Event,
		Steps:       Steps(filters.Event),
	}
}

// Tweak derives a goal variant from base. The variant gets its own
// ingredient list, qualifying grams are rescaled and rounded, and totals
// are recomputed from scratch. An unknown goal only recomputes totals.
func Tweak(catalog *Catalog, base Recipe, goal Goal) Recipe {
	variant := base.Clone()
	variant.Title = base.Title + goalSuffixes[goal]

	for i, ing := range variant.Ingredients {
		info, ok := catalog.Lookup(ing.Name)
		if !ok {
			continue
		}
		switch goal {
		case GoalHighProtein:
			if info.ProteinPer100g > highProteinThreshold {
				variant.Ingredients[i].Grams = math.Round(ing.Grams * highProteinFactor)
			}
		case GoalLight:
			if info.KcalPer100g > lightKcalThreshold {
				variant.Ingredients[i].Grams = math.Round(ing.Grams * lightFactor)
			}
		}
	}

	variant.Totals = Aggregate(catalog, variant.Ingredients)
	return variant
}

// Synthesize returns exactly three candidates: the base recipe, its high
// protein variant and its light variant, in that order.
func Synthesize(catalog *Catalog, items []SelectedIngredient, filters Filters) []Recipe {
	base := BuildBase(catalog, items, filters)
	return []Recipe{
		base,
		Tweak(catalog, base, GoalHighProtein),
		Tweak(catalog, base, GoalLight),
	}
}
