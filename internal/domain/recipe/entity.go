// Package recipe contains the core domain logic for meal planning.
// Every function here is pure: catalogs and selections are passed in
// explicitly and values are never mutated in place.
package recipe

// Recipe is a meal suggestion, either loaded from the recipe catalog or
// synthesized from the current ingredient selection.
type Recipe struct {
	Provenance  Provenance           `json:"provenance"`
	Title       string               `json:"title"`
	Ingredients []SelectedIngredient `json:"ingredients"`
	Totals      NutritionTotals      `json:"totals"`
	Difficulty  DifficultyLevel      `json:"difficulty"`
	TimeMinutes int                  `json:"time_minutes"`
	Tags        []DietLabel          `json:"tags"`

	// Events is set on catalog recipes, which can suit several occasions.
	Events []Event `json:"events,omitempty"`
	// Event is set on synthesized recipes, which are built for exactly one.
	Event Event `json:"event,omitempty"`

	Steps []string `json:"steps"`
}

// IsSynthesized reports whether the recipe was built from a selection
func (r Recipe) IsSynthesized() bool {
	return r.Provenance == ProvenanceSynthesized
}

// IngredientNames returns the names of the recipe ingredients in order
func (r Recipe) IngredientNames() []string {
	names := make([]string, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		names[i] = ing.Name
	}
	return names
}

// Clone returns a deep copy of the recipe
func (r Recipe) Clone() Recipe {
	out := r
	out.Ingredients = append([]SelectedIngredient(nil), r.Ingredients...)
	out.Tags = append([]DietLabel(nil), r.Tags...)
	out.Events = append([]Event(nil), r.Events...)
	out.Steps = append([]string(nil), r.Steps...)
	return out
}

// SupportsEvent reports whether the recipe suits the occasion. Catalog
// recipes check their event list; synthesized recipes require equality.
func (r Recipe) SupportsEvent(event Event) bool {
	if r.IsSynthesized() {
		return r.Event == event
	}
	for _, e := range r.Events {
		if e == event {
			return true
		}
	}
	return false
}
