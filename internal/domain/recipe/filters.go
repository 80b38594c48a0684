package recipe

// Filters constrains which recipes are shown. Lower bounds default to 0;
// an upper bound of 0 means unbounded. Empty categorical fields
// do not constrain.
type Filters struct {
	KcalMin    float64         `json:"kcal_min"`
	KcalMax    float64         `json:"kcal_max"`
	ProteinMin float64         `json:"protein_min"`
	CarbMax    float64         `json:"carb_max"`
	FatMax     float64         `json:"fat_max"`
	CostMax    float64         `json:"cost_max"`
	TimeMax    float64         `json:"time_max"`
	Difficulty DifficultyLevel `json:"difficulty,omitempty"`
	Diet       DietLabel       `json:"diet,omitempty"`
	Event      Event           `json:"event,omitempty"`
}

func exceeds(value, upper float64) bool {
	return upper != 0 && value > upper
}

// Matches reports whether r satisfies every filter. Checks run in a fixed
// order and stop at the first failure.
func Matches(r Recipe, f Filters) bool {
	if r.Totals.Kcal < f.KcalMin || exceeds(r.Totals.Kcal, f.KcalMax) {
		return false
	}
	if r.Totals.Protein < f.ProteinMin {
		return false
	}
	if exceeds(r.Totals.Carb, f.CarbMax) {
		return false
	}
	if exceeds(r.Totals.Fat, f.FatMax) {
		return false
	}
	if exceeds(r.Totals.Cost, f.CostMax) {
		return false
	}
	if exceeds(float64(r.TimeMinutes), f.TimeMax) {
		return false
	}
	if f.Difficulty != "" && r.Difficulty != f.Difficulty {
		return false
	}
	if f.Diet != "" && !containsDiet(r.Tags, f.Diet) {
		return false
	}
	if f.Event != "" && !r.SupportsEvent(f.Event) {
		return false
	}
	return true
}

// UsesOnly reports whether every ingredient of r is among the available names
func UsesOnly(r Recipe, available []string) bool {
	set := make(map[string]struct{}, len(available))
	for _, name := range available {
		set[name] = struct{}{}
	}
	for _, ing := range r.Ingredients {
		if _, ok := set[ing.Name]; !ok {
			return false
		}
	}
	return true
}

// Filter keeps the recipes that match f, preserving order
func Filter(recipes []Recipe, f Filters) []Recipe {
	out := make([]Recipe, 0, len(recipes))
	for _, r := range recipes {
		if Matches(r, f) {
			out = append(out, r)
		}
	}
	return out
}

// FindReal returns the catalog recipes cookable from the available
// ingredient names that also satisfy f
func FindReal(catalog *Catalog, available []string, f Filters) []Recipe {
	out := make([]Recipe, 0)
	for _, r := range catalog.Recipes() {
		if UsesOnly(r, available) && Matches(r, f) {
			out = append(out, r)
		}
	}
	return out
}
