package recipe

// defaultCostPer100g applies to ingredients whose price is unknown
const defaultCostPer100g = 0.5

// ItemNutrition returns the nutrition facts of grams of one ingredient
func ItemNutrition(info IngredientInfo, grams float64) NutritionTotals {
	factor := grams / 100
	cost := defaultCostPer100g
	if info.CostPer100g != nil {
		cost = *info.CostPer100g
	}
	return NutritionTotals{
		Kcal:    info.KcalPer100g * factor,
		Protein: info.ProteinPer100g * factor,
		Carb:    info.CarbPer100g * factor,
		Fat:     info.FatPer100g * factor,
		Cost:    cost * factor,
	}
}

// Aggregate sums the nutrition facts of items. Names missing from the
// catalog contribute nothing.
func Aggregate(catalog *Catalog, items []SelectedIngredient) NutritionTotals {
	var totals NutritionTotals
	for _, item := range items {
		info, ok := catalog.Lookup(item.Name)
		if !ok {
			continue
		}
		totals = totals.Add(ItemNutrition(info, item.Grams))
	}
	return totals
}
