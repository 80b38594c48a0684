package recipe

import "math"

const (
	defaultDensityGPerML = 1.0
	defaultGramsPerPiece = 50.0

	millilitersPerTeaspoon   = 5.0
	millilitersPerTablespoon = 10.0
)

// ToGrams converts a quantity expressed in unit into grams of the ingredient.
// Unknown type/unit combinations fall through to the identity; the caller is
// expected to have offered only the units valid for the ingredient.
func ToGrams(info IngredientInfo, unit Unit, quantity float64) float64 {
	switch info.EffectiveType() {
	case IngredientTypeLiquid:
		density := positiveOr(info.DensityGPerML, defaultDensityGPerML)
		switch unit {
		case UnitMilliliter:
			return quantity * density
		case UnitTeaspoon:
			return quantity * millilitersPerTeaspoon * density
		case UnitTablespoon:
			return quantity * millilitersPerTablespoon * density
		}
	case IngredientTypePiece:
		return quantity * positiveOr(info.GramsPerPiece, defaultGramsPerPiece)
	}
	return quantity
}

// positiveOr returns *v, or def when v is missing, zero, negative or NaN
func positiveOr(v *float64, def float64) float64 {
	if v == nil || math.IsNaN(*v) || *v <= 0 {
		return def
	}
	return *v
}

// DefaultUnits lists the units offered for an ingredient type
func DefaultUnits(t IngredientType) []Unit {
	switch t {
	case IngredientTypeLiquid:
		return []Unit{UnitMilliliter, UnitTeaspoon, UnitTablespoon}
	case IngredientTypePiece:
		return []Unit{UnitPiece}
	default:
		return []Unit{UnitGram}
	}
}

// AvailableUnits returns the declared units, or the type defaults when none are declared
func AvailableUnits(info IngredientInfo) []Unit {
	if len(info.Units) > 0 {
		out := make([]Unit, len(info.Units))
		copy(out, info.Units)
		return out
	}
	return DefaultUnits(info.EffectiveType())
}

// AcceptsUnit reports whether unit is one of the ingredient's available units
func AcceptsUnit(info IngredientInfo, unit Unit) bool {
	for _, u := range AvailableUnits(info) {
		if u == unit {
			return true
		}
	}
	return false
}

// QuantityHint is a short explanation of how to enter a quantity for the ingredient
func QuantityHint(info IngredientInfo) string {
	switch info.EffectiveType() {
	case IngredientTypeLiquid:
		return "Liquid: choose ml or spoons. It is converted to grams automatically."
	case IngredientTypePiece:
		return "Count ingredient: enter the number of pieces. It is converted to grams automatically."
	default:
		return "Solid ingredient: quantity in grams."
	}
}
