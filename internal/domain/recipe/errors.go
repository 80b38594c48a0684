package recipe

import "errors"

// Domain errors for meal planning

var (
	// Selection input errors
	ErrUnknownIngredient = errors.New("ingredient not found in catalog")
	ErrInvalidQuantity   = errors.New("quantity must be a positive number")
	ErrUnsupportedUnit   = errors.New("unit not available for ingredient")

	// Generation errors
	ErrEmptySelection = errors.New("add at least one ingredient")
)
