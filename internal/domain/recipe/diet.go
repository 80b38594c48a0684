package recipe

// DeriveDietTags returns the diets every catalog-known item supports.
// An ingredient without declared diets supports omnivore only; names
// missing from the catalog do not constrain the result. The output follows
// the canonical label order so any permutation of items yields the same slice.
func DeriveDietTags(catalog *Catalog, items []SelectedIngredient) []DietLabel {
	supported := make(map[DietLabel]bool, len(dietOrder))
	for _, label := range dietOrder {
		supported[label] = true
	}

	for _, item := range items {
		info, ok := catalog.Lookup(item.Name)
		if !ok {
			continue
		}
		for _, label := range dietOrder {
			if !info.HasDiet(label) {
				supported[label] = false
			}
		}
	}

	tags := make([]DietLabel, 0, len(dietOrder))
	for _, label := range dietOrder {
		if supported[label] {
			tags = append(tags, label)
		}
	}
	return tags
}

func containsDiet(tags []DietLabel, label DietLabel) bool {
	for _, t := range tags {
		if t == label {
			return true
		}
	}
	return false
}
