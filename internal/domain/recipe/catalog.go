package recipe

import (
	"sort"
	"strings"
)

// MaxSuggestions caps autocomplete results
const MaxSuggestions = 30

// Catalog is the immutable reference data the planner works against: the
// ingredient table and the list of known recipes. A nil or empty Catalog is
// valid and simply misses every lookup.
type Catalog struct {
	ingredients map[string]IngredientInfo
	names       []string
	recipes     []Recipe
}

// NewCatalog builds a catalog from loaded reference data. Inputs are copied.
func NewCatalog(ingredients map[string]IngredientInfo, recipes []Recipe) *Catalog {
	c := &Catalog{
		ingredients: make(map[string]IngredientInfo, len(ingredients)),
		names:       make([]string, 0, len(ingredients)),
		recipes:     make([]Recipe, 0, len(recipes)),
	}
	for name, info := range ingredients {
		c.ingredients[name] = info
		c.names = append(c.names, name)
	}
	sort.Strings(c.names)

	for _, r := range recipes {
		c.recipes = append(c.recipes, r.Clone())
	}
	return c
}

// EmptyCatalog returns a catalog with no ingredients and no recipes
func EmptyCatalog() *Catalog {
	return NewCatalog(nil, nil)
}

// Lookup returns the ingredient facts for an exact name
func (c *Catalog) Lookup(name string) (IngredientInfo, bool) {
	if c == nil {
		return IngredientInfo{}, false
	}
	info, ok := c.ingredients[name]
	return info, ok
}

// Has reports whether name is a known ingredient
func (c *Catalog) Has(name string) bool {
	_, ok := c.Lookup(name)
	return ok
}

// IngredientCount returns the number of known ingredients
func (c *Catalog) IngredientCount() int {
	if c == nil {
		return 0
	}
	return len(c.ingredients)
}

// RecipeCount returns the number of catalog recipes
func (c *Catalog) RecipeCount() int {
	if c == nil {
		return 0
	}
	return len(c.recipes)
}

// Recipes returns copies of the catalog recipes in load order
func (c *Catalog) Recipes() []Recipe {
	if c == nil {
		return nil
	}
	out := make([]Recipe, len(c.recipes))
	for i, r := range c.recipes {
		out[i] = r.Clone()
	}
	return out
}

// Suggest returns ingredient names containing query, case-insensitively,
// in alphabetical order and capped at limit (MaxSuggestions when limit <= 0).
// A blank query yields nothing.
func (c *Catalog) Suggest(query string, limit int) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || c == nil {
		return []string{}
	}
	if limit <= 0 || limit > MaxSuggestions {
		limit = MaxSuggestions
	}

	matches := make([]string, 0, limit)
	for _, name := range c.names {
		if strings.Contains(strings.ToLower(name), q) {
			matches = append(matches, name)
			if len(matches) == limit {
				break
			}
		}
	}
	return matches
}
