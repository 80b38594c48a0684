// Package catalog loads the ingredient table and recipe list from JSON
// files and keeps the current snapshot available to the application.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mealmatch/planner/internal/domain/recipe"
	"github.com/mealmatch/planner/internal/ports/outbound"
	"go.uber.org/zap"
)

const (
	defaultRecipeTime = 20
)

// recipeRecord is one entry of recipes.json
type recipeRecord struct {
	Title       string                      `json:"title"`
	Ingredients []recipe.SelectedIngredient `json:"ingredients"`
	Kcal        float64                     `json:"kcal"`
	Protein     float64                     `json:"protein"`
	Carb        float64                     `json:"carb"`
	Fat         float64                     `json:"fat"`
	Cost        float64                     `json:"cost"`
	Difficulty  string                      `json:"difficulty"`
	Time        int                         `json:"time"`
	Diets       []recipe.DietLabel          `json:"diets"`
	Events      []recipe.Event              `json:"events"`
	Steps       []string                    `json:"steps"`
}

func (r recipeRecord) toRecipe() recipe.Recipe {
	difficulty := recipe.ParseDifficulty(r.Difficulty)
	if difficulty == "" {
		difficulty = recipe.DifficultyLevelEasy
	}
	minutes := r.Time
	if minutes <= 0 {
		minutes = defaultRecipeTime
	}
	return recipe.Recipe{
		Provenance:  recipe.ProvenanceReal,
		Title:       r.Title,
		Ingredients: nonNil(r.Ingredients),
		Totals: recipe.NutritionTotals{
			Kcal:    r.Kcal,
			Protein: r.Protein,
			Carb:    r.Carb,
			Fat:     r.Fat,
			Cost:    r.Cost,
		},
		Difficulty:  difficulty,
		TimeMinutes: minutes,
		Tags:        nonNil(r.Diets),
		Events:      nonNil(r.Events),
		Steps:       nonNil(r.Steps),
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// FileSource reads the catalog from two JSON files
type FileSource struct {
	ingredientsPath string
	recipesPath     string
	logger          *zap.Logger
}

// NewFileSource creates a source over the given files
func NewFileSource(ingredientsPath, recipesPath string, logger *zap.Logger) *FileSource {
	return &FileSource{
		ingredientsPath: ingredientsPath,
		recipesPath:     recipesPath,
		logger:          logger.Named("catalog-source"),
	}
}

var _ outbound.CatalogSource = (*FileSource)(nil)

// Load reads both files. A missing or unreadable ingredient table is an
// error; a broken recipe list only costs the recipes and is logged.
func (s *FileSource) Load(ctx context.Context) (*recipe.Catalog, error) {
	ingredients, err := readIngredients(s.ingredientsPath)
	if err != nil {
		return nil, err
	}

	recipes, err := readRecipes(s.recipesPath)
	if err != nil {
		s.logger.Error("Failed to load recipes, continuing without catalog recipes",
			zap.String("path", s.recipesPath),
			zap.Error(err),
		)
		recipes = nil
	}

	s.logger.Info("Catalog loaded",
		zap.Int("ingredients", len(ingredients)),
		zap.Int("recipes", len(recipes)),
	)
	return recipe.NewCatalog(ingredients, recipes), nil
}

// Paths returns the files this source reads
func (s *FileSource) Paths() []string {
	return []string{s.ingredientsPath, s.recipesPath}
}

func readIngredients(path string) (map[string]recipe.IngredientInfo, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ingredients %s: %w", path, err)
	}
	var ingredients map[string]recipe.IngredientInfo
	if err := json.Unmarshal(raw, &ingredients); err != nil {
		return nil, fmt.Errorf("decode ingredients %s: %w", path, err)
	}
	return ingredients, nil
}

func readRecipes(path string) ([]recipe.Recipe, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recipes %s: %w", path, err)
	}
	var records []recipeRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode recipes %s: %w", path, err)
	}
	recipes := make([]recipe.Recipe, 0, len(records))
	for _, rec := range records {
		recipes = append(recipes, rec.toRecipe())
	}
	return recipes, nil
}
