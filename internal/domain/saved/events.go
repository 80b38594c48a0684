package saved

import "time"

// RecipeSavedEvent is raised when a recipe is added to the log
type RecipeSavedEvent struct {
	EntryID int64
	Title   string
	SavedAt time.Time
}

func (e RecipeSavedEvent) EventName() string {
	return "saved_recipe.created"
}

func (e RecipeSavedEvent) OccurredAt() time.Time {
	return e.SavedAt
}

// RecipeRemovedEvent is raised when a recipe leaves the log
type RecipeRemovedEvent struct {
	EntryID   int64
	RemovedAt time.Time
}

func (e RecipeRemovedEvent) EventName() string {
	return "saved_recipe.removed"
}

func (e RecipeRemovedEvent) OccurredAt() time.Time {
	return e.RemovedAt
}
