package recipe

import "time"

// RecipesGeneratedEvent is raised after candidates were produced and filtered
type RecipesGeneratedEvent struct {
	Provenance  Provenance
	Candidates  int
	Matched     int
	GeneratedAt time.Time
}

func (e RecipesGeneratedEvent) EventName() string {
	return "recipes.generated"
}

func (e RecipesGeneratedEvent) OccurredAt() time.Time {
	return e.GeneratedAt
}
