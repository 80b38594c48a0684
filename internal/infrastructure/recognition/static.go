// Package recognition provides ingredient detection for fridge photos.
// There is no vision model behind it yet: StaticRecognizer reports a fixed
// shortlist of common ingredients, limited to those the catalog knows.
package recognition

import (
	"context"

	"github.com/mealmatch/planner/internal/domain/recipe"
	"github.com/mealmatch/planner/internal/ports/outbound"
	"go.uber.org/zap"
)

// DefaultMaxResults caps how many ingredients one photo yields
const DefaultMaxResults = 4

// DefaultCandidates is the shortlist checked against the catalog, in order
var DefaultCandidates = []string{
	"Apple",
	"Banana",
	"Zucchini",
	"Wholemeal bread",
	"Durum wheat pasta",
	"Chicken breast",
	"Tofu",
}

// StaticRecognizer pretends to detect ingredients in a photo
type StaticRecognizer struct {
	candidates []string
	max        int
	logger     *zap.Logger
}

// NewStaticRecognizer creates a recognizer over candidates. A nil slice
// uses DefaultCandidates.
func NewStaticRecognizer(candidates []string, max int, logger *zap.Logger) *StaticRecognizer {
	if candidates == nil {
		candidates = DefaultCandidates
	}
	if max <= 0 {
		max = DefaultMaxResults
	}
	return &StaticRecognizer{
		candidates: candidates,
		max:        max,
		logger:     logger.Named("recognizer"),
	}
}

var _ outbound.IngredientRecognizer = (*StaticRecognizer)(nil)

// Recognize returns the first candidates present in catalog
func (r *StaticRecognizer) Recognize(ctx context.Context, photo outbound.Photo, catalog *recipe.Catalog) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	found := make([]string, 0, r.max)
	for _, name := range r.candidates {
		if len(found) == r.max {
			break
		}
		if catalog.Has(name) {
			found = append(found, name)
		}
	}

	r.logger.Debug("Photo processed",
		zap.String("filename", photo.Filename),
		zap.String("content_type", photo.ContentType),
		zap.Int("bytes", len(photo.Data)),
		zap.Strings("recognized", found),
	)
	return found, nil
}
