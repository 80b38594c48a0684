package recognition

import (
	"context"
	"testing"

	"github.com/mealmatch/planner/internal/domain/recipe"
	"github.com/mealmatch/planner/internal/ports/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func catalogOf(names ...string) *recipe.Catalog {
	ingredients := make(map[string]recipe.IngredientInfo, len(names))
	for _, n := range names {
		ingredients[n] = recipe.IngredientInfo{KcalPer100g: 100}
	}
	return recipe.NewCatalog(ingredients, nil)
}

func TestStaticRecognizer_Recognize(t *testing.T) {
	photo := outbound.Photo{Filename: "fridge.jpg", Data: []byte{1}}

	t.Run("OnlyKnownCandidates_InShortlistOrder", func(t *testing.T) {
		r := NewStaticRecognizer(nil, 0, zap.NewNop())

		found, err := r.Recognize(context.Background(), photo, catalogOf("Tofu", "Apple", "Zucchini"))

		require.NoError(t, err)
		assert.Equal(t, []string{"Apple", "Zucchini", "Tofu"}, found)
	})

	t.Run("CappedAtMax", func(t *testing.T) {
		r := NewStaticRecognizer(nil, 0, zap.NewNop())

		found, err := r.Recognize(context.Background(), photo, catalogOf(DefaultCandidates...))

		require.NoError(t, err)
		assert.Equal(t, DefaultCandidates[:DefaultMaxResults], found)
	})

	t.Run("NothingKnown_ReturnsEmpty", func(t *testing.T) {
		r := NewStaticRecognizer([]string{"Kiwi"}, 2, zap.NewNop())

		found, err := r.Recognize(context.Background(), photo, catalogOf("Apple"))

		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("CancelledContext_Fails", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewStaticRecognizer(nil, 0, zap.NewNop()).Recognize(ctx, photo, catalogOf("Apple"))

		assert.ErrorIs(t, err, context.Canceled)
	})
}
