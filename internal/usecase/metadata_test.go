package usecase

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/cartwise/backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestMetadataInfer(t *testing.T) {
	ctx := context.Background()

	t.Run("parses and normalizes the oracle answer", func(t *testing.T) {
		oracle := NewMockOracle(func(domain.CompletionRequest) (string, error) {
			return "```json\n" + `{"dishbased": ["Chicken Biryani"], "cuisinebased": ["Indian", "Mughlai"], "dietarypreferences": ["Non-Vegetarian"], "timebased": ["Dinner"]}` + "\n```", nil
		})

		got := NewMetadataInferer(oracle).Infer(ctx, "chicken biryani for dinner")

		assert.Equal(t, []string{"chicken biryani"}, got.DishBased)
		assert.Equal(t, []string{"indian", "mughlai"}, got.CuisineBased)
		assert.Equal(t, []string{"non-vegetarian"}, got.DietaryPreferences)
		assert.Equal(t, []string{"dinner"}, got.TimeBased)
		assert.Equal(t, 1, oracle.calls("metadata"))
	})

	t.Run("oracle failure gives defaults", func(t *testing.T) {
		oracle := NewMockOracle(func(domain.CompletionRequest) (string, error) {
			return "", fmt.Errorf("%w: timeout", domain.ErrOracleUnavailable)
		})

		got := NewMetadataInferer(oracle).Infer(ctx, "biryani")
		assert.Equal(t, DefaultShoppingMetadata(), got)
	})

	t.Run("malformed answer gives defaults", func(t *testing.T) {
		oracle := NewMockOracle(func(domain.CompletionRequest) (string, error) {
			return "I think it is Indian food", nil
		})

		got := NewMetadataInferer(oracle).Infer(ctx, "biryani")
		assert.Equal(t, DefaultShoppingMetadata(), got)
	})

	t.Run("missing fields fall back individually", func(t *testing.T) {
		oracle := NewMockOracle(func(domain.CompletionRequest) (string, error) {
			return `{"dishbased": ["pasta"]}`, nil
		})

		got := NewMetadataInferer(oracle).Infer(ctx, "pasta")
		assert.Equal(t, []string{"pasta"}, got.DishBased)
		assert.Equal(t, []string{"international"}, got.CuisineBased)
		assert.Equal(t, []string{"mixed"}, got.DietaryPreferences)
		assert.Equal(t, []string{"general"}, got.TimeBased)
	})
}

func TestSanitizeMetadata(t *testing.T) {
	got := SanitizeMetadata(domain.ShoppingMetadata{
		DishBased:    []string{"a", "b", "c", "A", "d", "e", "f"},
		CuisineBased: []string{"<script>", strings.Repeat("x", 51), "  Thai  "},
		TimeBased:    []string{"", "   "},
	})

	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, got.DishBased)
	assert.Equal(t, []string{"thai"}, got.CuisineBased)
	assert.Equal(t, []string{"mixed"}, got.DietaryPreferences)
	assert.Equal(t, []string{"general"}, got.TimeBased)
}
