package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cartwise/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHistoryService(repo domain.HistoryRepository, oracle domain.Oracle) *HistoryService {
	svc := NewHistoryService(repo, NewMetadataInferer(oracle), NewRequestGuard(false))
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	svc.newID = func() string { return "rec-1" }
	return svc
}

func TestHistoryRecord(t *testing.T) {
	ctx := context.Background()
	oracle := NewMockOracle(func(domain.CompletionRequest) (string, error) {
		return `{"dishbased": ["biryani"], "cuisinebased": ["indian"], "dietarypreferences": ["vegetarian"], "timebased": ["lunch"]}`, nil
	})

	t.Run("stores the response with metadata", func(t *testing.T) {
		repo := NewMockHistoryRepository()
		svc := newTestHistoryService(repo, oracle)
		response := &domain.MatchResponse{
			AllGeneratedCategories: []domain.GeneratedCategory{{Category: domain.Category{ID: "c1", Name: "Rice"}, Items: []string{"rice"}}},
			MatchedProducts: []domain.MatchResult{{
				Category: domain.Category{ID: "c1", Name: "Rice"},
				Products: []domain.ShoppingProduct{{ProductID: "p1", Name: "Basmati Rice 1kg", Quantity: 1}},
			}},
		}

		record, err := svc.Record(ctx, "user_1", "store-1", "veg biryani", response)

		require.NoError(t, err)
		assert.Equal(t, "rec-1", record.ID)
		assert.Equal(t, "store-1", record.StoreID)
		assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), record.Timestamp)
		assert.Equal(t, []string{"biryani"}, record.DishBased)
		assert.Equal(t, "p1", record.ProductMappingResults[0].Products[0].ProductID)
		require.Len(t, repo.records["user_1"], 1)
	})

	t.Run("rejects invalid user ids", func(t *testing.T) {
		svc := newTestHistoryService(NewMockHistoryRepository(), oracle)

		_, err := svc.Record(ctx, "bad id!", "store-1", "biryani", nil)
		assert.True(t, errors.Is(err, domain.ErrInvalidRequest))
	})

	t.Run("nil response is stored as empty", func(t *testing.T) {
		repo := NewMockHistoryRepository()
		svc := newTestHistoryService(repo, oracle)

		record, err := svc.Record(ctx, "user_1", "store-1", "biryani", nil)

		require.NoError(t, err)
		assert.NotNil(t, record.ProductMappingResults)
		assert.Empty(t, record.ProductMappingResults)
	})

	t.Run("repository failure is returned", func(t *testing.T) {
		repo := NewMockHistoryRepository()
		repo.saveError = domain.ErrCacheUnavailable
		svc := newTestHistoryService(repo, oracle)

		_, err := svc.Record(ctx, "user_1", "store-1", "biryani", nil)
		assert.ErrorIs(t, err, domain.ErrCacheUnavailable)
	})
}

func TestHistoryList(t *testing.T) {
	ctx := context.Background()
	oracle := NewMockOracle(func(domain.CompletionRequest) (string, error) { return "{}", nil })

	t.Run("no records is not found", func(t *testing.T) {
		svc := newTestHistoryService(NewMockHistoryRepository(), oracle)

		_, err := svc.List(ctx, "user_1")
		assert.ErrorIs(t, err, domain.ErrHistoryNotFound)
	})

	t.Run("returns stored records", func(t *testing.T) {
		repo := NewMockHistoryRepository()
		svc := newTestHistoryService(repo, oracle)
		_, err := svc.Record(ctx, "user_1", "store-1", "biryani", nil)
		require.NoError(t, err)

		records, err := svc.List(ctx, "user_1")

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "biryani", records[0].Query)
		assert.Equal(t, DefaultShoppingMetadata().DishBased, records[0].DishBased)
	})

	t.Run("invalid user id", func(t *testing.T) {
		svc := newTestHistoryService(NewMockHistoryRepository(), oracle)

		_, err := svc.List(ctx, "")
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})
}
