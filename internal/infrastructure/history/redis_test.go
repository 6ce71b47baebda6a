package history

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/cartwise/backend/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) (*RedisRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisRepository(client, 0), mr
}

func sampleRecord(id, query string) *domain.HistoryRecord {
	return &domain.HistoryRecord{
		ID:        id,
		UserID:    "user_1",
		StoreID:   "store-1",
		Query:     query,
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		GeneratedCategories: []domain.GeneratedCategory{
			{Category: domain.Category{ID: "c1", Name: "Rice"}, Items: []string{"basmati rice"}},
		},
		ProductMappingResults: []domain.MatchResult{{
			Category: domain.Category{ID: "c1", Name: "Rice"},
			Products: []domain.ShoppingProduct{{ProductID: "p1", Name: "Basmati Rice 1kg", Images: []string{}, Quantity: 1}},
		}},
		ShoppingMetadata: domain.ShoppingMetadata{
			DishBased:          []string{"biryani"},
			CuisineBased:       []string{"indian"},
			DietaryPreferences: []string{"mixed"},
			TimeBased:          []string{"dinner"},
		},
	}
}

func TestSaveAndList(t *testing.T) {
	repo, mr := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, sampleRecord("r1", "biryani")))
	require.NoError(t, repo.Save(ctx, sampleRecord("r2", "dal tadka")))

	records, err := repo.List(ctx, "user_1")

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "r1", records[0].ID)
	assert.Equal(t, "dal tadka", records[1].Query)
	assert.Equal(t, *sampleRecord("r1", "biryani"), records[0])

	assert.Equal(t, DefaultTTL, mr.TTL("user_id:user_1:queries"))
}

func TestListUnknownUser(t *testing.T) {
	repo, _ := newTestRepository(t)

	records, err := repo.List(context.Background(), "nobody")

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestListSkipsCorruptEntries(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.client.RPush(ctx, "user_id:user_1:queries", "{not json").Err())
	require.NoError(t, repo.Save(ctx, sampleRecord("r1", "biryani")))

	records, err := repo.List(ctx, "user_1")

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "r1", records[0].ID)
}

func TestHistoryExpires(t *testing.T) {
	repo, mr := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, sampleRecord("r1", "biryani")))
	mr.FastForward(DefaultTTL + time.Minute)

	records, err := repo.List(ctx, "user_1")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSaveUnavailable(t *testing.T) {
	repo, mr := newTestRepository(t)
	mr.Close()

	err := repo.Save(context.Background(), sampleRecord("r1", "biryani"))
	assert.ErrorIs(t, err, domain.ErrCacheUnavailable)
}
