package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// CatalogRepository reads store-scoped categories and products from the catalog store
type CatalogRepository interface {
	CategoriesForStore(ctx context.Context, storeID string) ([]Category, error)
	// ProductsForCategory returns only approved, active products with a usable name
	ProductsForCategory(ctx context.Context, categoryName, storeID string) ([]Product, error)
}

// Oracle is the language model used for ingredient proposal and relevance validation.
// Implementations return errors wrapping ErrOracleUnavailable or ErrMalformedResponse.
type Oracle interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// HistoryRepository persists user query history
type HistoryRepository interface {
	Save(ctx context.Context, record *HistoryRecord) error
	List(ctx context.Context, userID string) ([]HistoryRecord, error)
}
