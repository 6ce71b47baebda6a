// Package catalog reads store categories and products from PostgreSQL.
package catalog

import (
	"context"
	"fmt"

	"github.com/cartwise/backend/internal/domain"
	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

// Product lifecycle values that make a product visible to shoppers
const (
	StatusApproved = "APPROVED"
	StageActivate  = "ACTIVATE"
)

// Querier is the subset of *pgxpool.Pool the repository needs
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const categoriesForStoreSQL = `
	SELECT DISTINCT c.id, c.name
	FROM categories c
	JOIN products p ON p.category_id = c.id
	WHERE p.store_id = $1 AND btrim(c.name) <> ''
	ORDER BY c.name`

const productsForCategorySQL = `
	SELECT p.id,
	       p.product_name,
	       COALESCE(p.images, '{}'::text[]),
	       COALESCE(p.mrp_price, 0)::float8,
	       COALESCE(p.offer_price, 0)::float8,
	       COALESCE(p.pos_price, 0)::float8,
	       p.category_id,
	       COALESCE(p.stock_quantity, 0)::int,
	       COALESCE(p.availability_status, false)
	FROM products p
	JOIN categories c ON c.id = p.category_id
	WHERE c.name = $1
	  AND p.store_id = $2
	  AND p.status = $3
	  AND p.stage = $4
	  AND btrim(COALESCE(p.product_name, '')) <> ''
	ORDER BY p.id`

// PostgresRepository implements domain.CatalogRepository
type PostgresRepository struct {
	db Querier
}

// NewPostgresRepository creates a catalog repository over db
func NewPostgresRepository(db Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CategoriesForStore returns the named categories holding at least one product of the store
func (r *PostgresRepository) CategoriesForStore(ctx context.Context, storeID string) ([]domain.Category, error) {
	rows, err := r.db.Query(ctx, categoriesForStoreSQL, storeID)
	if err != nil {
		return nil, fmt.Errorf("%w: categories for store %s: %v", domain.ErrCatalogUnavailable, storeID, err)
	}

	categories, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Category, error) {
		var c categoryRow
		err := row.Scan(&c.ID, &c.Name)
		return c.toDomain(), err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: reading categories for store %s: %v", domain.ErrCatalogUnavailable, storeID, err)
	}

	log.Debugf("[CATALOG] store %s has %d categories", storeID, len(categories))
	return categories, nil
}

// ProductsForCategory returns approved, active, named products of a category in one store
func (r *PostgresRepository) ProductsForCategory(ctx context.Context, categoryName, storeID string) ([]domain.Product, error) {
	rows, err := r.db.Query(ctx, productsForCategorySQL, categoryName, storeID, StatusApproved, StageActivate)
	if err != nil {
		return nil, fmt.Errorf("%w: products for %q: %v", domain.ErrCatalogUnavailable, categoryName, err)
	}

	scanned, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (productRow, error) {
		var p productRow
		err := row.Scan(
			&p.ID,
			&p.Name,
			&p.Images,
			&p.MRPPrice,
			&p.OfferPrice,
			&p.POSPrice,
			&p.CategoryID,
			&p.StockQuantity,
			&p.Available,
		)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: reading products for %q: %v", domain.ErrCatalogUnavailable, categoryName, err)
	}

	products := mapProducts(scanned)
	log.Debugf("[CATALOG] %q in store %s: %d products", categoryName, storeID, len(products))
	return products, nil
}
