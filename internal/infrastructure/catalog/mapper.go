package catalog

import (
	"strings"

	"github.com/cartwise/backend/internal/domain"
)

type categoryRow struct {
	ID   string
	Name string
}

func (c categoryRow) toDomain() domain.Category {
	return domain.Category{ID: c.ID, Name: strings.TrimSpace(c.Name)}
}

// productRow mirrors one row of the products query
type productRow struct {
	ID            string
	Name          string
	Images        []string
	MRPPrice      float64
	OfferPrice    float64
	POSPrice      float64
	CategoryID    string
	StockQuantity int
	Available     bool
}

// mapToProduct converts a scanned row to our domain Product
func mapToProduct(row productRow) domain.Product {
	images := make([]string, 0, len(row.Images))
	for _, img := range row.Images {
		if img = strings.TrimSpace(img); img != "" {
			images = append(images, img)
		}
	}

	return domain.Product{
		ID:            row.ID,
		Name:          strings.TrimSpace(row.Name),
		Images:        images,
		MRPPrice:      row.MRPPrice,
		OfferPrice:    row.OfferPrice,
		POSPrice:      row.POSPrice,
		CategoryID:    row.CategoryID,
		StockQuantity: row.StockQuantity,
		Available:     row.Available,
	}
}

// mapProducts converts rows and drops any without a usable name
func mapProducts(rows []productRow) []domain.Product {
	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		p := mapToProduct(row)
		if p.Name == "" {
			continue
		}
		products = append(products, p)
	}
	return products
}
