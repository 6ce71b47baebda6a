package http

import "github.com/cartwise/backend/internal/domain"

type queryRequest struct {
	Query   string `json:"query"`
	StoreID string `json:"store_id"`
	UserID  string `json:"user_id,omitempty"`
}

// publicProduct is a shopping product without its catalog id
type publicProduct struct {
	Name       string   `json:"ProductName"`
	Images     []string `json:"image"`
	MRPPrice   float64  `json:"mrpPrice"`
	OfferPrice float64  `json:"offerPrice"`
	Quantity   int      `json:"quantity"`
}

type publicResult struct {
	Category domain.Category `json:"category"`
	Products []publicProduct `json:"products"`
}

type matchResponse struct {
	QueryID                string                     `json:"query_id,omitempty"`
	AllGeneratedCategories []domain.GeneratedCategory `json:"all_generated_categories"`
	MatchedProducts        []publicResult             `json:"matched_products"`
}

func toMatchResponse(resp *domain.MatchResponse) matchResponse {
	if resp == nil {
		resp = domain.EmptyMatchResponse()
	}

	out := matchResponse{
		AllGeneratedCategories: resp.AllGeneratedCategories,
		MatchedProducts:        make([]publicResult, 0, len(resp.MatchedProducts)),
	}
	if out.AllGeneratedCategories == nil {
		out.AllGeneratedCategories = []domain.GeneratedCategory{}
	}

	for _, result := range resp.MatchedProducts {
		products := make([]publicProduct, 0, len(result.Products))
		for _, p := range result.Products {
			images := p.Images
			if images == nil {
				images = []string{}
			}
			products = append(products, publicProduct{
				Name:       p.Name,
				Images:     images,
				MRPPrice:   p.MRPPrice,
				OfferPrice: p.OfferPrice,
				Quantity:   p.Quantity,
			})
		}
		out.MatchedProducts = append(out.MatchedProducts, publicResult{
			Category: result.Category,
			Products: products,
		})
	}
	return out
}
