package domain

import "time"

// HistoryRecord is one stored user query with its matched products
type HistoryRecord struct {
	ID                    string              `json:"id"`
	UserID                string              `json:"user_id"`
	StoreID               string              `json:"store_id"`
	Query                 string              `json:"query"`
	Timestamp             time.Time           `json:"timestamp"`
	GeneratedCategories   []GeneratedCategory `json:"all_generated_categories"`
	ProductMappingResults []MatchResult       `json:"product_mapping_results"`
	ShoppingMetadata
}
