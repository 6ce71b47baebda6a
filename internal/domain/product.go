package domain

// Category is a store-scoped product grouping from the catalog
type Category struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// UnknownCategoryID marks a proposed category label that did not resolve to a catalog category
const UnknownCategoryID = "UNKNOWN"

// Product is a read-only snapshot of a catalog entry
type Product struct {
	ID            string   `json:"_id"`
	Name          string   `json:"ProductName"`
	Images        []string `json:"image"`
	MRPPrice      float64  `json:"mrpPrice"`
	OfferPrice    float64  `json:"offerPrice"`
	POSPrice      float64  `json:"posPrice,omitempty"`
	CategoryID    string   `json:"category,omitempty"`
	StockQuantity int      `json:"stockQuantity,omitempty"`
	Available     bool     `json:"availabilityStatus,omitempty"`
}

// MatchSource tags which matching tier produced a candidate score
type MatchSource string

const (
	SourceExact     MatchSource = "exact"
	SourceAllWords  MatchSource = "all_words"
	SourceMultiWord MatchSource = "multi_word"
	SourceFuzzy     MatchSource = "fuzzy"
	SourceImage     MatchSource = "image"
)

// Candidate is a scored (item, product) pairing produced by fuzzy matching
type Candidate struct {
	Item    string      `json:"item"`
	Product Product     `json:"product"`
	Score   int         `json:"score"` // 0-100
	Source  MatchSource `json:"source"`
}

// ValidationPair is one (item, candidate name) pair sent to the relevance validator
type ValidationPair struct {
	Item      string
	Candidate string
}

// DefaultShoppingQuantity is the quantity attached to every matched product
const DefaultShoppingQuantity = 1

// ShoppingProduct is a validated product as returned to the shopper
type ShoppingProduct struct {
	ProductID  string   `json:"_id"`
	Name       string   `json:"ProductName"`
	Images     []string `json:"image"`
	MRPPrice   float64  `json:"mrpPrice"`
	OfferPrice float64  `json:"offerPrice"`
	Quantity   int      `json:"quantity"`
}

// MatchResult groups the validated products of one resolved category
type MatchResult struct {
	Category Category          `json:"category"`
	Products []ShoppingProduct `json:"products"`
}

// GeneratedCategory is one entry of the unfiltered oracle proposal.
// Category.ID is UnknownCategoryID when the label did not resolve.
type GeneratedCategory struct {
	Category Category `json:"category"`
	Items    []string `json:"items"`
}

// Resolved reports whether the proposed label matched a catalog category
func (g GeneratedCategory) Resolved() bool {
	return g.Category.ID != UnknownCategoryID
}

// MatchResponse is the full output of one pipeline run
type MatchResponse struct {
	AllGeneratedCategories []GeneratedCategory `json:"all_generated_categories"`
	MatchedProducts        []MatchResult       `json:"matched_products"`
}

// EmptyMatchResponse returns a well-formed response with no results
func EmptyMatchResponse() *MatchResponse {
	return &MatchResponse{
		AllGeneratedCategories: []GeneratedCategory{},
		MatchedProducts:        []MatchResult{},
	}
}
