package domain

// CompletionRequest is a single prompt sent to the language model
type CompletionRequest struct {
	Prompt   string
	JSONMode bool   // ask for a JSON object response
	Purpose  string // used for logging only, e.g. "proposal", "validation"
}

// ProposedCategory is one raw {category, items} entry from the oracle
type ProposedCategory struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

// Proposal is the structured ingredient proposal returned by the oracle
type Proposal struct {
	Categories []ProposedCategory `json:"categories"`
}

// ShoppingMetadata describes a query for history and personalization
type ShoppingMetadata struct {
	DishBased          []string `json:"dishbased"`
	CuisineBased       []string `json:"cuisinebased"`
	DietaryPreferences []string `json:"dietarypreferences"`
	TimeBased          []string `json:"timebased"`
}
