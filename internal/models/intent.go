package models

// Intent is the structured search intention extracted from a free-text query.
// It is created per query and consumed immediately; it is never persisted.
type Intent struct {
	Category   string   `json:"category,omitempty"`
	Brand      string   `json:"brand,omitempty"`
	MinPrice   *float64 `json:"min_price,omitempty"`
	MaxPrice   *float64 `json:"max_price,omitempty"`
	WantsDeals bool     `json:"wants_deals"`
}
