package models

// SearchResult is a single retrieval hit: an index metadata copy plus similarity scores.
// Score is the raw cosine similarity from the index; Adjusted is the score after
// ranking penalties and is what results are ordered by.
type SearchResult struct {
	ProductMeta
	Score    float64 `json:"similarity_score"`
	Adjusted float64 `json:"adjusted_score"`
}

// SearchRequest is a semantic search request.
type SearchRequest struct {
	Query     string  `json:"query"`
	TopK      int     `json:"top_k,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
}

// FilterRequest is a filtered search request. A zero value for any filter
// means "no constraint". Query is optional; when present the candidate pool
// comes from semantic search, otherwise from the full index metadata.
type FilterRequest struct {
	Query        string   `json:"query,omitempty"`
	Category     string   `json:"category,omitempty"`
	Brand        string   `json:"brand,omitempty"`
	MinPrice     *float64 `json:"min_price,omitempty"`
	MaxPrice     *float64 `json:"max_price,omitempty"`
	WithDiscount bool     `json:"with_discount,omitempty"`
	TopK         int      `json:"top_k,omitempty"`
	Threshold    float64  `json:"threshold,omitempty"`
}

// SearchResponse is the HTTP response for search endpoints.
type SearchResponse struct {
	Results   []*SearchResult `json:"results"`
	Total     int             `json:"total"`
	QueryTime int64           `json:"query_time_ms"`
	Query     string          `json:"query"`
}
