package models

// NameCount is a label with its frequency, used for ordered top-N listings.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Stats summarizes the indexed catalog: top categories and brands by frequency,
// counts per fixed price bucket, and discount coverage.
type Stats struct {
	TotalProducts        int            `json:"total_products"`
	Categories           []NameCount    `json:"categories"`
	TopBrands            []NameCount    `json:"top_brands"`
	PriceRanges          map[string]int `json:"price_ranges"`
	ProductsWithDiscount int            `json:"products_with_discount"`
	DiscountPercentage   string         `json:"discount_percentage"`
}
