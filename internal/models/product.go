// Package models defines core data structures for products, index metadata, and search results.
package models

import "time"

// Product is a raw product record as produced by the scraper and stored in the catalog.
// Price display strings are kept verbatim from the store page; the *Num fields carry
// the parsed values in COP. Records are upserted by ProductURL.
type Product struct {
	ID               string            `json:"id,omitempty" bson:"id,omitempty"`
	Name             string            `json:"name" bson:"name"`
	Brand            string            `json:"brand" bson:"brand"`
	Category         string            `json:"category" bson:"category"`
	ProductURL       string            `json:"product_url" bson:"product_url"`
	SourceURL        string            `json:"source_url,omitempty" bson:"source_url,omitempty"`
	OriginalPrice    string            `json:"original_price,omitempty" bson:"original_price,omitempty"`
	OriginalPriceNum float64           `json:"original_price_num" bson:"original_price_num"`
	DiscountPrice    string            `json:"discount_price,omitempty" bson:"discount_price,omitempty"`
	DiscountPriceNum float64           `json:"discount_price_num" bson:"discount_price_num"`
	DiscountPercent  string            `json:"discount_percent" bson:"discount_percent"`
	Rating           string            `json:"rating,omitempty" bson:"rating,omitempty"`
	ImageURL         string            `json:"image_url,omitempty" bson:"image_url,omitempty"`
	Specifications   map[string]string `json:"specifications,omitempty" bson:"specifications,omitempty"`
	Availability     string            `json:"availability" bson:"availability"`
	InStock          bool              `json:"in_stock" bson:"in_stock"`
	Source           string            `json:"source" bson:"source"`
	ScrapedAt        time.Time         `json:"scraping_date" bson:"scraping_date"`
	UpdatedAt        time.Time         `json:"last_updated" bson:"last_updated"`
}

// ApplyDefaults fills empty fields with the catalog's sentinel defaults.
func (p *Product) ApplyDefaults() {
	if p.Brand == "" {
		p.Brand = "Sin marca"
	}
	if p.Category == "" {
		p.Category = "Sin categoría"
	}
	if p.DiscountPercent == "" {
		p.DiscountPercent = "0%"
	}
	if p.Availability == "" {
		p.Availability = "Disponible"
	}
	if p.Source == "" {
		p.Source = "alkosto"
	}
	if p.Specifications == nil {
		p.Specifications = map[string]string{}
	}
}

// Price returns the effective price: the discounted price when present,
// otherwise the original price.
func (p *Product) Price() float64 {
	if p.DiscountPriceNum > 0 {
		return p.DiscountPriceNum
	}
	return p.OriginalPriceNum
}

// ProductMeta is the frozen metadata snapshot stored alongside each index row.
// Row i of the metadata array always describes row i of the vector matrix.
// Category holds the normalized label, not the raw store taxonomy string.
type ProductMeta struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Brand           string            `json:"brand"`
	Category        string            `json:"category"`
	Price           float64           `json:"price"`
	DiscountPercent string            `json:"discount_percent"`
	Discounted      bool              `json:"discounted"`
	ProductURL      string            `json:"product_url"`
	ImageURL        string            `json:"image_url"`
	Availability    string            `json:"availability"`
	Specifications  map[string]string `json:"specifications"`
	Source          string            `json:"source"`
	MainCategory    bool              `json:"main_category"`
}
