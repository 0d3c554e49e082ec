package search

import (
	"strings"

	"github.com/ofertero/ofertero/internal/models"
)

// matchesFilters applies every constraint in the request conjunctively.
// Zero-valued constraints pass everything.
func matchesFilters(meta *models.ProductMeta, req *models.FilterRequest) bool {
	return matchCategory(meta, req.Category) &&
		matchBrand(meta, req.Brand) &&
		matchPrice(meta, req.MinPrice, req.MaxPrice) &&
		matchDiscount(meta, req.WithDiscount)
}

func matchCategory(meta *models.ProductMeta, category string) bool {
	if category == "" {
		return true
	}
	return strings.Contains(strings.ToLower(meta.Category), strings.ToLower(category))
}

func matchBrand(meta *models.ProductMeta, brand string) bool {
	if brand == "" {
		return true
	}
	return strings.Contains(strings.ToLower(meta.Brand), strings.ToLower(brand))
}

// matchPrice checks the inclusive [min, max] bounds; nil bounds pass.
func matchPrice(meta *models.ProductMeta, min, max *float64) bool {
	if min != nil && meta.Price < *min {
		return false
	}
	if max != nil && meta.Price > *max {
		return false
	}
	return true
}

func matchDiscount(meta *models.ProductMeta, withDiscount bool) bool {
	return !withDiscount || meta.Discounted
}
