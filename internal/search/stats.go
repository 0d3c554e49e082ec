package search

import (
	"fmt"
	"sort"

	"github.com/ofertero/ofertero/internal/models"
)

const topNStats = 10

// Stats summarizes the loaded index: totals, top categories and brands, price
// bucket counts, and discount coverage. Returns zeroed stats when no index is
// loaded.
func (e *Engine) Stats() *models.Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()

	stats := &models.Stats{
		PriceRanges: map[string]int{
			"0-100k":    0,
			"100k-500k": 0,
			"500k-1M":   0,
			"1M+":       0,
		},
		Categories:         []models.NameCount{},
		TopBrands:          []models.NameCount{},
		DiscountPercentage: "0.0%",
	}
	if len(e.metadata) == 0 {
		return stats
	}

	stats.TotalProducts = len(e.metadata)
	var categories, brands counter
	for i := range e.metadata {
		meta := &e.metadata[i]
		categories.add(meta.Category)
		brands.add(meta.Brand)
		stats.PriceRanges[priceBucket(meta.Price)]++
		if meta.Discounted {
			stats.ProductsWithDiscount++
		}
	}

	stats.Categories = categories.top(topNStats)
	stats.TopBrands = brands.top(topNStats)
	stats.DiscountPercentage = fmt.Sprintf("%.1f%%",
		100*float64(stats.ProductsWithDiscount)/float64(stats.TotalProducts))
	return stats
}

func priceBucket(price float64) string {
	switch {
	case price < 100_000:
		return "0-100k"
	case price < 500_000:
		return "100k-500k"
	case price < 1_000_000:
		return "500k-1M"
	default:
		return "1M+"
	}
}

// counter accumulates label frequencies in first-seen order, so frequency
// ties rank by encounter order.
type counter struct {
	index  map[string]int
	counts []models.NameCount
}

func (c *counter) add(name string) {
	if c.index == nil {
		c.index = map[string]int{}
	}
	i, ok := c.index[name]
	if !ok {
		i = len(c.counts)
		c.index[name] = i
		c.counts = append(c.counts, models.NameCount{Name: name})
	}
	c.counts[i].Count++
}

// top returns the n most frequent labels. The stable sort keeps first-seen
// order among equal counts.
func (c *counter) top(n int) []models.NameCount {
	out := make([]models.NameCount, len(c.counts))
	copy(out, c.counts)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > n {
		out = out[:n]
	}
	return out
}
