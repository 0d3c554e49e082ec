// Package cli provides CLI output utilities for Ofertero.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ofertero/ofertero/internal/models"
	"github.com/ofertero/ofertero/pkg/utils"
)

// maxNameWidth caps product names in text output; scraped names can run to
// full marketing sentences.
const maxNameWidth = 72

// OutputFormat is the format for CLI output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// WriteSearchResults writes search results to w in the given format.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	}
	fmt.Fprintf(w, "\nFound %d results in %dms for %q\n\n", response.Total, response.QueryTime, response.Query)
	for i, r := range response.Results {
		fmt.Fprintf(w, "%2d. %s\n", i+1, utils.Truncate(r.Name, maxNameWidth))
		fmt.Fprintf(w, "    %s | %s | %s", r.Brand, r.Category, FormatPrice(r.Price))
		if r.Discounted {
			fmt.Fprintf(w, " (-%s)", r.DiscountPercent)
		}
		fmt.Fprintf(w, "\n    score: %.4f", r.Adjusted)
		if r.ProductURL != "" {
			fmt.Fprintf(w, " | %s", r.ProductURL)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w)
	}
	return nil
}

// WriteStats writes catalog statistics to w in the given format.
func WriteStats(w io.Writer, stats *models.Stats, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}
	fmt.Fprintf(w, "products:        %d\n", stats.TotalProducts)
	fmt.Fprintf(w, "with discount:   %d (%s)\n", stats.ProductsWithDiscount, stats.DiscountPercentage)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "# price ranges")
	for _, bucket := range []string{"0-100k", "100k-500k", "500k-1M", "1M+"} {
		fmt.Fprintf(w, "%-12s %d\n", bucket+":", stats.PriceRanges[bucket])
	}
	if len(stats.Categories) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "# top categories")
		for _, c := range stats.Categories {
			fmt.Fprintf(w, "%-30s %d\n", c.Name, c.Count)
		}
	}
	if len(stats.TopBrands) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "# top brands")
		for _, b := range stats.TopBrands {
			fmt.Fprintf(w, "%-30s %d\n", b.Name, b.Count)
		}
	}
	return nil
}

// FormatPrice renders a COP amount with dot thousands separators, e.g.
// 2999000 -> "$2.999.000".
func FormatPrice(v float64) string {
	digits := fmt.Sprintf("%.0f", v)
	neg := strings.HasPrefix(digits, "-")
	digits = strings.TrimPrefix(digits, "-")

	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	out := "$" + strings.Join(groups, ".")
	if neg {
		out = "-" + out
	}
	return out
}
