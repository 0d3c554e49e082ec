package normalize

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/ofertero/ofertero/internal/models"
)

const segmentSeparator = " | "

var (
	// Characters allowed in document text. Everything else is replaced with a
	// space before whitespace collapsing. Letters and digits cover the full
	// Unicode ranges since product names carry accented Spanish text.
	unsafeChars = regexp.MustCompile(`[^\p{L}\p{N}_\s|:.\-]`)
	multiSpace  = regexp.MustCompile(`\s+`)
)

// BuildDocumentText builds the embedding input text for a product. Segments are
// emitted in a fixed priority order so the embedding model weights the
// discriminative fields first: name, portability disambiguation, brand and
// normalized category, price and discount (main categories only), store, and a
// keyword-filtered subset of specifications. The function never fails; when the
// product has nothing but a name, the name alone is returned.
func (n *Normalizer) BuildDocumentText(p *models.Product) string {
	category := n.NormalizeCategory(p.Category)

	parts := []string{"Producto: " + p.Name}

	// Desktop all-in-ones lexically overlap with laptop queries ("computador");
	// an explicit portability segment keeps the two apart in embedding space.
	switch {
	case category == "Portátiles" || n.HasPortableMarker(p.Name):
		parts = append(parts, "Es portátil: sí")
	case category == "Computadores de Escritorio" || n.HasDesktopMarker(p.Name):
		parts = append(parts, "Es portátil: no. Computador de escritorio")
	}

	parts = append(parts,
		"Nombre: "+p.Name,
		"Marca: "+p.Brand,
		"Categoría: "+category,
	)

	// Accessories span incomparable price ranges; embedding their prices only
	// adds noise, so price segments are reserved for main categories.
	isMain := n.IsMainCategory(category)
	if isMain {
		parts = append(parts,
			fmt.Sprintf("Precio: %.0f", p.Price()),
			"Descuento: "+p.DiscountPercent,
		)
	}

	parts = append(parts, "Tienda: "+p.Source)

	parts = append(parts, n.specSegments(p.Specifications, isMain)...)

	text := CleanText(strings.Join(parts, segmentSeparator))
	if text == "" {
		return p.Name
	}
	return text
}

// specSegments selects specification entries for the document text: entries
// whose key matches a curated technical-term list always qualify; for main
// categories with a small spec count, the remaining entries are appended too.
// Keys are visited in sorted order so document text is deterministic.
func (n *Normalizer) specSegments(specs map[string]string, isMain bool) []string {
	if len(specs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(specs))
	for k := range specs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	included := make(map[string]bool, len(keys))
	for _, k := range keys {
		if n.isImportantSpec(k) {
			parts = append(parts, k+": "+specs[k])
			included[k] = true
		}
	}
	if isMain && len(specs) <= n.tables.MaxSpecsForFull {
		for _, k := range keys {
			if !included[k] {
				parts = append(parts, k+": "+specs[k])
			}
		}
	}
	return parts
}

func (n *Normalizer) isImportantSpec(key string) bool {
	lower := strings.ToLower(key)
	for _, term := range n.tables.ImportantSpecKeys {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// CleanText strips characters outside the safe set and collapses whitespace runs.
func CleanText(s string) string {
	s = unsafeChars.ReplaceAllString(s, " ")
	s = multiSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
