// Package normalize canonicalizes raw store taxonomy and builds embedding
// document text for products.
package normalize

import (
	"sort"
	"strings"

	"github.com/ofertero/ofertero/internal/config"
)

// NoCategory is the sentinel label for products without a category.
const NoCategory = "Sin categoría"

// Normalizer applies the configured taxonomy tables to raw product fields.
type Normalizer struct {
	tables *config.TaxonomyConfig
	// substring keys ordered longest-first so lookups are deterministic
	// ("complementos_tv" wins over "tv").
	orderedKeys []string
	canonical   map[string]bool
	mainSet     map[string]bool
}

// NewNormalizer creates a normalizer over the given taxonomy tables.
func NewNormalizer(tables *config.TaxonomyConfig) *Normalizer {
	keys := make([]string, 0, len(tables.CategoryMap))
	for k := range tables.CategoryMap {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	canonical := make(map[string]bool, len(tables.CategoryMap))
	for _, label := range tables.CategoryMap {
		canonical[label] = true
	}
	for _, label := range tables.MainCategories {
		canonical[label] = true
	}
	canonical[NoCategory] = true
	mainSet := make(map[string]bool, len(tables.MainCategories))
	for _, c := range tables.MainCategories {
		mainSet[c] = true
	}
	return &Normalizer{tables: tables, orderedKeys: keys, canonical: canonical, mainSet: mainSet}
}

// NormalizeCategory maps a raw store category string to its canonical label.
// Empty input maps to the NoCategory sentinel; unmapped input passes through
// unchanged. Canonical labels are fixed points of this function.
func (n *Normalizer) NormalizeCategory(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return NoCategory
	}
	// Canonical labels must map to themselves; without this check a label
	// like "Accesorios Videojuegos" would substring-match "videojuegos".
	if n.canonical[trimmed] {
		return trimmed
	}
	lower := strings.ToLower(trimmed)
	if canonical, ok := n.tables.CategoryMap[lower]; ok {
		return canonical
	}
	for _, key := range n.orderedKeys {
		if strings.Contains(lower, key) {
			return n.tables.CategoryMap[key]
		}
	}
	return trimmed
}

// IsMainCategory reports whether the canonical label is a primary device
// category (as opposed to an accessory or peripheral).
func (n *Normalizer) IsMainCategory(canonical string) bool {
	return n.mainSet[canonical]
}

// HasPortableMarker reports whether s carries a portable-computer marker.
func (n *Normalizer) HasPortableMarker(s string) bool {
	return containsAny(strings.ToLower(s), n.tables.PortableMarkers)
}

// HasDesktopMarker reports whether s carries a desktop / all-in-one marker.
func (n *Normalizer) HasDesktopMarker(s string) bool {
	return containsAny(strings.ToLower(s), n.tables.DesktopMarkers)
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if m != "" && strings.Contains(s, m) {
			return true
		}
	}
	return false
}
