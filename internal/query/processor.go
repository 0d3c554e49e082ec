// Package query cleans and expands free-text shopping queries, selects
// per-query similarity thresholds, and extracts structured search intent.
package query

import (
	"sort"
	"strings"

	"github.com/ofertero/ofertero/internal/config"
)

// Signal is the product-type signal a query carries.
type Signal int

const (
	// SignalNone means the query does not constrain portability.
	SignalNone Signal = iota
	// SignalPortable means the query asks for a portable computer.
	SignalPortable
	// SignalDesktop means the query asks for a desktop / all-in-one.
	SignalDesktop
)

// desktopNegation is appended when a query names a computer type together with
// a portability term, so the query vector lines up with the affirmative
// portability segment of laptop documents instead of all-in-one documents.
const desktopNegation = "no computador de escritorio no all in one"

// Processor prepares raw queries for embedding and ranking.
type Processor struct {
	search *config.SearchConfig
	tables *config.TaxonomyConfig
	// expansion keys in sorted order for deterministic stacking
	expansionKeys []string
	stopwords     map[string]bool
}

// NewProcessor creates a query processor over the configured tables.
func NewProcessor(search *config.SearchConfig, tables *config.TaxonomyConfig) *Processor {
	keys := make([]string, 0, len(tables.Expansions))
	for k := range tables.Expansions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	stop := make(map[string]bool, len(tables.Stopwords))
	for _, w := range tables.Stopwords {
		stop[w] = true
	}
	return &Processor{search: search, tables: tables, expansionKeys: keys, stopwords: stop}
}

// Clean lowercases the query, removes stopwords, and appends synonym
// expansions for every expansion key found in the cleaned text. Expansions may
// stack; identical expansion phrases are appended once. When the query names a
// computer type together with a portability term, a desktop-negating suffix is
// appended as well.
func (p *Processor) Clean(raw string) string {
	var kept []string
	for _, tok := range strings.Fields(strings.ToLower(raw)) {
		if !p.stopwords[tok] {
			kept = append(kept, tok)
		}
	}
	cleaned := strings.Join(kept, " ")

	appended := map[string]bool{}
	expanded := cleaned
	for _, key := range p.expansionKeys {
		if !strings.Contains(cleaned, key) {
			continue
		}
		phrase := p.tables.Expansions[key]
		if phrase == "" || appended[phrase] {
			continue
		}
		expanded += " " + phrase
		appended[phrase] = true
	}

	if mentionsComputerType(cleaned) && containsAny(cleaned, p.tables.PortableMarkers) {
		expanded += " " + desktopNegation
	}
	return expanded
}

// PortabilitySignal classifies the portability constraint of a raw query.
// Portable markers win over desktop markers when both appear, since queries
// like "computador portátil no de escritorio" intend a laptop.
func (p *Processor) PortabilitySignal(raw string) Signal {
	lower := strings.ToLower(raw)
	if containsAny(lower, p.tables.PortableMarkers) {
		return SignalPortable
	}
	if containsAny(lower, p.tables.DesktopMarkers) {
		return SignalDesktop
	}
	return SignalNone
}

// DynamicThreshold picks a similarity cutoff from the query's characteristics:
// greeting-plus-request queries get the mid tier, technically specific queries
// (a brand or spec term present) get the low tier to cast a wider net, and
// generic category queries get the default tier.
func (p *Processor) DynamicThreshold(raw string) float64 {
	lower := strings.ToLower(raw)
	if p.isGreetingWithRequest(lower) {
		return p.search.GreetingThreshold
	}
	if p.matchBrand(lower) != "" || containsAny(lower, p.tables.ImportantSpecKeys) {
		return p.search.SpecificThreshold
	}
	return p.search.DefaultThreshold
}

func (p *Processor) isGreetingWithRequest(lower string) bool {
	if !containsAny(lower, p.tables.Greetings) {
		return false
	}
	// A bare greeting is not a request; look for any product-ish term after it.
	for _, ck := range p.tables.CategoryKeywords {
		if containsAny(lower, ck.Keywords) {
			return true
		}
	}
	return containsAny(lower, p.tables.DealKeywords)
}

func mentionsComputerType(s string) bool {
	for _, term := range []string{"computador", "equipo", "pc"} {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if t != "" && strings.Contains(s, t) {
			return true
		}
	}
	return false
}
