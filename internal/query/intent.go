package query

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ofertero/ofertero/internal/models"
)

// priceRule binds a price-range pattern to an extractor. Rules are evaluated
// in order and only the first match applies.
type priceRule struct {
	pattern *regexp.Regexp
	apply   func(groups []string, scale float64, intent *models.Intent)
}

func maxOnly(groups []string, scale float64, intent *models.Intent) {
	if v, err := strconv.ParseFloat(groups[1], 64); err == nil {
		max := v * scale
		intent.MaxPrice = &max
	}
}

func minAndMax(groups []string, scale float64, intent *models.Intent) {
	lo, err1 := strconv.ParseFloat(groups[1], 64)
	hi, err2 := strconv.ParseFloat(groups[2], 64)
	if err1 != nil || err2 != nil {
		return
	}
	min, max := lo*scale, hi*scale
	intent.MinPrice = &min
	intent.MaxPrice = &max
}

var priceRules = []priceRule{
	{regexp.MustCompile(`menos de (\d+)`), maxOnly},
	{regexp.MustCompile(`bajo (\d+)`), maxOnly},
	{regexp.MustCompile(`entre (\d+) y (\d+)`), minAndMax},
	{regexp.MustCompile(`(\d+) a (\d+)`), minAndMax},
	{regexp.MustCompile(`m[áa]ximo (\d+)`), maxOnly},
	{regexp.MustCompile(`hasta (\d+)`), maxOnly},
}

// ExtractIntent derives a structured intent from the raw query: category and
// brand by keyword membership (first match wins, table order), a deal-seeking
// flag, and price bounds from the ordered price rule table. Matched amounts
// are scaled by the configured price scale since users quote prices in
// thousands of pesos. Unparseable input degrades to an empty intent.
func (p *Processor) ExtractIntent(raw string) *models.Intent {
	lower := strings.ToLower(raw)
	intent := &models.Intent{}

	for _, ck := range p.tables.CategoryKeywords {
		if containsAny(lower, ck.Keywords) {
			intent.Category = ck.Category
			break
		}
	}

	intent.Brand = p.matchBrand(lower)

	intent.WantsDeals = containsAny(lower, p.tables.DealKeywords)

	for _, rule := range priceRules {
		if groups := rule.pattern.FindStringSubmatch(lower); groups != nil {
			rule.apply(groups, p.search.PriceScale, intent)
			break
		}
	}

	return intent
}

// matchBrand returns the first configured brand present in the query as a
// whole token; multi-word brands match as substrings. Bare substring matching
// misfires on ordinary words ("algo" contains "lg") and a phantom brand
// hardens into a filter at the API boundary.
func (p *Processor) matchBrand(lower string) string {
	tokens := strings.Fields(lower)
	for i, tok := range tokens {
		tokens[i] = strings.Trim(tok, `.,;:!?¿¡()"`)
	}
	for _, brand := range p.tables.Brands {
		if strings.ContainsRune(brand, ' ') {
			if strings.Contains(lower, brand) {
				return brand
			}
			continue
		}
		for _, tok := range tokens {
			if tok == brand {
				return brand
			}
		}
	}
	return ""
}
