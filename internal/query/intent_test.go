package query

import "testing"

func TestExtractIntentCategoryAndBrand(t *testing.T) {
	p := newTestProcessor(t)
	intent := p.ExtractIntent("busco un celular samsung en oferta")

	if intent.Category != "celulares" {
		t.Errorf("category = %q, want celulares", intent.Category)
	}
	if intent.Brand != "samsung" {
		t.Errorf("brand = %q, want samsung", intent.Brand)
	}
	if !intent.WantsDeals {
		t.Error("expected WantsDeals")
	}
	if intent.MinPrice != nil || intent.MaxPrice != nil {
		t.Error("expected no price bounds")
	}
}

func TestExtractIntentBrandWholeTokenOnly(t *testing.T) {
	p := newTestProcessor(t)

	// "algo" contains "lg" but mentions no brand at all.
	intent := p.ExtractIntent("algo bueno en rebaja")
	if intent.Brand != "" {
		t.Errorf("brand = %q, want none", intent.Brand)
	}
	if !intent.WantsDeals {
		t.Error("expected WantsDeals")
	}

	if got := p.ExtractIntent("televisor lg barato").Brand; got != "lg" {
		t.Errorf("brand = %q, want lg", got)
	}
	if got := p.ExtractIntent("busco un hp, el más barato").Brand; got != "hp" {
		t.Errorf("brand = %q, want hp despite trailing comma", got)
	}
}

func TestExtractIntentFirstCategoryWins(t *testing.T) {
	p := newTestProcessor(t)
	// "celular" appears before "computadores" in the table; table order decides.
	intent := p.ExtractIntent("celular o computador")
	if intent.Category != "celulares" {
		t.Errorf("category = %q, want celulares (table priority)", intent.Category)
	}
}

func TestExtractIntentPriceRules(t *testing.T) {
	p := newTestProcessor(t)

	tests := []struct {
		query   string
		wantMin float64
		wantMax float64
		hasMin  bool
		hasMax  bool
	}{
		{"celular menos de 800", 0, 800000, false, true},
		{"portátil entre 2000 y 3500", 2000000, 3500000, true, true},
		{"tablet de 500 a 900", 500000, 900000, true, true},
		{"televisor hasta 1500", 0, 1500000, false, true},
		{"audífonos máximo 300", 0, 300000, false, true},
		{"celular barato", 0, 0, false, false},
	}
	for _, tt := range tests {
		intent := p.ExtractIntent(tt.query)
		if tt.hasMin != (intent.MinPrice != nil) {
			t.Errorf("%q: hasMin = %v, want %v", tt.query, intent.MinPrice != nil, tt.hasMin)
			continue
		}
		if tt.hasMax != (intent.MaxPrice != nil) {
			t.Errorf("%q: hasMax = %v, want %v", tt.query, intent.MaxPrice != nil, tt.hasMax)
			continue
		}
		if tt.hasMin && *intent.MinPrice != tt.wantMin {
			t.Errorf("%q: min = %v, want %v", tt.query, *intent.MinPrice, tt.wantMin)
		}
		if tt.hasMax && *intent.MaxPrice != tt.wantMax {
			t.Errorf("%q: max = %v, want %v", tt.query, *intent.MaxPrice, tt.wantMax)
		}
	}
}

func TestExtractIntentFirstPriceRuleOnly(t *testing.T) {
	p := newTestProcessor(t)
	// "menos de 800" matches before "hasta 500"; later patterns must not override.
	intent := p.ExtractIntent("menos de 800 y hasta 500")
	if intent.MaxPrice == nil || *intent.MaxPrice != 800000 {
		t.Fatalf("expected max 800000 from first rule, got %+v", intent.MaxPrice)
	}
	if intent.MinPrice != nil {
		t.Errorf("expected no min bound, got %v", *intent.MinPrice)
	}
}
