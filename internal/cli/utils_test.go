package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ofertero/ofertero/internal/models"
)

func TestFormatPrice(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "$0"},
		{999, "$999"},
		{1000, "$1.000"},
		{50000, "$50.000"},
		{2999000, "$2.999.000"},
		{1234567890, "$1.234.567.890"},
		{-1000, "-$1.000"},
	}
	for _, tc := range cases {
		if got := FormatPrice(tc.in); got != tc.want {
			t.Errorf("FormatPrice(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func sampleResponse() *models.SearchResponse {
	return &models.SearchResponse{
		Query:     "laptop hp",
		Total:     1,
		QueryTime: 4,
		Results: []*models.SearchResult{
			{
				ProductMeta: models.ProductMeta{
					Name:            "Portátil HP Victus 15",
					Brand:           "HP",
					Category:        "Portátiles",
					Price:           2999000,
					DiscountPercent: "25%",
					Discounted:      true,
					ProductURL:      "https://alkosto.test/victus-15",
				},
				Score:    0.82,
				Adjusted: 0.82,
			},
		},
	}
}

func TestWriteSearchResultsText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, sampleResponse(), OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Portátil HP Victus 15", "$2.999.000", "25%", "0.8200"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteSearchResultsTruncatesLongNames(t *testing.T) {
	resp := sampleResponse()
	resp.Results[0].Name = strings.Repeat("Portátil HP Victus 15 OMEN Gaming ", 5)
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, resp, OutputText); err != nil {
		t.Fatal(err)
	}
	for _, line := range strings.Split(buf.String(), "\n") {
		if !strings.HasPrefix(line, " 1. ") {
			continue
		}
		if !strings.HasSuffix(line, "...") {
			t.Errorf("long name not truncated: %q", line)
		}
		if n := len([]rune(line)); n > maxNameWidth+10 {
			t.Errorf("name line is %d runes wide", n)
		}
	}
}

func TestWriteSearchResultsJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, sampleResponse(), OutputJSON); err != nil {
		t.Fatal(err)
	}
	var decoded models.SearchResponse
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Total != 1 || decoded.Results[0].Name != "Portátil HP Victus 15" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestWriteStatsText(t *testing.T) {
	stats := &models.Stats{
		TotalProducts:        10,
		ProductsWithDiscount: 3,
		DiscountPercentage:   "30.0%",
		PriceRanges:          map[string]int{"0-100k": 1, "100k-500k": 1, "500k-1M": 1, "1M+": 7},
		Categories:           []models.NameCount{{Name: "Televisores", Count: 10}},
		TopBrands:            []models.NameCount{{Name: "Samsung", Count: 10}},
	}
	var buf bytes.Buffer
	if err := WriteStats(&buf, stats, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"30.0%", "Televisores", "Samsung", "1M+:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
