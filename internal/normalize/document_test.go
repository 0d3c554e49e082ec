package normalize

import (
	"strings"
	"testing"

	"github.com/ofertero/ofertero/internal/models"
)

func TestBuildDocumentTextLaptop(t *testing.T) {
	n := NewNormalizer(defaultTables(t))
	p := &models.Product{
		Name:             "Portátil HP Victus 15",
		Brand:            "HP",
		Category:         "portatiles",
		DiscountPriceNum: 3000000,
		DiscountPercent:  "20%",
		Source:           "alkosto",
		Specifications: map[string]string{
			"Memoria RAM":       "16 GB",
			"Procesador":        "Ryzen 5",
			"Color del teclado": "Negro",
		},
	}
	text := n.BuildDocumentText(p)

	for _, want := range []string{
		"Producto: Portátil HP Victus 15",
		"Es portátil: sí",
		"Marca: HP",
		"Categoría: Portátiles",
		"Precio: 3000000",
		"Memoria RAM: 16 GB",
		"Procesador: Ryzen 5",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("document text missing %q:\n%s", want, text)
		}
	}
	// Few specs on a main-category product: non-technical entries ride along.
	if !strings.Contains(text, "Color del teclado: Negro") {
		t.Errorf("expected remaining specs for small spec count:\n%s", text)
	}
	if strings.Index(text, "Producto:") != 0 {
		t.Errorf("name segment must come first:\n%s", text)
	}
}

func TestBuildDocumentTextDesktopNegatesPortability(t *testing.T) {
	n := NewNormalizer(defaultTables(t))
	p := &models.Product{
		Name:             "HP All-in-One 24",
		Brand:            "HP",
		Category:         "computadores_escritorio",
		OriginalPriceNum: 2500000,
		DiscountPercent:  "0%",
		Source:           "alkosto",
	}
	text := n.BuildDocumentText(p)
	if !strings.Contains(text, "Es portátil: no") {
		t.Errorf("desktop must carry negative portability segment:\n%s", text)
	}
	if strings.Contains(text, "Es portátil: sí") {
		t.Errorf("desktop must not carry affirmative portability segment:\n%s", text)
	}
}

func TestBuildDocumentTextAccessoryOmitsPrice(t *testing.T) {
	n := NewNormalizer(defaultTables(t))
	p := &models.Product{
		Name:             "Cable HDMI 2m",
		Brand:            "Genérico",
		Category:         "accesorios_electronicos",
		OriginalPriceNum: 45000,
		DiscountPercent:  "10%",
		Source:           "alkosto",
		Specifications:   map[string]string{"Longitud": "2 m"},
	}
	text := n.BuildDocumentText(p)
	if strings.Contains(text, "Precio:") {
		t.Errorf("accessory document must not embed price:\n%s", text)
	}
	if strings.Contains(text, "Descuento:") {
		t.Errorf("accessory document must not embed discount:\n%s", text)
	}
	// Non-technical spec on an accessory is dropped.
	if strings.Contains(text, "Longitud") {
		t.Errorf("accessory non-technical spec should be dropped:\n%s", text)
	}
}

func TestBuildDocumentTextDeterministic(t *testing.T) {
	n := NewNormalizer(defaultTables(t))
	p := &models.Product{
		Name:     "Tablet Lenovo M10",
		Brand:    "Lenovo",
		Category: "tablets",
		Source:   "alkosto",
		Specifications: map[string]string{
			"Pantalla": "10.1", "Batería": "5000 mAh", "Almacenamiento": "64 GB",
		},
	}
	first := n.BuildDocumentText(p)
	for i := 0; i < 10; i++ {
		if got := n.BuildDocumentText(p); got != first {
			t.Fatalf("document text not deterministic:\n%s\nvs\n%s", first, got)
		}
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hola   mundo", "hola mundo"},
		{"a | b: c.d-e", "a | b: c.d-e"},
		{"precio $1.000 (20%)", "precio 1.000 20"},
		{"  portátil  ", "portátil"},
	}
	for _, tt := range tests {
		if got := CleanText(tt.in); got != tt.want {
			t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
