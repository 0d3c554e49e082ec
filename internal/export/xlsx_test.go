package export

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ofertero/ofertero/internal/models"
)

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalogo.xlsx")
	products := []models.ProductMeta{
		{
			Name:            "Portátil HP Victus 15",
			Brand:           "HP",
			Category:        "Portátiles",
			Price:           2999000,
			DiscountPercent: "25%",
			Discounted:      true,
			ProductURL:      "https://alkosto.test/victus-15",
			Source:          "alkosto",
		},
		{
			Name:     "Base para TV Samsung",
			Brand:    "Samsung",
			Category: "Complementos TV",
			Source:   "alkosto",
		},
	}
	stats := &models.Stats{
		TotalProducts:        2,
		ProductsWithDiscount: 1,
		DiscountPercentage:   "50.0%",
		PriceRanges:          map[string]int{"0-100k": 1, "100k-500k": 0, "500k-1M": 0, "1M+": 1},
		Categories:           []models.NameCount{{Name: "Portátiles", Count: 1}, {Name: "Complementos TV", Count: 1}},
		TopBrands:            []models.NameCount{{Name: "HP", Count: 1}, {Name: "Samsung", Count: 1}},
	}

	if err := WriteXLSX(path, products, stats); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows("Productos")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header plus two products", len(rows))
	}
	if rows[0][0] != "Nombre" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "Portátil HP Victus 15" || rows[1][5] != "Sí" {
		t.Errorf("product row = %v", rows[1])
	}
	if rows[2][5] != "No" {
		t.Errorf("accessory should not be marked discounted: %v", rows[2])
	}

	summary, err := f.GetRows("Resumen")
	if err != nil {
		t.Fatal(err)
	}
	if len(summary) == 0 || summary[0][0] != "Total de productos" {
		t.Fatalf("summary = %v", summary)
	}
	if summary[2][1] != "50.0%" {
		t.Errorf("discount percentage cell = %v", summary[2])
	}
}

func TestWriteXLSXEmptyCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vacio.xlsx")
	stats := &models.Stats{
		PriceRanges:        map[string]int{"0-100k": 0, "100k-500k": 0, "500k-1M": 0, "1M+": 0},
		DiscountPercentage: "0.0%",
	}
	if err := WriteXLSX(path, nil, stats); err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := f.GetRows("Productos")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Errorf("got %d rows, want header only", len(rows))
	}
}
