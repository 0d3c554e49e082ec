// Package export writes catalog snapshots to XLSX workbooks.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ofertero/ofertero/internal/models"
)

const (
	productsSheet = "Productos"
	summarySheet  = "Resumen"
)

var productHeaders = []string{
	"Nombre", "Marca", "Categoría", "Precio", "Descuento",
	"Con descuento", "Disponibilidad", "Tienda", "URL",
}

// WriteXLSX writes the indexed products and their summary statistics to an
// XLSX workbook at path. The Productos sheet lists one product per row; the
// Resumen sheet carries the same aggregates the stats endpoint serves.
func WriteXLSX(path string, products []models.ProductMeta, stats *models.Stats) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", productsSheet)
	if err := writeProducts(f, products); err != nil {
		return err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}
	if err := writeSummary(f, stats); err != nil {
		return err
	}
	return f.SaveAs(path)
}

func writeProducts(f *excelize.File, products []models.ProductMeta) error {
	for col, header := range productHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(productsSheet, cell, header); err != nil {
			return err
		}
	}
	for row, p := range products {
		discounted := "No"
		if p.Discounted {
			discounted = "Sí"
		}
		values := []interface{}{
			p.Name, p.Brand, p.Category, p.Price, p.DiscountPercent,
			discounted, p.Availability, p.Source, p.ProductURL,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(productsSheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeSummary(f *excelize.File, stats *models.Stats) error {
	rows := [][]interface{}{
		{"Total de productos", stats.TotalProducts},
		{"Productos con descuento", stats.ProductsWithDiscount},
		{"Porcentaje con descuento", stats.DiscountPercentage},
		{},
		{"Rango de precio", "Productos"},
	}
	for _, bucket := range []string{"0-100k", "100k-500k", "500k-1M", "1M+"} {
		rows = append(rows, []interface{}{bucket, stats.PriceRanges[bucket]})
	}
	rows = append(rows, []interface{}{}, []interface{}{"Categoría", "Productos"})
	for _, c := range stats.Categories {
		rows = append(rows, []interface{}{c.Name, c.Count})
	}
	rows = append(rows, []interface{}{}, []interface{}{"Marca", "Productos"})
	for _, b := range stats.TopBrands {
		rows = append(rows, []interface{}{b.Name, b.Count})
	}

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
