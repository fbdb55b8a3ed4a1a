// Package exporter writes full snapshots of the product table.
package exporter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JonMunkholm/inventory/internal/csvio"
	"github.com/JonMunkholm/inventory/internal/inventory"
	"github.com/xuri/excelize/v2"
)

// Source lists every product in id order.
type Source interface {
	All(ctx context.Context) ([]inventory.Product, error)
}

// Exporter dumps the store to a CSV snapshot and, optionally, a workbook.
// Every export replaces the previous snapshot; nothing is filtered.
type Exporter struct {
	src      Source
	csvPath  string
	xlsxPath string
}

// New returns an exporter writing csvPath, plus xlsxPath when non-empty.
func New(src Source, csvPath, xlsxPath string) *Exporter {
	return &Exporter{src: src, csvPath: csvPath, xlsxPath: xlsxPath}
}

// CSVPath returns the snapshot location.
func (e *Exporter) CSVPath() string { return e.csvPath }

// Run writes the snapshot(s) and returns the number of products exported.
func (e *Exporter) Run(ctx context.Context) (int, error) {
	products, err := e.src.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("load products: %w", err)
	}

	records := make([][]string, 0, len(products)+1)
	records = append(records, inventory.Columns)
	for _, p := range products {
		records = append(records, p.Record())
	}

	if err := csvio.WriteFile(e.csvPath, records); err != nil {
		return 0, fmt.Errorf("write backup csv: %w", err)
	}

	if e.xlsxPath != "" {
		if err := writeWorkbook(e.xlsxPath, products); err != nil {
			return 0, fmt.Errorf("write backup workbook: %w", err)
		}
	}

	slog.Info("backup written", "csv", e.csvPath, "xlsx", e.xlsxPath, "products", len(products))
	return len(products), nil
}

const sheetName = "Products"

var (
	headerStyle = &excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	}
	priceFormat = "$#,##0.00"
)

func writeWorkbook(path string, products []inventory.Product) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetName, "A", "A", 12); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetName, "B", "B", 40); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetName, "C", "E", 20); err != nil {
		return err
	}

	hStyle, err := f.NewStyle(headerStyle)
	if err != nil {
		return err
	}
	pStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &priceFormat})
	if err != nil {
		return err
	}

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return err
	}

	header := make([]interface{}, len(inventory.Columns))
	for i, col := range inventory.Columns {
		header[i] = excelize.Cell{StyleID: hStyle, Value: col}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for n, p := range products {
		row := []interface{}{
			p.ID,
			p.Name,
			excelize.Cell{StyleID: pStyle, Value: float64(p.Price) / 100},
			p.Quantity,
			inventory.FormatTimestamp(p.UpdatedAt),
		}
		cell, err := excelize.CoordinatesToCellName(1, n+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}

	if err := sw.Flush(); err != nil {
		return err
	}
	return f.SaveAs(path)
}
