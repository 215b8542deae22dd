package export

import (
	"fmt"
	"io"

	"github.com/360EntSecGroup-Skylar/excelize/v2"
	"github.com/ivanoskov/warehouse/internal/model"
	"github.com/shopspring/decimal"
)

// SheetName - лист с продуктами в XLSX выгрузке
const SheetName = "Products"

var (
	headerStyle = `
	{
		"border": [
			{"type": "left", "color": "#000000", "style": 1},
			{"type": "top", "color": "#000000", "style": 1},
			{"type": "right", "color": "#000000", "style": 1},
			{"type": "bottom", "color": "#000000", "style": 1}
		],
		"fill": {
			"type": "pattern",
			"pattern": 1,
			"color": ["#96b753"]
		},
		"font": {
			"bold": true
		},
		"alignment": {
			"shrink_to_fit": true,
			"horizontal": "center"
		}
	}
	`
	dataStyle = `
	{
		"border": [
			{"type": "left", "color": "#000000", "style": 1},
			{"type": "top", "color": "#000000", "style": 1},
			{"type": "right", "color": "#000000", "style": 1},
			{"type": "bottom", "color": "#000000", "style": 1}
		],
		"alignment": {
			"shrink_to_fit": true
		}
	}
	`
)

// WriteXLSX пишет записи на лист Products тем же набором колонок, что и CSV
func WriteXLSX(w io.Writer, records []model.Record) error {
	f := excelize.NewFile()

	f.NewSheet(SheetName)
	// лист по умолчанию не нужен
	f.DeleteSheet("Sheet1")

	if err := f.SetColWidth(SheetName, "A", "F", 20); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	header, err := f.NewStyle(headerStyle)
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	data, err := f.NewStyle(dataStyle)
	if err != nil {
		return fmt.Errorf("failed to create data style: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	headerRow := make([]interface{}, len(Columns))
	for i, name := range Columns {
		headerRow[i] = excelize.Cell{StyleID: header, Value: name}
	}
	if err := sw.SetRow("A1", headerRow); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for n, r := range records {
		row := []interface{}{
			excelize.Cell{StyleID: data, Value: r.ID},
			excelize.Cell{StyleID: data, Value: r.Name},
			excelize.Cell{StyleID: data, Value: r.Quantity},
			excelize.Cell{StyleID: data, Value: rounded(r.Price)},
			excelize.Cell{StyleID: data, Value: r.Category},
			excelize.Cell{StyleID: data, Value: rounded(r.Value)},
		}

		cell, _ := excelize.CoordinatesToCellName(1, n+2)
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r.ID, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	return nil
}

func rounded(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
