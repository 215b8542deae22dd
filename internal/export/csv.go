package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/ivanoskov/warehouse/internal/model"
	"github.com/shopspring/decimal"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Columns - порядок колонок выгрузки, совпадает с полями model.Record
var Columns = []string{"id", "name", "quantity", "price", "category", "value"}

var ErrBadHeader = errors.New("unexpected csv header")

// FileName формирует имя файла выгрузки вида products_20240131_150405.csv
func FileName(format string, now time.Time) string {
	return fmt.Sprintf("products_%s.%s", now.Format("20060102_150405"), format)
}

// WriteCSV пишет записи в CSV с заголовком.
// Цена и стоимость округляются до двух знаков.
func WriteCSV(w io.Writer, records []model.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, r := range records {
		row := []string{
			strconv.FormatInt(r.ID, 10),
			r.Name,
			strconv.FormatFloat(r.Quantity, 'f', -1, 64),
			money(r.Price),
			r.Category,
			money(r.Value),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row %d: %w", r.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV разбирает выгрузку, записанную WriteCSV
func ReadCSV(r io.Reader) ([]model.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Columns)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	for i, name := range Columns {
		if header[i] != name {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrBadHeader, i+1, header[i], name)
		}
	}

	records := make([]model.Record, 0)
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv line %d: %w", line, err)
		}

		record, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func parseRow(row []string) (model.Record, error) {
	id, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return model.Record{}, fmt.Errorf("invalid id %q: %w", row[0], err)
	}

	var amounts [3]float64
	for i, col := range []int{2, 3, 5} {
		v, err := strconv.ParseFloat(row[col], 64)
		if err != nil {
			return model.Record{}, fmt.Errorf("invalid %s %q: %w", Columns[col], row[col], err)
		}
		amounts[i] = v
	}

	return model.Record{
		ID:       id,
		Name:     row[1],
		Quantity: amounts[0],
		Price:    amounts[1],
		Category: row[4],
		Value:    amounts[2],
	}, nil
}

func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
