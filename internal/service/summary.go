package service

import (
	"sort"

	"github.com/ivanoskov/warehouse/internal/model"
	"github.com/shopspring/decimal"
)

// CategoryStats - агрегаты по одной категории
type CategoryStats struct {
	Name     string  `json:"name"`
	Products int     `json:"products"`
	Quantity float64 `json:"quantity"`
	Value    float64 `json:"value"`
}

// Summary - агрегаты по всему складу
type Summary struct {
	Categories    []CategoryStats `json:"categories"`
	TotalProducts int             `json:"total_products"`
	TotalQuantity float64         `json:"total_quantity"`
	TotalValue    float64         `json:"total_value"`
}

// Summarize считает агрегаты по категориям, категории отсортированы по имени
func Summarize(records []model.Record) Summary {
	byName := make(map[string]*CategoryStats)
	totalValue := decimal.Zero
	values := make(map[string]decimal.Decimal)

	summary := Summary{Categories: []CategoryStats{}}
	for _, r := range records {
		stats, ok := byName[r.Category]
		if !ok {
			stats = &CategoryStats{Name: r.Category}
			byName[r.Category] = stats
		}
		stats.Products++
		stats.Quantity += r.Quantity

		v := decimal.NewFromFloat(r.Value)
		values[r.Category] = values[r.Category].Add(v)
		totalValue = totalValue.Add(v)

		summary.TotalProducts++
		summary.TotalQuantity += r.Quantity
	}

	for name, stats := range byName {
		stats.Value = values[name].Round(2).InexactFloat64()
		summary.Categories = append(summary.Categories, *stats)
	}
	sort.Slice(summary.Categories, func(i, j int) bool {
		return summary.Categories[i].Name < summary.Categories[j].Name
	})
	summary.TotalValue = totalValue.Round(2).InexactFloat64()

	return summary
}
