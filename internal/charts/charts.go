package charts

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/ivanoskov/warehouse/internal/service"
	"github.com/wcharczuk/go-chart/v2"
)

// Виды графиков
const (
	KindValue    = "value"
	KindQuantity = "quantity"
)

// ErrNoData - ни у одной категории нет положительного значения
var ErrNoData = errors.New("no data to chart")

// ChartGenerator генерирует графики по агрегатам склада
type ChartGenerator struct{}

// NewChartGenerator создает новый генератор графиков
func NewChartGenerator() *ChartGenerator {
	return &ChartGenerator{}
}

// Generate выбирает график по виду
func (g *ChartGenerator) Generate(kind string, summary service.Summary) ([]byte, error) {
	switch kind {
	case KindValue:
		return g.GenerateValuePie(summary)
	case KindQuantity:
		return g.GenerateQuantityBar(summary)
	default:
		return nil, fmt.Errorf("unknown chart kind %q", kind)
	}
}

// GenerateValuePie создает круговую диаграмму стоимости по категориям
func (g *ChartGenerator) GenerateValuePie(summary service.Summary) ([]byte, error) {
	total := 0.0
	for _, cat := range summary.Categories {
		if cat.Value > 0 {
			total += cat.Value
		}
	}
	if total == 0 {
		return nil, ErrNoData
	}

	values := make([]chart.Value, 0, len(summary.Categories))
	for _, cat := range summary.Categories {
		if cat.Value <= 0 {
			continue
		}
		percentage := (cat.Value / total) * 100
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s: %s (%.1f%%)", cat.Name, humanize.CommafWithDigits(cat.Value, 2), percentage),
			Value: cat.Value,
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		})
	}

	pie := chart.PieChart{
		Title:  "Stock value by category",
		Width:  800,
		Height: 800,
		Values: values,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   50,
				Right:  50,
				Bottom: 50,
			},
			FillColor: chart.ColorWhite,
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := pie.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render value pie chart: %w", err)
	}

	return buffer.Bytes(), nil
}

// GenerateQuantityBar создает столбчатую диаграмму количества по категориям
func (g *ChartGenerator) GenerateQuantityBar(summary service.Summary) ([]byte, error) {
	bars := make([]chart.Value, 0, len(summary.Categories))
	maxQuantity := 0.0
	for _, cat := range summary.Categories {
		if cat.Quantity <= 0 {
			continue
		}
		if cat.Quantity > maxQuantity {
			maxQuantity = cat.Quantity
		}
		bars = append(bars, chart.Value{
			Label: cat.Name,
			Value: cat.Quantity,
			Style: chart.Style{
				StrokeColor: chart.ColorBlue,
				FillColor:   chart.ColorBlue.WithAlpha(100),
				FontSize:    12,
				FontColor:   chart.ColorBlack,
			},
		})
	}
	if len(bars) == 0 {
		return nil, ErrNoData
	}

	graph := chart.BarChart{
		Title: "Quantity by category",
		TitleStyle: chart.Style{
			FontSize:  14,
			FontColor: chart.ColorBlack,
		},
		Width:    1200,
		Height:   600,
		BarWidth: 60,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   50,
				Right:  50,
				Bottom: 50,
			},
			FillColor: chart.ColorWhite,
		},
		YAxis: chart.YAxis{
			// без явного диапазона go-chart не строит график из одного столбца
			Range: &chart.ContinuousRange{Min: 0, Max: maxQuantity * 1.1},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return humanize.Commaf(f)
				}
				return ""
			},
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render quantity bar chart: %w", err)
	}

	return buffer.Bytes(), nil
}
