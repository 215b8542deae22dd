package service

import (
	"testing"

	"github.com/ivanoskov/warehouse/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	records := []model.Record{
		{ID: 1, Name: "Saw", Quantity: 2, Price: 10, Category: "Tools", Value: 20},
		{ID: 2, Name: "Bolt", Quantity: 100, Price: 0.5, Category: "Hardware", Value: 50},
		{ID: 3, Name: "Nut", Quantity: 3, Price: 0.1, Category: "Hardware", Value: 0.30000000000000004},
		{ID: 4, Name: "Tape", Quantity: 1, Price: 2, Category: "None", Value: 2},
	}

	summary := Summarize(records)

	require.Len(t, summary.Categories, 3)
	assert.Equal(t, []CategoryStats{
		{Name: "Hardware", Products: 2, Quantity: 103, Value: 50.3},
		{Name: "None", Products: 1, Quantity: 1, Value: 2},
		{Name: "Tools", Products: 1, Quantity: 2, Value: 20},
	}, summary.Categories)
	assert.Equal(t, 4, summary.TotalProducts)
	assert.Equal(t, 106.0, summary.TotalQuantity)
	assert.Equal(t, 72.3, summary.TotalValue)
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)

	assert.NotNil(t, summary.Categories)
	assert.Empty(t, summary.Categories)
	assert.Zero(t, summary.TotalProducts)
	assert.Zero(t, summary.TotalValue)
}
