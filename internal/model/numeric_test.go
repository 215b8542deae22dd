package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeNumeric(t *testing.T) {
	testCases := []struct {
		name     string
		input    interface{}
		expected float64
	}{
		{name: "nil", input: nil, expected: -1},
		{name: "float64", input: 2.5, expected: 2.5},
		{name: "float32", input: float32(0.5), expected: 0.5},
		{name: "int", input: 7, expected: 7},
		{name: "int64", input: int64(100), expected: 100},
		{name: "uint8", input: uint8(3), expected: 3},
		{name: "json number", input: json.Number("12.75"), expected: 12.75},
		{name: "broken json number", input: json.Number("1.2.3"), expected: -1},
		{name: "numeric string", input: "0.5", expected: 0.5},
		{name: "numeric string with spaces", input: "  42 ", expected: 42},
		{name: "empty string", input: "", expected: -1},
		{name: "non numeric string", input: "abc", expected: -1},
		{name: "nan string", input: "NaN", expected: -1},
		{name: "inf float", input: math.Inf(1), expected: -1},
		{name: "bool", input: true, expected: -1},
		{name: "map", input: map[string]interface{}{"a": 1}, expected: -1},
		{name: "slice", input: []int{1}, expected: -1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Equal(t, tc.expected, SafeNumeric(tc.input, -1))
			})
		})
	}
}
