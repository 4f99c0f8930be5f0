package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$2,931.89", FormatMoney(2931.89))
	assert.Equal(t, "$12.99", FormatMoney(12.99))
	assert.Equal(t, "$0.00", FormatMoney(0))
	assert.Equal(t, "-$5.50", FormatMoney(-5.5))
	assert.Equal(t, "$1,234,567.00", FormatMoney(1234567))
}

func TestFormatCountAndPercent(t *testing.T) {
	assert.Equal(t, "6", FormatCount(6))
	assert.Equal(t, "12,345", FormatCount(12345))
	assert.Equal(t, "98.9%", FormatPercent(98.8876))
	assert.Equal(t, "60.0%", FormatPercent(60))
}

func TestFormatCell(t *testing.T) {
	tests := []struct {
		col      string
		value    interface{}
		expected string
	}{
		{"total_spent", 2931.89, "$2,931.89"},
		{"revenue_percentage", 85.71, "85.71"},
		{"order_count", int64(4), "4"},
		{"price", int64(30), "$30.00"},
		{"name", "Ervin Howell", "Ervin Howell"},
		{"city", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.col, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatCell(tt.col, tt.value))
		})
	}
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Who Are My Top Customers?", Title("who are my top customers?"))
}
