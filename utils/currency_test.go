package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatINR(t *testing.T) {
	cases := map[string]string{
		"0":         "₹0.00",
		"999":       "₹999.00",
		"1000":      "₹1,000.00",
		"4150":      "₹4,150.00",
		"123456":    "₹1,23,456.00",
		"1234567.5": "₹12,34,567.50",
		"10000000":  "₹1,00,00,000.00",
		"-2500":     "-₹2,500.00",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatINR(decimal.RequireFromString(in)), in)
	}
}

func TestFormatAmount_NoSymbol(t *testing.T) {
	assert.Equal(t, "1,23,456.00", FormatAmount(decimal.NewFromInt(123456)))
	assert.Equal(t, "-0.50", FormatAmount(decimal.RequireFromString("-0.5")))
}
