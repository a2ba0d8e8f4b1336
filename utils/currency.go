// utils/currency.go
package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatINR renders an amount with Indian digit grouping, e.g. 1234567.5
// becomes "₹12,34,567.50".
func FormatINR(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-₹" + FormatAmount(amount.Abs())
	}
	return "₹" + FormatAmount(amount)
}

// FormatAmount is FormatINR without the currency sign, the text a
// "#,##,##0.00" spreadsheet cell displays.
func FormatAmount(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}
	whole, frac, _ := strings.Cut(amount.StringFixed(2), ".")
	return sign + groupIndian(whole) + "." + frac
}

// groupIndian puts the last three digits together and every two before that.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(append(parts, tail), ",")
}
