package services

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// FormValue is a raw form field. Clients send numbers either as JSON numbers
// or as the text typed into an input, so both are accepted and kept as text
// until validation decides what they mean.
type FormValue string

func (v *FormValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*v = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = FormValue(s)
		return nil
	}
	*v = FormValue(b)
	return nil
}

func (v FormValue) String() string {
	return strings.TrimSpace(string(v))
}

func (v FormValue) Decimal() (decimal.Decimal, bool) {
	s := v.String()
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// OrZero parses a non-negative amount; anything else becomes zero.
func (v FormValue) OrZero() decimal.Decimal {
	d, ok := v.Decimal()
	if !ok || d.IsNegative() {
		return decimal.Zero
	}
	return d
}
