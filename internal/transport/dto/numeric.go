package dto

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// NumericInput keeps a numeric field exactly as the client sent it, so that a
// malformed value reaches validation instead of failing the JSON bind.
type NumericInput struct {
	Raw     string
	Present bool
}

// Numeric builds a NumericInput from a literal.
func Numeric(raw string) NumericInput {
	return NumericInput{Raw: raw, Present: true}
}

func (n *NumericInput) UnmarshalJSON(b []byte) error {
	n.Present = true
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		n.Raw = ""
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = unquoted
	}
	n.Raw = strings.TrimSpace(raw)
	return nil
}

// Blank reports a missing, null or empty value.
func (n NumericInput) Blank() bool {
	return n.Raw == ""
}

// Decimal parses the raw value.
func (n NumericInput) Decimal() (decimal.Decimal, error) {
	return decimal.NewFromString(n.Raw)
}
