// Package money holds the catalog price type.
package money

import "github.com/shopspring/decimal"

// Price is a decimal amount that is always encoded as a JSON number.
// Decoding accepts both numbers and quoted strings.
type Price struct {
	decimal.Decimal
}

func NewPrice(d decimal.Decimal) Price {
	return Price{Decimal: d}
}

// RequirePrice parses s and panics on failure. Meant for tests and constants.
func RequirePrice(s string) Price {
	return Price{Decimal: decimal.RequireFromString(s)}
}

func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(p.Decimal.String()), nil
}

func (p *Price) UnmarshalJSON(data []byte) error {
	return p.Decimal.UnmarshalJSON(data)
}
