package codec

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ParseDecimal parses the JSON text of a number, or a numeric string, into an
// arbitrary-precision decimal without going through float64.
func ParseDecimal(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// FormatDecimal renders d as JSON number text.
func FormatDecimal(d decimal.Decimal) json.Number { return json.Number(d.String()) }
