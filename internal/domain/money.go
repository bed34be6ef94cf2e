package domain

import (
	"fmt"
	"strings"

	"github.com/esuka/transfer-backend/internal/models"
	"github.com/shopspring/decimal"
)

// Money amounts are NUMERIC in the database and shopspring decimals in Go.
// All rounding is explicit: two decimal places, half away from zero.
const Scale = 2

// ParseAmount parses a client-supplied amount. Clients send either a JSON
// number or a string, so parsing happens on the string form. Anything that is
// not a finite positive number is rejected.
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, models.ErrInvalidAmount
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", models.ErrInvalidAmount, raw)
	}
	if d.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("%w: must be positive", models.ErrInvalidAmount)
	}
	return d, nil
}

// ConvertAmount applies an exchange rate to a sent amount and rounds to the
// settlement scale. decimal.Round rounds half away from zero, which is the
// documented behaviour for received amounts.
func ConvertAmount(sent, rate decimal.Decimal) decimal.Decimal {
	return sent.Mul(rate).Round(Scale)
}

// FormatAmount renders an amount with the settlement scale, e.g. "26200.00".
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(Scale)
}
