package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Cents is a USD amount in integer cents. All ledger arithmetic happens in
// this unit; decimal is only used when converting from local currency.
type Cents int64

var ErrInvalidRate = errors.New("exchange rate must be greater than zero")

func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// CentsFromDecimal rounds half away from zero to two places.
func CentsFromDecimal(d decimal.Decimal) Cents {
	return Cents(d.Round(2).Shift(2).IntPart())
}

func ParseCents(s string) (Cents, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return CentsFromDecimal(d), nil
}

// ConvertToUSD divides a local-currency amount by the rate, rounding to cents.
func ConvertToUSD(local, rate decimal.Decimal) (Cents, error) {
	if !rate.IsPositive() {
		return 0, ErrInvalidRate
	}
	return CentsFromDecimal(local.DivRound(rate, 2)), nil
}

func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalJSON accepts both JSON numbers and quoted decimal strings.
func (c *Cents) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = s
	}
	v, err := ParseCents(raw)
	if err != nil {
		return err
	}
	*c = v
	return nil
}
