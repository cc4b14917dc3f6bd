// Package money implements exact two-decimal currency amounts. Amount is a
// small value wrapper around shopspring/decimal; its zero value is 0.00 and
// ready to use.
package money

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

type Amount struct {
	d decimal.Decimal
}

func Zero() Amount {
	return Amount{}
}

// Parse reads a decimal string with at most two fractional digits.
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("Parse: %q is not a valid amount", s)
	}
	if d.Exponent() < -2 {
		return Amount{}, fmt.Errorf("Parse: %q has more than two decimal places", s)
	}
	return Amount{d: d}, nil
}

// MustParse is Parse for literals in tests and fixtures.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// FromDecimal converts an arbitrary decimal to an amount, banker's-rounded
// to two places.
func FromDecimal(d decimal.Decimal) Amount {
	return Amount{d: d.RoundBank(2)}
}

// Cents builds an amount from a count of hundredths.
func Cents(n int64) Amount {
	return Amount{d: decimal.New(n, -2)}
}

func (a Amount) Add(b Amount) Amount { return Amount{d: a.d.Add(b.d)} }
func (a Amount) Sub(b Amount) Amount { return Amount{d: a.d.Sub(b.d)} }
func (a Amount) Neg() Amount         { return Amount{d: a.d.Neg()} }

func (a Amount) IsZero() bool     { return a.d.IsZero() }
func (a Amount) IsNegative() bool { return a.d.IsNegative() }
func (a Amount) Sign() int        { return a.d.Sign() }

func (a Amount) Equal(b Amount) bool { return a.d.Equal(b.d) }
func (a Amount) Cmp(b Amount) int    { return a.d.Cmp(b.d) }

// Decimal returns the underlying decimal value.
func (a Amount) Decimal() decimal.Decimal {
	return a.d
}

func (a Amount) String() string {
	return a.d.StringFixed(2)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("UnmarshalJSON: %w", err)
	}
	parsed, err := Parse(s)
	if err != nil {
		return fmt.Errorf("UnmarshalJSON: %w", err)
	}
	*a = parsed
	return nil
}

// Scan implements sql.Scanner for NUMERIC columns.
func (a *Amount) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*a = Amount{}
		return nil
	case []byte:
		d, err := decimal.NewFromString(string(v))
		if err != nil {
			return fmt.Errorf("Scan: %w", err)
		}
		*a = Amount{d: d}
		return nil
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return fmt.Errorf("Scan: %w", err)
		}
		*a = Amount{d: d}
		return nil
	case int64:
		*a = Amount{d: decimal.NewFromInt(v)}
		return nil
	case float64:
		*a = FromDecimal(decimal.NewFromFloat(v))
		return nil
	default:
		return fmt.Errorf("Scan: cannot scan %T into Amount", value)
	}
}

// Value implements driver.Valuer; amounts travel as fixed two-decimal
// strings.
func (a Amount) Value() (driver.Value, error) {
	return a.String(), nil
}
