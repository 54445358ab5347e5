package domain

import (
	"fmt"
	"reflect"

	"github.com/shopspring/decimal"

	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/pkg/validator"
)

func init() {
	// Lets `validate:"gte=0"` work on Money fields.
	validator.RegisterCustomTypeFunc(func(v reflect.Value) any {
		if m, ok := v.Interface().(Money); ok {
			return m.amount.InexactFloat64()
		}
		return nil
	}, Money{})
}

// Money is an exact decimal currency amount. The zero value is 0.
//
// On the wire it is a plain JSON number (19.99) so persisted records keep the
// catalog's shape; quoted strings are accepted when decoding.
type Money struct {
	amount decimal.Decimal
}

// NewMoney wraps a decimal amount.
func NewMoney(d decimal.Decimal) Money {
	return Money{amount: d}
}

// ParseMoney parses a decimal literal such as "19.99".
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("parse money %q: %w", s, err)
	}
	return Money{amount: d}, nil
}

// MustParseMoney is like ParseMoney but panics on malformed input.
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Add returns m + o.
func (m Money) Add(o Money) Money {
	return Money{amount: m.amount.Add(o.amount)}
}

// Times returns m multiplied by a quantity.
func (m Money) Times(qty int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(qty)))}
}

// IsNegative reports whether m < 0.
func (m Money) IsNegative() bool { return m.amount.IsNegative() }

// IsZero reports whether m == 0.
func (m Money) IsZero() bool { return m.amount.IsZero() }

// Equal compares amounts numerically, so 10 equals 10.00.
func (m Money) Equal(o Money) bool { return m.amount.Equal(o.amount) }

// Decimal exposes the underlying exact amount.
func (m Money) Decimal() decimal.Decimal { return m.amount }

// String renders the amount rounded half-up to two decimal places.
func (m Money) String() string { return m.amount.StringFixed(2) }

// MarshalJSON emits the exact amount as an unquoted JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.amount.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("decode money: %w", err)
	}
	m.amount = d
	return nil
}
