package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Money is the unified amount type, kept at 2 decimal places.
type Money struct {
	decimal.Decimal
}

// NewMoneyFromDecimal creates an amount from a decimal.
func NewMoneyFromDecimal(amount decimal.Decimal) Money {
	return Money{Decimal: amount.Round(2)}
}

// NewMoneyFromFloat creates an amount from a float (storage reads).
func NewMoneyFromFloat(amount float64) Money {
	return Money{Decimal: decimal.NewFromFloat(amount).Round(2)}
}

// NewMoneyFromInt creates an amount from whole units.
func NewMoneyFromInt(amount int64) Money {
	return Money{Decimal: decimal.NewFromInt(amount)}
}

// MarshalJSON renders the amount as a fixed 2-decimal string.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Decimal.Round(2).StringFixed(2))
}

// UnmarshalJSON parses an amount from a string or number.
func (m *Money) UnmarshalJSON(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return err
		}
		m.Decimal = d.Round(2)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	m.Decimal = decimal.NewFromFloat(f).Round(2)
	return nil
}

// Float returns the amount as a float64 for storage writes.
func (m Money) Float() float64 {
	f, _ := m.Decimal.Round(2).Float64()
	return f
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return NewMoneyFromDecimal(m.Decimal.Add(other.Decimal))
}

// MulInt returns the amount multiplied by a whole quantity.
func (m Money) MulInt(n int64) Money {
	return NewMoneyFromDecimal(m.Decimal.Mul(decimal.NewFromInt(n)))
}

// String returns the fixed 2-decimal representation.
func (m Money) String() string {
	return m.Decimal.Round(2).StringFixed(2)
}
