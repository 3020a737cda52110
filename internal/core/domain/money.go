package domain

import (
	"github.com/shopspring/decimal"
)

// Money is an exact decimal monetary amount. It is never backed by a binary
// float; equality and comparison are exact with no tolerance.
//
// The embedded decimal provides String, JSON and database round-trips.
type Money struct {
	decimal.Decimal
}

// NewMoney wraps a decimal value as Money.
func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

// NewMoneyFromString parses a decimal string such as "100.00".
func NewMoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return Money{Decimal: d}, nil
}

// NewMoneyFromInt creates a Money from a whole number of currency units.
func NewMoneyFromInt(i int64) Money {
	return Money{Decimal: decimal.NewFromInt(i)}
}

// ZeroMoney returns the zero amount.
func ZeroMoney() Money {
	return Money{Decimal: decimal.Zero}
}

// Add returns m + o.
func (m Money) Add(o Money) Money {
	return Money{Decimal: m.Decimal.Add(o.Decimal)}
}

// Sub returns m - o.
func (m Money) Sub(o Money) Money {
	return Money{Decimal: m.Decimal.Sub(o.Decimal)}
}

// Neg returns -m.
func (m Money) Neg() Money {
	return Money{Decimal: m.Decimal.Neg()}
}

// Equal reports exact equality, so 1.5 and 1.50 are equal but 100.00 and
// 99.99 never compare equal within any epsilon.
func (m Money) Equal(o Money) bool {
	return m.Decimal.Equal(o.Decimal)
}

// Cmp returns -1, 0 or 1 comparing m against o.
func (m Money) Cmp(o Money) int {
	return m.Decimal.Cmp(o.Decimal)
}
