package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Precision is the number of fractional digits every stored or returned
// amount carries. Intermediate arithmetic keeps full precision; only the
// externally visible result is rounded.
const Precision = 2

// ErrInvalidAmount occurs when an untrusted input cannot be parsed into a
// valid monetary amount.
var ErrInvalidAmount = errors.New("invalid amount")

// Money is an exact decimal monetary amount. The zero value is 0.00 and
// ready to use.
type Money struct {
	value decimal.Decimal
}

// Zero returns a zero amount.
func Zero() Money {
	return Money{}
}

// FromDecimal wraps a raw decimal without normalizing it.
func FromDecimal(d decimal.Decimal) Money {
	return Money{value: d}
}

// Parse converts a textual amount into Money. The result is normalized.
// Non-numeric input fails with ErrInvalidAmount.
func Parse(raw string) (Money, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	return Money{value: d}.Normalize(), nil
}

// ParsePositive parses a textual amount that must be strictly positive after
// normalization. Zero, negative and non-numeric inputs are rejected, never
// clamped.
func ParsePositive(raw string) (Money, error) {
	m, err := Parse(raw)
	if err != nil {
		return Money{}, err
	}
	if !m.IsPositive() {
		return Money{}, fmt.Errorf("%w: amount must be positive, got %q", ErrInvalidAmount, raw)
	}
	return m, nil
}

// Normalize rounds the amount to the contractual precision using round
// half-up (amounts in this system are never negative, so rounding half away
// from zero is half-up). Normalize is idempotent.
func (m Money) Normalize() Money {
	return Money{value: m.value.Round(Precision)}
}

// Add returns m + o at full precision.
func (m Money) Add(o Money) Money {
	return Money{value: m.value.Add(o.value)}
}

// Sub returns m - o at full precision.
func (m Money) Sub(o Money) Money {
	return Money{value: m.value.Sub(o.value)}
}

// MulRate multiplies the amount by an exchange rate at full precision. The
// caller normalizes the final result.
func (m Money) MulRate(rate Money) Money {
	return Money{value: m.value.Mul(rate.value)}
}

// Cmp compares two amounts exactly: -1 if m < o, 0 if equal, 1 if m > o.
func (m Money) Cmp(o Money) int {
	return m.value.Cmp(o.value)
}

// Equal reports whether two amounts are exactly equal.
func (m Money) Equal(o Money) bool {
	return m.value.Equal(o.value)
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m.value.IsPositive()
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.value.IsZero()
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.value.IsNegative()
}

// String renders the amount with the contractual two fractional digits.
func (m Money) String() string {
	return m.value.StringFixed(Precision)
}

// Decimal exposes the underlying decimal value.
func (m Money) Decimal() decimal.Decimal {
	return m.value
}

// MustParse is a test helper that panics on invalid input.
func MustParse(raw string) Money {
	m, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return m
}
