// Package money provides a value object for monetary amounts.
//
// Invariants:
//   - Amount is always stored in the smallest currency unit (e.g., cents for USD).
//   - Currency code must be a structurally valid ISO 4217 code (3 uppercase letters).
//   - All arithmetic and comparisons require matching currencies.
package money

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/amirasaad/payflow/pkg/currency"
)

var (
	// ErrInvalidAmount is returned when an amount is NaN, infinite, or
	// otherwise not representable.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrAmountExceedsMaxSafeInt is returned when an amount overflows the
	// smallest-unit representation.
	ErrAmountExceedsMaxSafeInt = errors.New("amount exceeds maximum safe integer value")
	// ErrInvalidCurrency is returned for malformed currency codes.
	ErrInvalidCurrency = errors.New("invalid currency code")
	// ErrCurrencyMismatch is returned when operating on two amounts in
	// different currencies.
	ErrCurrencyMismatch = errors.New("currency mismatch")
)

// Money represents a monetary value in a specific currency.
type Money struct {
	amount   int64 // smallest currency unit
	currency currency.Code
	decimals int
}

// New converts a major-unit amount (e.g. 10.50 USD) into Money, rounding to
// the currency's smallest unit.
func New(amount float64, code currency.Code) (Money, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Money{}, ErrInvalidAmount
	}
	if !code.IsValidFormat() {
		return Money{}, ErrInvalidCurrency
	}
	decimals := currency.Decimals(code)
	scaled := amount * math.Pow10(decimals)
	if scaled > math.MaxInt64 || scaled < math.MinInt64 {
		return Money{}, ErrAmountExceedsMaxSafeInt
	}
	return Money{amount: int64(math.Round(scaled)), currency: code, decimals: decimals}, nil
}

// FromSmallestUnit builds Money directly from a smallest-unit amount.
func FromSmallestUnit(amount int64, code currency.Code) (Money, error) {
	if !code.IsValidFormat() {
		return Money{}, ErrInvalidCurrency
	}
	return Money{amount: amount, currency: code, decimals: currency.Decimals(code)}, nil
}

// Amount returns the value in the smallest currency unit.
func (m Money) Amount() int64 { return m.amount }

// Currency returns the currency code.
func (m Money) Currency() currency.Code { return m.currency }

// Float returns the value in major units (e.g. dollars for USD).
func (m Money) Float() float64 {
	return float64(m.amount) / math.Pow10(m.decimals)
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool { return m.amount > 0 }

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool { return m.amount == 0 }

// SameCurrency reports whether both amounts share a currency.
func (m Money) SameCurrency(other Money) bool { return m.currency == other.currency }

// Equals reports whether two amounts are identical in value and currency.
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount == other.amount
}

// Sub returns m − other in the smallest currency unit. Both operands must
// share a currency.
func (m Money) Sub(other Money) (int64, error) {
	if !m.SameCurrency(other) {
		return 0, ErrCurrencyMismatch
	}
	return m.amount - other.amount, nil
}

// GreaterThan reports whether m exceeds other.
func (m Money) GreaterThan(other Money) (bool, error) {
	if !m.SameCurrency(other) {
		return false, ErrCurrencyMismatch
	}
	return m.amount > other.amount, nil
}

// String renders the amount with its currency code, e.g. "150.00 USD".
func (m Money) String() string {
	return fmt.Sprintf("%.*f %s", m.decimals, m.Float(), m.currency)
}

// MarshalJSON implements json.Marshaler.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"amount":   m.amount,
		"currency": m.currency,
	})
}
