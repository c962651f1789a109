// Package money parses and formats the decimal amounts handled by the register.
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidNumber       = errors.New("not a valid number")
	ErrInvalidExchangeRate = errors.New("exchange rate must be a positive amount with at most two decimals")
)

// CurrencySymbol prefixes amounts on printed tickets.
const CurrencySymbol = "$"

// QuantityPlaces is the precision kept for line quantities, matching the
// ticket_items.quantity column.
const QuantityPlaces = 3

// ParseQuantity reads a user-typed quantity. Surrounding whitespace is
// ignored and a comma decimal separator is accepted. The result is rounded
// to QuantityPlaces but not clamped; callers decide what to do with zero or
// negative values.
func ParseQuantity(input string) (decimal.Decimal, error) {
	d, err := parseNumber(input)
	if err != nil {
		return decimal.Zero, err
	}
	return d.Round(QuantityPlaces), nil
}

// ParseAmount reads a tender or price amount with the same rules as
// ParseQuantity, without rounding.
func ParseAmount(input string) (decimal.Decimal, error) {
	return parseNumber(input)
}

func parseNumber(input string) (decimal.Decimal, error) {
	s := strings.TrimSpace(input)
	s = strings.Replace(s, ",", ".", 1)
	if s == "" {
		return decimal.Zero, ErrInvalidNumber
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidNumber
	}
	return d, nil
}

// FormatCurrency renders an amount with two decimals and no grouping.
func FormatCurrency(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// Display renders an amount with the currency symbol, e.g. "$12.50".
func Display(amount decimal.Decimal) string {
	return CurrencySymbol + FormatCurrency(amount)
}

// ParseExchangeRate validates a rate typed by the user. The value must be
// positive and survive formatting to two decimals unchanged.
func ParseExchangeRate(input string) (decimal.Decimal, error) {
	rate, err := parseNumber(input)
	if err != nil {
		return decimal.Zero, ErrInvalidExchangeRate
	}
	if !rate.IsPositive() {
		return decimal.Zero, ErrInvalidExchangeRate
	}

	reparsed, err := decimal.NewFromString(FormatCurrency(rate))
	if err != nil || !reparsed.Equal(rate) {
		return decimal.Zero, ErrInvalidExchangeRate
	}
	return reparsed, nil
}

// ToLocal converts a foreign currency amount into local currency.
func ToLocal(foreign, rate decimal.Decimal) decimal.Decimal {
	return foreign.Mul(rate)
}

// ToForeign converts a local amount into foreign currency rounded to cents.
// A non-positive rate yields zero.
func ToForeign(local, rate decimal.Decimal) decimal.Decimal {
	if !rate.IsPositive() {
		return decimal.Zero
	}
	return local.DivRound(rate, 2)
}
