// Package format holds pure display helpers for rates and dashboard
// values. Nothing here touches the network or the cache.
package format

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RateValue rounds a decimal-as-text rate to two places for display.
// Unparseable input passes through unchanged.
func RateValue(value string) string {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return value
	}
	return d.StringFixed(2)
}

// Symbol maps a currency code to its display symbol, falling back to the
// code itself.
func Symbol(code string) string {
	switch code {
	case "EUR":
		return "€"
	case "UAH":
		return "₴"
	case "USD":
		return "$"
	default:
		return code
	}
}

// Month renders a zero-indexed month as its English name. Out-of-range
// input falls back to the one-indexed number.
func Month(month int) string {
	if month < 0 || month > 11 {
		return fmt.Sprintf("%d", month+1)
	}
	return time.Month(month + 1).String()
}

// Amount renders a dashboard amount, delivered in minor units (cents), as
// a currency string.
func Amount(cents float64, code string) string {
	units := cents / 100.0
	if units < 0 {
		units = -units
	}
	return fmt.Sprintf("%s%.2f", Symbol(code), units)
}

// Period renders a (year, zero-indexed month) pair, e.g. "June 2023".
func Period(year, month int) string {
	return fmt.Sprintf("%s %d", Month(month), year)
}
