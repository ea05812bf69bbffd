// Package model defines the domain types shared across the application.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawRate is a single quote as delivered by the public exchange feed.
// Buy and sale values arrive as decimal-encoded strings and are kept that
// way until a consumer needs arithmetic on them.
type RawRate struct {
	Ccy     string `json:"ccy"`
	BaseCcy string `json:"base_ccy"`
	Buy     string `json:"buy"`
	Sale    string `json:"sale"`
}

// BuyDecimal parses the buy value.
func (r RawRate) BuyDecimal() (decimal.Decimal, error) {
	return decimal.NewFromString(r.Buy)
}

// SaleDecimal parses the sale value.
func (r RawRate) SaleDecimal() (decimal.Decimal, error) {
	return decimal.NewFromString(r.Sale)
}

// RateRecord is a persisted quote in the append-only rate history.
type RateRecord struct {
	Timestamp time.Time
	Ccy       string
	BaseCcy   string
	Buy       string
	Sale      string
	ID        int64
}

// SameDaySameValue reports whether a freshly fetched rate would duplicate
// this record: same calendar day (local time) and numerically identical
// buy and sale values. Values are compared as decimals so that formatting
// drift in the feed ("37.50" vs "37.5") does not defeat deduplication.
// Unparseable values fall back to exact string comparison.
func (r RateRecord) SameDaySameValue(raw RawRate, now time.Time) bool {
	ry, rm, rd := r.Timestamp.Date()
	ny, nm, nd := now.Date()
	if ry != ny || rm != nm || rd != nd {
		return false
	}
	return equalDecimal(r.Buy, raw.Buy) && equalDecimal(r.Sale, raw.Sale)
}

func equalDecimal(a, b string) bool {
	da, errA := decimal.NewFromString(a)
	db, errB := decimal.NewFromString(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return da.Equal(db)
}
