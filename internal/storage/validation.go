package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ratewatch/ratewatch/internal/model"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrInvalidRate  = errors.New("invalid rate")
	ErrInvalidMonth = errors.New("month must be between 0 and 11")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateRate ensures a raw rate has its identifying pair set and that
// both values are decimal-encoded. Rejecting unparseable values here keeps
// the history comparable record-to-record for deduplication.
func validateRate(rate model.RawRate) error {
	if strings.TrimSpace(rate.Ccy) == "" {
		return fmt.Errorf("%w: missing ccy", ErrInvalidRate)
	}
	if strings.TrimSpace(rate.BaseCcy) == "" {
		return fmt.Errorf("%w: missing base_ccy", ErrInvalidRate)
	}
	if _, err := rate.BuyDecimal(); err != nil {
		return fmt.Errorf("%w: buy %q is not a decimal", ErrInvalidRate, rate.Buy)
	}
	if _, err := rate.SaleDecimal(); err != nil {
		return fmt.Errorf("%w: sale %q is not a decimal", ErrInvalidRate, rate.Sale)
	}
	return nil
}

// validateMonth ensures a zero-indexed month is in range.
func validateMonth(month int) error {
	if month < 0 || month > 11 {
		return fmt.Errorf("%w: got %d", ErrInvalidMonth, month)
	}
	return nil
}
