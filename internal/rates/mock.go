package rates

import (
	"context"

	"github.com/ratewatch/ratewatch/internal/model"
)

// MockClient is a mock rate source for testing.
type MockClient struct {
	// FetchFn can be set by tests to control behavior.
	FetchFn func(ctx context.Context) ([]model.RawRate, error)

	// Call tracking
	FetchCalls int
}

// NewMockClient creates a new mock rate source.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Fetch implements service.RateSource.
func (m *MockClient) Fetch(ctx context.Context) ([]model.RawRate, error) {
	m.FetchCalls++

	if m.FetchFn != nil {
		return m.FetchFn(ctx)
	}
	return []model.RawRate{}, nil
}
