package dashboard

import (
	"context"

	"github.com/ratewatch/ratewatch/internal/model"
)

// MockFetcher is a mock dashboard fetcher for testing.
type MockFetcher struct {
	// TotalAmountFn can be set by tests to control behavior.
	TotalAmountFn func(ctx context.Context, year, month *int) (model.DashboardTotal, error)

	// Call tracking
	TotalAmountCalls []TotalAmountCall
}

// TotalAmountCall records the parameters of a TotalAmount call.
type TotalAmountCall struct {
	Year  *int
	Month *int
}

// NewMockFetcher creates a new mock dashboard fetcher.
func NewMockFetcher() *MockFetcher {
	return &MockFetcher{
		TotalAmountCalls: []TotalAmountCall{},
	}
}

// TotalAmount implements service.DashboardFetcher.
func (m *MockFetcher) TotalAmount(ctx context.Context, year, month *int) (model.DashboardTotal, error) {
	m.TotalAmountCalls = append(m.TotalAmountCalls, TotalAmountCall{Year: year, Month: month})

	if m.TotalAmountFn != nil {
		return m.TotalAmountFn(ctx, year, month)
	}
	return model.DashboardTotal{}, nil
}

// MockAuth is a mock auth service for testing.
type MockAuth struct {
	// Functions that can be set by tests to control behavior.
	LoginFn   func(ctx context.Context, email, password string) (model.User, error)
	RefreshFn func(ctx context.Context) error

	// Call tracking
	LoginCalls   []LoginCall
	RefreshCalls int
	LogoutCalls  int
}

// LoginCall records the parameters of a Login call.
type LoginCall struct {
	Email    string
	Password string
}

// NewMockAuth creates a new mock auth service.
func NewMockAuth() *MockAuth {
	return &MockAuth{
		LoginCalls: []LoginCall{},
	}
}

// Login implements service.AuthService.
func (m *MockAuth) Login(ctx context.Context, email, password string) (model.User, error) {
	m.LoginCalls = append(m.LoginCalls, LoginCall{Email: email, Password: password})

	if m.LoginFn != nil {
		return m.LoginFn(ctx, email, password)
	}
	return model.User{}, nil
}

// Refresh implements service.AuthService.
func (m *MockAuth) Refresh(ctx context.Context) error {
	m.RefreshCalls++

	if m.RefreshFn != nil {
		return m.RefreshFn(ctx)
	}
	return nil
}

// Logout implements service.AuthService.
func (m *MockAuth) Logout() {
	m.LogoutCalls++
}
