// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/ratewatch/ratewatch/internal/model"
)

// CredentialStore is the shared session-token store. It is backed by
// durable storage visible to both the interactive and the background
// process; implementations must re-read the backing store on every call
// rather than caching in memory, because the other process may have
// written since. Store failures degrade to "absent", never to an error
// the caller must handle.
type CredentialStore interface {
	Put(key, value string)
	Get(key string) (string, bool)
	Remove(key string)
	Clear()
	IsAuthenticated() bool

	// SaveCredentials and LoadCredentials operate on the whole session.
	SaveCredentials(creds model.Credentials)
	LoadCredentials() model.Credentials
}

// Storage defines the contract for the local cache.
type Storage interface {
	// Rate history (append-only, deduped per calendar day).
	AppendRates(ctx context.Context, rates []model.RawRate) error
	Rates(ctx context.Context, ccy string) ([]model.RateRecord, error)

	// Dashboard snapshot (one record per year/month).
	UpsertDashboard(ctx context.Context, amount float64, year, month int) error
	LatestDashboard(ctx context.Context, year, month *int) (*model.DashboardTotal, error)

	Migrate(ctx context.Context) error
	Close() error
}

// RateSource fetches the public exchange rate list. No authentication is
// involved and every failure mode collapses into one generic error.
type RateSource interface {
	Fetch(ctx context.Context) ([]model.RawRate, error)
}

// DashboardFetcher fetches the authenticated dashboard total for an
// optional period; nil year/month default server-side to the current
// period. Implementations transparently repair a single expired-token
// failure via one refresh and one retried request.
type DashboardFetcher interface {
	TotalAmount(ctx context.Context, year, month *int) (model.DashboardTotal, error)
}

// AuthService is the credential lifecycle against the remote auth API.
type AuthService interface {
	Login(ctx context.Context, email, password string) (model.User, error)
	Refresh(ctx context.Context) error
	Logout()
}
