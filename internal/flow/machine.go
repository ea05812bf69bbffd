// Package flow implements the foreground synchronization state machine
// that the interactive surface observes.
package flow

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/ratewatch/ratewatch/internal/common"
	"github.com/ratewatch/ratewatch/internal/model"
	"github.com/ratewatch/ratewatch/internal/service"
)

// Phase is the coarse position in the sync lifecycle.
type Phase int

const (
	// PhaseLoading is the initial phase before the stored session has
	// been examined.
	PhaseLoading Phase = iota
	// PhaseNeedsAuth means no usable session exists; the surface should
	// offer login.
	PhaseNeedsAuth
	// PhaseAuthenticated means a session exists; Total carries the most
	// recent dashboard value, cached or fresh, possibly nil.
	PhaseAuthenticated
	// PhaseError means a fetch failed and no fallback data exists.
	PhaseError
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseNeedsAuth:
		return "needs-auth"
	case PhaseAuthenticated:
		return "authenticated"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// State is one observable position of the machine.
type State struct {
	Total  *model.DashboardTotal
	Reason string
	Phase  Phase
}

// Machine drives interactive login, refresh, and logout over the auth
// gateway, the dashboard client, and the local cache. Transitions are
// serialized under a mutex and published in order on a single updates
// channel, so observers see a consistent sequence. Error states are
// reserved for the no-fallback case: a refresh failure while cached data
// is on screen keeps the cached data.
type Machine struct {
	creds     service.CredentialStore
	auth      service.AuthService
	dashboard service.DashboardFetcher
	cache     service.Storage
	updates   chan State

	mu    sync.Mutex
	state State

	background sync.WaitGroup
}

// NewMachine creates a state machine over explicitly constructed
// dependencies. The initial phase is Loading until Start is called.
func NewMachine(creds service.CredentialStore, auth service.AuthService, dashboard service.DashboardFetcher, cache service.Storage) *Machine {
	return &Machine{
		creds:     creds,
		auth:      auth,
		dashboard: dashboard,
		cache:     cache,
		updates:   make(chan State, 16),
		state:     State{Phase: PhaseLoading},
	}
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Updates returns the ordered stream of state transitions. The channel
// is buffered; a slow observer loses the oldest updates, never the
// machine's own progress.
func (m *Machine) Updates() <-chan State {
	return m.updates
}

// Start examines the stored session. With a usable session the machine
// enters Authenticated immediately, carrying whatever the cache holds,
// and triggers a refresh in the background; otherwise it enters
// NeedsAuth. Start returns before any network call resolves.
func (m *Machine) Start(ctx context.Context) {
	if !m.creds.IsAuthenticated() {
		m.setState(State{Phase: PhaseNeedsAuth})
		return
	}

	cached, err := m.cache.LatestDashboard(ctx, nil, nil)
	if err != nil {
		slog.Warn("Failed to read cached dashboard", "error", err)
		cached = nil
	}
	m.setState(State{Phase: PhaseAuthenticated, Total: cached})

	m.background.Add(1)
	go func() {
		defer m.background.Done()
		m.FetchDashboardData(ctx)
	}()
}

// Wait blocks until background refreshes triggered by Start have
// finished.
func (m *Machine) Wait() {
	m.background.Wait()
}

// Login authenticates and, on success, enters Authenticated with no data
// yet and triggers the first fetch. A failed login leaves the state
// unchanged and returns the error for the surface to display.
func (m *Machine) Login(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return common.NewUserError("email and password are required", nil)
	}

	user, err := m.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}

	slog.Info("Login succeeded", "user_id", user.ID)
	m.setState(State{Phase: PhaseAuthenticated})
	m.FetchDashboardData(ctx)
	return nil
}

// Logout clears the session from any state.
func (m *Machine) Logout() {
	m.auth.Logout()
	m.setState(State{Phase: PhaseNeedsAuth})
}

// FetchDashboardData refreshes the dashboard total for the current
// period. Unauthorized always forces NeedsAuth, overriding cached data.
// Any other failure keeps cached data on screen when there is any;
// Error appears only when no fallback exists.
func (m *Machine) FetchDashboardData(ctx context.Context) {
	year, month := model.CurrentPeriod(time.Now())

	total, err := m.dashboard.TotalAmount(ctx, &year, &month)
	if err == nil {
		m.setState(State{Phase: PhaseAuthenticated, Total: &total})
		return
	}

	if errors.Is(err, common.ErrUnauthorized) {
		m.setState(State{Phase: PhaseNeedsAuth})
		return
	}

	m.mu.Lock()
	hasFallback := m.state.Phase == PhaseAuthenticated && m.state.Total != nil
	m.mu.Unlock()

	if hasFallback {
		slog.Warn("Dashboard refresh failed, keeping cached data", "error", err)
		return
	}
	m.setState(State{Phase: PhaseError, Reason: err.Error()})
}

func (m *Machine) setState(next State) {
	m.mu.Lock()
	m.state = next
	m.mu.Unlock()

	select {
	case m.updates <- next:
	default:
		// Observer is behind; drop the oldest update to keep moving.
		select {
		case <-m.updates:
		default:
		}
		select {
		case m.updates <- next:
		default:
		}
	}
}
