package flow

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ratewatch/ratewatch/internal/common"
	"github.com/ratewatch/ratewatch/internal/credstore"
	"github.com/ratewatch/ratewatch/internal/dashboard"
	"github.com/ratewatch/ratewatch/internal/model"
	"github.com/ratewatch/ratewatch/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	creds   *credstore.FileStore
	cache   *storage.SQLiteStorage
	auth    *dashboard.MockAuth
	fetcher *dashboard.MockFetcher
	machine *Machine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()

	creds, err := credstore.NewFileStore(filepath.Join(dir, "credentials.json"))
	require.NoError(t, err)

	cache, err := storage.NewSQLiteStorage(filepath.Join(dir, "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	require.NoError(t, cache.Migrate(context.Background()))

	auth := dashboard.NewMockAuth()
	fetcher := dashboard.NewMockFetcher()

	return &fixture{
		creds:   creds,
		cache:   cache,
		auth:    auth,
		fetcher: fetcher,
		machine: NewMachine(creds, auth, fetcher, cache),
	}
}

func TestMachine_InitialStateIsLoading(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, PhaseLoading, f.machine.State().Phase)
}

func TestMachine_StartWithoutCredentials(t *testing.T) {
	f := newFixture(t)

	f.machine.Start(context.Background())

	assert.Equal(t, PhaseNeedsAuth, f.machine.State().Phase)
	assert.Empty(t, f.fetcher.TotalAmountCalls, "no fetch without a session")
}

func TestMachine_StartWithCredentialsAndCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.creds.SaveCredentials(model.Credentials{AccessToken: "T1", RefreshToken: "R1"})
	year, month := model.CurrentPeriod(time.Now())
	require.NoError(t, f.cache.UpsertDashboard(ctx, 500, year, month))

	// Gate the background fetch so the pre-network state is observable.
	release := make(chan struct{})
	f.fetcher.TotalAmountFn = func(context.Context, *int, *int) (model.DashboardTotal, error) {
		<-release
		return model.DashboardTotal{Amount: 900, Year: year, Month: month}, nil
	}

	f.machine.Start(ctx)

	// Before any network call resolves: Authenticated with the cached
	// value.
	state := f.machine.State()
	assert.Equal(t, PhaseAuthenticated, state.Phase)
	require.NotNil(t, state.Total)
	assert.Equal(t, 500.0, state.Total.Amount)

	close(release)
	f.machine.Wait()

	state = f.machine.State()
	assert.Equal(t, PhaseAuthenticated, state.Phase)
	require.NotNil(t, state.Total)
	assert.Equal(t, 900.0, state.Total.Amount, "background refresh replaces the cached value")
}

func TestMachine_StartWithCredentialsAndEmptyCache(t *testing.T) {
	f := newFixture(t)

	f.creds.SaveCredentials(model.Credentials{AccessToken: "T1", RefreshToken: "R1"})
	release := make(chan struct{})
	f.fetcher.TotalAmountFn = func(context.Context, *int, *int) (model.DashboardTotal, error) {
		<-release
		return model.DashboardTotal{}, common.ErrNetwork
	}

	f.machine.Start(context.Background())

	state := f.machine.State()
	assert.Equal(t, PhaseAuthenticated, state.Phase)
	assert.Nil(t, state.Total)

	close(release)
	f.machine.Wait()

	// Refresh failed and there is nothing to fall back to.
	state = f.machine.State()
	assert.Equal(t, PhaseError, state.Phase)
	assert.NotEmpty(t, state.Reason)
}

func TestMachine_LoginScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.auth.LoginFn = func(_ context.Context, email, _ string) (model.User, error) {
		f.creds.SaveCredentials(model.Credentials{
			AccessToken:  "T1",
			RefreshToken: "R1",
			UserID:       "1",
			UserEmail:    email,
		})
		return model.User{ID: "1", Email: email}, nil
	}
	f.fetcher.TotalAmountFn = func(context.Context, *int, *int) (model.DashboardTotal, error) {
		return model.DashboardTotal{Amount: 900, Year: 2024, Month: 5}, nil
	}

	f.machine.Start(ctx)
	require.Equal(t, PhaseNeedsAuth, f.machine.State().Phase)

	require.NoError(t, f.machine.Login(ctx, "a@b.com", "pw"))

	// Tokens persisted by the gateway.
	saved := f.creds.LoadCredentials()
	assert.Equal(t, "T1", saved.AccessToken)
	assert.Equal(t, "R1", saved.RefreshToken)

	// The observable sequence is Authenticated(nil) then the fetch
	// result.
	var observed []State
	for len(f.machine.Updates()) > 0 {
		observed = append(observed, <-f.machine.Updates())
	}
	require.GreaterOrEqual(t, len(observed), 2)
	first := observed[len(observed)-2]
	assert.Equal(t, PhaseAuthenticated, first.Phase)
	assert.Nil(t, first.Total, "state right after login carries no data yet")

	// The automatic fetch was triggered exactly once.
	require.Len(t, f.fetcher.TotalAmountCalls, 1)
	final := f.machine.State()
	require.NotNil(t, final.Total)
	assert.Equal(t, 900.0, final.Total.Amount)
}

func TestMachine_LoginFailureKeepsState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.machine.Start(ctx)
	f.auth.LoginFn = func(context.Context, string, string) (model.User, error) {
		return model.User{}, common.ErrUnauthorized
	}

	err := f.machine.Login(ctx, "a@b.com", "bad")

	assert.True(t, errors.Is(err, common.ErrUnauthorized))
	assert.Equal(t, PhaseNeedsAuth, f.machine.State().Phase)
	assert.Empty(t, f.fetcher.TotalAmountCalls)
}

func TestMachine_LoginRequiresEmailAndPassword(t *testing.T) {
	f := newFixture(t)

	err := f.machine.Login(context.Background(), "", "")

	require.Error(t, err)
	assert.Empty(t, f.auth.LoginCalls, "validation failure must not reach the gateway")
}

func TestMachine_UnauthorizedOverridesCachedData(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.creds.SaveCredentials(model.Credentials{AccessToken: "T1", RefreshToken: "R1"})
	year, month := model.CurrentPeriod(time.Now())
	require.NoError(t, f.cache.UpsertDashboard(ctx, 500, year, month))

	f.fetcher.TotalAmountFn = func(context.Context, *int, *int) (model.DashboardTotal, error) {
		return model.DashboardTotal{}, common.ErrUnauthorized
	}

	f.machine.Start(ctx)
	f.machine.Wait()

	// Cached data never outranks an Unauthorized result.
	assert.Equal(t, PhaseNeedsAuth, f.machine.State().Phase)
}

func TestMachine_RefreshFailureKeepsCachedData(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.creds.SaveCredentials(model.Credentials{AccessToken: "T1", RefreshToken: "R1"})
	year, month := model.CurrentPeriod(time.Now())
	require.NoError(t, f.cache.UpsertDashboard(ctx, 500, year, month))

	f.fetcher.TotalAmountFn = func(context.Context, *int, *int) (model.DashboardTotal, error) {
		return model.DashboardTotal{}, common.ErrNetwork
	}

	f.machine.Start(ctx)
	f.machine.Wait()

	// A refresh failure with data on screen must never downgrade to
	// Error.
	state := f.machine.State()
	assert.Equal(t, PhaseAuthenticated, state.Phase)
	require.NotNil(t, state.Total)
	assert.Equal(t, 500.0, state.Total.Amount)
}

func TestMachine_LogoutFromAnyState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.creds.SaveCredentials(model.Credentials{AccessToken: "T1", RefreshToken: "R1"})
	f.machine.Start(ctx)
	f.machine.Wait()

	f.machine.Logout()

	assert.Equal(t, PhaseNeedsAuth, f.machine.State().Phase)
	assert.Equal(t, 1, f.auth.LogoutCalls)
}
