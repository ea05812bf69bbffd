// Package scheduler implements the background refresh tick. Each tick
// runs in a process that shares only durable storage with the interactive
// process, so it reconstructs all of its context from the credential
// store and the local cache and must always yield a renderable snapshot.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/ratewatch/ratewatch/internal/model"
	"github.com/ratewatch/ratewatch/internal/service"
	"golang.org/x/sync/errgroup"
)

// Snapshot is the renderable result of one tick. It is always populated
// as well as the durable stores allow: offline or unauthenticated ticks
// fall back to cached data rather than emitting nothing.
type Snapshot struct {
	ProducedAt time.Time
	Dashboard  *model.DashboardTotal
	TickID     string
	Rates      []model.RateRecord
}

// Scheduler composes the credential store, the cache, and the two fetch
// clients into a single idempotent tick.
type Scheduler struct {
	creds     service.CredentialStore
	cache     service.Storage
	dashboard service.DashboardFetcher
	rates     service.RateSource
}

// New creates a scheduler over explicitly constructed dependencies.
func New(creds service.CredentialStore, cache service.Storage, dashboard service.DashboardFetcher, rates service.RateSource) *Scheduler {
	return &Scheduler{
		creds:     creds,
		cache:     cache,
		dashboard: dashboard,
		rates:     rates,
	}
}

// Tick performs one self-contained refresh and returns a snapshot. It
// never returns an error: every failure degrades to whatever the cache
// holds. Ticks are idempotent; overlapping ticks from two schedules
// cannot corrupt state because the cache's dedup-append and
// delete-then-insert semantics absorb duplicate writes.
func (s *Scheduler) Tick(ctx context.Context) Snapshot {
	tickID := uuid.NewString()
	logger := slog.With("tick_id", tickID)
	logger.Debug("Tick started")

	var dashboardTotal *model.DashboardTotal

	// The two fetches are independent; run them concurrently. Neither
	// may fail the tick, so the group collects no errors.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		dashboardTotal = s.refreshDashboard(gctx, logger)
		return nil
	})

	g.Go(func() error {
		s.refreshRates(gctx, logger)
		return nil
	})

	_ = g.Wait()

	rateRecords, err := s.cache.Rates(ctx, "")
	if err != nil {
		// Rate display is best-effort, never fatal.
		logger.Warn("Failed to read rate history", "error", err)
		rateRecords = nil
	}

	snapshot := Snapshot{
		TickID:     tickID,
		Rates:      rateRecords,
		Dashboard:  dashboardTotal,
		ProducedAt: time.Now(),
	}
	logger.Debug("Tick finished",
		"rates", len(snapshot.Rates),
		"dashboard_cached", snapshot.Dashboard != nil)
	return snapshot
}

// refreshDashboard resolves the dashboard total for the snapshot:
// unauthenticated ticks read the cache only; authenticated ticks fetch and
// fall back to the cache on any failure, so a transient outage never
// empties the rendered surface.
func (s *Scheduler) refreshDashboard(ctx context.Context, logger *slog.Logger) *model.DashboardTotal {
	if !s.creds.IsAuthenticated() {
		logger.Debug("Not authenticated, serving cached dashboard")
		return s.cachedDashboard(ctx, logger)
	}

	total, err := s.dashboard.TotalAmount(ctx, nil, nil)
	if err != nil {
		logger.Warn("Dashboard fetch failed, falling back to cache", "error", err)
		return s.cachedDashboard(ctx, logger)
	}
	return &total
}

func (s *Scheduler) cachedDashboard(ctx context.Context, logger *slog.Logger) *model.DashboardTotal {
	total, err := s.cache.LatestDashboard(ctx, nil, nil)
	if err != nil {
		logger.Warn("Failed to read cached dashboard", "error", err)
		return nil
	}
	return total
}

// refreshRates fetches the public rate list and appends it to the
// history. Both steps are best-effort.
func (s *Scheduler) refreshRates(ctx context.Context, logger *slog.Logger) {
	rawRates, err := s.rates.Fetch(ctx)
	if err != nil {
		logger.Warn("Rate fetch failed", "error", err)
		return
	}
	if err := s.cache.AppendRates(ctx, rawRates); err != nil {
		logger.Warn("Failed to append rates", "error", err)
	}
}

// Run ticks immediately and then at the fixed interval until the context
// is canceled. Each snapshot is handed to render.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration, render func(Snapshot)) {
	render(s.Tick(ctx))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Scheduler stopped")
			return
		case <-ticker.C:
			render(s.Tick(ctx))
		}
	}
}
