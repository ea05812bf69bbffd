package storage

import (
	"context"
	"testing"
	"time"

	"github.com/ratewatch/ratewatch/internal/model"
)

func countDashboardRecords(t *testing.T, s *SQLiteStorage, year, month int) int {
	t.Helper()
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM dashboard_records WHERE year = ? AND month = ?
	`, year, month).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to count records: %v", err)
	}
	return count
}

func TestUpsertDashboard_ReplacesExistingPeriod(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	if err := store.UpsertDashboard(ctx, 100, 2024, 5); err != nil {
		t.Fatalf("First upsert failed: %v", err)
	}
	if err := store.UpsertDashboard(ctx, 200, 2024, 5); err != nil {
		t.Fatalf("Second upsert failed: %v", err)
	}

	if count := countDashboardRecords(t, store, 2024, 5); count != 1 {
		t.Errorf("Expected exactly 1 record for the period, got %d", count)
	}

	year, month := 2024, 5
	total, err := store.LatestDashboard(ctx, &year, &month)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if total == nil {
		t.Fatal("Expected a cached total")
	}
	if total.Amount != 200 {
		t.Errorf("Expected amount 200 after upsert, got %v", total.Amount)
	}
}

func TestUpsertDashboard_PeriodsAreIndependent(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	if err := store.UpsertDashboard(ctx, 100, 2024, 4); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := store.UpsertDashboard(ctx, 200, 2024, 5); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	year := 2024
	for month, want := range map[int]float64{4: 100, 5: 200} {
		m := month
		total, err := store.LatestDashboard(ctx, &year, &m)
		if err != nil {
			t.Fatalf("Fetch failed: %v", err)
		}
		if total == nil || total.Amount != want {
			t.Errorf("Month %d: expected %v, got %+v", month, want, total)
		}
	}
}

func TestUpsertDashboard_RejectsOutOfRangeMonth(t *testing.T) {
	store := createTestStorage(t)

	if err := store.UpsertDashboard(context.Background(), 100, 2024, 12); err == nil {
		t.Error("Expected error for month 12 (months are zero-indexed)")
	}
}

func TestLatestDashboard_DefaultsToCurrentPeriod(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	year, month := model.CurrentPeriod(time.Now())
	if err := store.UpsertDashboard(ctx, 4242, year, month); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	total, err := store.LatestDashboard(ctx, nil, nil)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if total == nil {
		t.Fatal("Expected the current period record by default")
	}
	if total.Amount != 4242 || total.Year != year || total.Month != month {
		t.Errorf("Unexpected total: %+v", total)
	}
}

func TestLatestDashboard_EmptyCacheReturnsNil(t *testing.T) {
	store := createTestStorage(t)

	total, err := store.LatestDashboard(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if total != nil {
		t.Errorf("Expected nil for empty cache, got %+v", total)
	}
}
