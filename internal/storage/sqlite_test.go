package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ratewatch/ratewatch/internal/model"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store
}

func usdRate(buy, sale string) model.RawRate {
	return model.RawRate{Ccy: "USD", BaseCcy: "UAH", Buy: buy, Sale: sale}
}

// insertRateAt inserts a record with an explicit timestamp, standing in
// for history written on an earlier day.
func insertRateAt(t *testing.T, s *SQLiteStorage, rate model.RawRate, ts time.Time) {
	t.Helper()
	_, err := s.db.Exec(`
		INSERT INTO rate_records (ccy, base_ccy, buy, sale, timestamp)
		VALUES (?, ?, ?, ?, ?)
	`, rate.Ccy, rate.BaseCcy, rate.Buy, rate.Sale, ts)
	if err != nil {
		t.Fatalf("Failed to insert rate: %v", err)
	}
}

func TestSQLiteStorage_MigrateIsIdempotent(t *testing.T) {
	store := createTestStorage(t)

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("Second migrate failed: %v", err)
	}
}

func TestSQLiteStorage_RequiresPath(t *testing.T) {
	if _, err := NewSQLiteStorage(""); err == nil {
		t.Error("Expected error for empty path")
	}
}
