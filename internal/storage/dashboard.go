package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ratewatch/ratewatch/internal/model"
)

// UpsertDashboard stores the dashboard total for a period, replacing any
// existing records for the same (year, month). The delete and the insert
// commit together, so a concurrent reader in the other process sees either
// the old record or the new one, never both and never neither.
func (s *SQLiteStorage) UpsertDashboard(ctx context.Context, amount float64, year, month int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateMonth(month); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM dashboard_records WHERE year = ? AND month = ?
	`, year, month); err != nil {
		return fmt.Errorf("failed to delete existing dashboard records: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO dashboard_records (amount, year, month, last_updated)
		VALUES (?, ?, ?, ?)
	`, amount, year, month, time.Now()); err != nil {
		return fmt.Errorf("failed to insert dashboard record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit dashboard upsert: %w", err)
	}
	return nil
}

// LatestDashboard returns the most recently updated cached total for a
// period. Nil year/month default to the current calendar year and the
// current zero-indexed month. Returns nil when nothing is cached.
func (s *SQLiteStorage) LatestDashboard(ctx context.Context, year, month *int) (*model.DashboardTotal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	fetchYear, fetchMonth := model.CurrentPeriod(time.Now())
	if year != nil {
		fetchYear = *year
	}
	if month != nil {
		fetchMonth = *month
	}

	var record model.DashboardRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT id, amount, year, month, last_updated
		FROM dashboard_records
		WHERE year = ? AND month = ?
		ORDER BY last_updated DESC
		LIMIT 1
	`, fetchYear, fetchMonth).Scan(&record.ID, &record.Amount,
		&record.Year, &record.Month, &record.LastUpdated)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query dashboard record: %w", err)
	}

	total := record.Total()
	return &total, nil
}
