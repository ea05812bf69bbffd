package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ratewatch/ratewatch/internal/model"
)

// AppendRates appends a batch of freshly fetched rates to the history.
// For each (ccy, base_ccy) pair the newest existing record is consulted:
// when it carries the same calendar day and identical buy/sale values the
// pair is skipped, otherwise a new timestamped record is inserted. All
// inserts for the batch commit in one transaction. A lookup failure for a
// single pair is logged and that pair skipped; it does not abort the batch.
func (s *SQLiteStorage) AppendRates(ctx context.Context, rates []model.RawRate) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if len(rates) == 0 {
		return nil
	}

	now := time.Now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO rate_records (ccy, base_ccy, buy, sale, timestamp)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	inserted := 0
	for _, rate := range rates {
		if err := validateRate(rate); err != nil {
			slog.Warn("Skipping malformed rate", "ccy", rate.Ccy, "base_ccy", rate.BaseCcy, "error", err)
			continue
		}

		previous, err := s.newestRateTx(ctx, tx, rate.Ccy, rate.BaseCcy)
		if err != nil {
			// Best effort per pair: the rest of the batch still commits.
			slog.Warn("Failed to fetch previous rate, skipping pair",
				"ccy", rate.Ccy, "base_ccy", rate.BaseCcy, "error", err)
			continue
		}

		if previous != nil && previous.SameDaySameValue(rate, now) {
			slog.Debug("Same day and rate unchanged, skipping",
				"ccy", rate.Ccy, "base_ccy", rate.BaseCcy)
			continue
		}

		if _, err := stmt.ExecContext(ctx, rate.Ccy, rate.BaseCcy, rate.Buy, rate.Sale, now); err != nil {
			return fmt.Errorf("failed to insert rate %s/%s: %w", rate.Ccy, rate.BaseCcy, err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rates: %w", err)
	}

	slog.Debug("Appended rates", "fetched", len(rates), "inserted", inserted)
	return nil
}

// Rates returns the rate history, newest first. An empty ccy returns all
// pairs.
func (s *SQLiteStorage) Rates(ctx context.Context, ccy string) ([]model.RateRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, ccy, base_ccy, buy, sale, timestamp
		FROM rate_records
	`
	var args []any
	if ccy != "" {
		query += ` WHERE ccy = ?`
		args = append(args, ccy)
	}
	query += ` ORDER BY timestamp DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.RateRecord
	for rows.Next() {
		var record model.RateRecord
		if err := rows.Scan(&record.ID, &record.Ccy, &record.BaseCcy,
			&record.Buy, &record.Sale, &record.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan rate: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rates: %w", err)
	}

	return records, nil
}

// newestRateTx returns the most recent record for a pair, or nil when the
// pair has no history yet.
func (s *SQLiteStorage) newestRateTx(ctx context.Context, tx *sql.Tx, ccy, baseCcy string) (*model.RateRecord, error) {
	var record model.RateRecord
	err := tx.QueryRowContext(ctx, `
		SELECT id, ccy, base_ccy, buy, sale, timestamp
		FROM rate_records
		WHERE ccy = ? AND base_ccy = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT 1
	`, ccy, baseCcy).Scan(&record.ID, &record.Ccy, &record.BaseCcy,
		&record.Buy, &record.Sale, &record.Timestamp)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query newest rate: %w", err)
	}
	return &record, nil
}
