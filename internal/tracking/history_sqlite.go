package tracking

import (
	"context"
	"database/sql"
	"fmt"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// SQLiteHistoryRepository implements HistoryRepository using SQLite.
//
// It stores fixes in the position_history table created by the initial
// schema migration.
type SQLiteHistoryRepository struct {
	db *sql.DB
}

// NewSQLiteHistoryRepository creates a new SQLite position history repository.
//
// Parameters:
//   - db: Open SQLite connection used for queries
//
// Returns:
//   - *SQLiteHistoryRepository: Repository instance ready for use
func NewSQLiteHistoryRepository(db *sql.DB) *SQLiteHistoryRepository {
	return &SQLiteHistoryRepository{db: db}
}

// RecordFix inserts one position fix.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - fix: Fix to persist
//
// Returns:
//   - error: nil on success, otherwise the underlying database error
func (r *SQLiteHistoryRepository) RecordFix(ctx context.Context, fix Fix) error {
	if fix.Quality == 0 {
		return fmt.Errorf("fix without a usable location")
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO position_history (address, x, y, z, quality, sampled_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		fix.Address,
		fix.X,
		fix.Y,
		fix.Z,
		fix.Quality,
		fix.SampledAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("inserting position fix: %w", err)
	}

	return nil
}

// GetHistory returns recent fixes for a device, ordered newest first.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - address: Device address
//   - limit: Maximum entries to return (default 50, max 500)
//
// Returns:
//   - []Fix: Fixes ordered by sampled_at DESC
//   - error: nil on success, otherwise the underlying query error
func (r *SQLiteHistoryRepository) GetHistory(ctx context.Context, address uint8, limit int) ([]Fix, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, address, x, y, z, quality, sampled_at
		 FROM position_history
		 WHERE address = ?
		 ORDER BY sampled_at DESC, id DESC
		 LIMIT ?`,
		address,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying position history: %w", err)
	}
	defer rows.Close()

	var fixes []Fix
	for rows.Next() {
		var f Fix
		if err := rows.Scan(&f.ID, &f.Address, &f.X, &f.Y, &f.Z, &f.Quality, &f.SampledAt); err != nil {
			return nil, fmt.Errorf("scanning position fix: %w", err)
		}
		f.SampledAt = f.SampledAt.UTC()
		fixes = append(fixes, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating position history: %w", err)
	}

	return fixes, nil
}
