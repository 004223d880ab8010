package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type cursorRepository struct {
	db *sql.DB
}

// NewCursorRepository creates a Postgres-backed sync cursor store
func NewCursorRepository(db *sql.DB) CursorStore {
	return &cursorRepository{db: db}
}

// Get retrieves the stored cursor; the second return value reports whether
// the agent has synced before
func (r *cursorRepository) Get(ctx context.Context, ownerID, fileID string) (time.Time, bool, error) {
	query := `
		SELECT last_sync
		FROM sync_cursors
		WHERE owner_id = $1 AND automation_file_id = $2
	`

	var lastSync time.Time
	err := r.db.QueryRowContext(ctx, query, ownerID, fileID).Scan(&lastSync)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to get sync cursor: %w", err)
	}

	return lastSync, true, nil
}

// Advance moves the cursor forward to max(existing, to) in a single
// atomic statement. Concurrent polls for the same key may both call
// Advance; GREATEST guarantees neither can regress the watermark.
func (r *cursorRepository) Advance(ctx context.Context, ownerID, fileID string, to time.Time) error {
	query := `
		INSERT INTO sync_cursors (owner_id, automation_file_id, last_sync)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner_id, automation_file_id)
		DO UPDATE SET last_sync = GREATEST(sync_cursors.last_sync, EXCLUDED.last_sync)
	`

	_, err := r.db.ExecContext(ctx, query, ownerID, fileID, to)
	if err != nil {
		return fmt.Errorf("failed to advance sync cursor: %w", err)
	}

	return nil
}
