package repository

import (
	"context"
	"database/sql"
	"fmt"

	"leadsync/internal/models"
)

type quotaRepository struct {
	db *sql.DB
}

// NewQuotaRepository creates a Postgres-backed quota store
func NewQuotaRepository(db *sql.DB) QuotaStore {
	return &quotaRepository{db: db}
}

// TryConsume decrements the balance only when sufficient credits remain.
// The conditional UPDATE is the atomicity guarantee: two concurrent calls
// can never drive the balance negative.
func (r *quotaRepository) TryConsume(ctx context.Context, userID string, channel models.Channel, amount int) (bool, int, error) {
	if amount <= 0 {
		return false, 0, fmt.Errorf("consume amount must be positive, got %d", amount)
	}

	query := `
		UPDATE quota_balances
		SET remaining = remaining - $3
		WHERE user_id = $1 AND channel = $2 AND remaining >= $3
		RETURNING remaining
	`

	var remaining int
	err := r.db.QueryRowContext(ctx, query, userID, channel, amount).Scan(&remaining)
	if err == sql.ErrNoRows {
		// Insufficient credits or no balance row; report current balance
		remaining, err := r.Remaining(ctx, userID, channel)
		if err != nil {
			return false, 0, err
		}
		return false, remaining, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("failed to consume quota: %w", err)
	}

	return true, remaining, nil
}

// Remaining retrieves the current balance; a missing row counts as zero
func (r *quotaRepository) Remaining(ctx context.Context, userID string, channel models.Channel) (int, error) {
	query := `SELECT remaining FROM quota_balances WHERE user_id = $1 AND channel = $2`

	var remaining int
	err := r.db.QueryRowContext(ctx, query, userID, channel).Scan(&remaining)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get quota balance: %w", err)
	}

	return remaining, nil
}

// Credit replenishes a balance (billing collaborator boundary)
func (r *quotaRepository) Credit(ctx context.Context, userID string, channel models.Channel, amount int) error {
	if amount <= 0 {
		return fmt.Errorf("credit amount must be positive, got %d", amount)
	}

	query := `
		INSERT INTO quota_balances (user_id, channel, remaining)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, channel)
		DO UPDATE SET remaining = quota_balances.remaining + EXCLUDED.remaining
	`

	_, err := r.db.ExecContext(ctx, query, userID, channel, amount)
	if err != nil {
		return fmt.Errorf("failed to credit quota: %w", err)
	}

	return nil
}
