package repository

import (
	"context"
	"database/sql"
	"fmt"

	"leadsync/internal/models"
)

type ledgerRepository struct {
	db *sql.DB
}

// NewLedgerRepository creates a Postgres-backed delivery ledger.
// All operations are single-row atomic statements; the composite primary
// key on (campaign_id, channel, contact) is what makes TryReserve a
// compare-and-set.
func NewLedgerRepository(db *sql.DB) LedgerStore {
	return &ledgerRepository{db: db}
}

// TryReserve atomically claims the key by inserting a 'sent' record.
// Returns false when a record already exists, leaving it untouched.
func (r *ledgerRepository) TryReserve(ctx context.Context, campaignID int, channel models.Channel, contact string) (bool, error) {
	query := `
		INSERT INTO delivery_records (campaign_id, channel, contact, outcome, sent_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP)
		ON CONFLICT (campaign_id, channel, contact) DO NOTHING
	`

	result, err := r.db.ExecContext(ctx, query, campaignID, channel, contact, models.OutcomeSent)
	if err != nil {
		return false, fmt.Errorf("failed to reserve delivery record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows == 1, nil
}

// Release removes a reservation. Used only when quota admission fails
// after the reservation was taken, so a retry after top-up is not blocked
// by a phantom record.
func (r *ledgerRepository) Release(ctx context.Context, campaignID int, channel models.Channel, contact string) error {
	query := `DELETE FROM delivery_records WHERE campaign_id = $1 AND channel = $2 AND contact = $3`

	_, err := r.db.ExecContext(ctx, query, campaignID, channel, contact)
	if err != nil {
		return fmt.Errorf("failed to release delivery record: %w", err)
	}

	return nil
}

// RecordOutcome upserts the delivery outcome for a key. Repeated reports
// with the same outcome are accepted no-ops.
func (r *ledgerRepository) RecordOutcome(ctx context.Context, campaignID int, channel models.Channel, contact string, outcome models.DeliveryOutcome) error {
	query := `
		INSERT INTO delivery_records (campaign_id, channel, contact, outcome, sent_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP)
		ON CONFLICT (campaign_id, channel, contact)
		DO UPDATE SET outcome = EXCLUDED.outcome
	`

	_, err := r.db.ExecContext(ctx, query, campaignID, channel, contact, outcome)
	if err != nil {
		return fmt.Errorf("failed to record delivery outcome: %w", err)
	}

	return nil
}

// Get retrieves one delivery record by key
func (r *ledgerRepository) Get(ctx context.Context, campaignID int, channel models.Channel, contact string) (*models.DeliveryRecord, error) {
	query := `
		SELECT campaign_id, channel, contact, outcome, sent_at
		FROM delivery_records
		WHERE campaign_id = $1 AND channel = $2 AND contact = $3
	`

	record := &models.DeliveryRecord{}
	err := r.db.QueryRowContext(ctx, query, campaignID, channel, contact).Scan(
		&record.CampaignID,
		&record.Channel,
		&record.Contact,
		&record.Outcome,
		&record.SentAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get delivery record: %w", err)
	}

	return record, nil
}
