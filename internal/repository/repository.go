package repository

import (
	"context"
	"database/sql"
	"time"

	"leadsync/internal/models"
)

// SubmissionRepository defines read access to the quiz response store.
// Submissions are append-only; the engine never writes them (Create exists
// for seeding and tests).
type SubmissionRepository interface {
	ListByQuiz(ctx context.Context, quizID string) ([]*models.Submission, error)
	Create(ctx context.Context, sub *models.Submission) error
}

// CampaignRepository defines campaign data access operations
type CampaignRepository interface {
	Create(ctx context.Context, campaign *models.Campaign) error
	GetByID(ctx context.Context, id int) (*models.Campaign, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Campaign, error)
	ListActive(ctx context.Context) ([]*models.Campaign, error)
	UpdateStatus(ctx context.Context, id int, status models.CampaignStatus) error
}

// AutomationFileRepository resolves the campaign bound to a polling agent
type AutomationFileRepository interface {
	Get(ctx context.Context, ownerID, fileID string) (*models.AutomationFile, error)
	Create(ctx context.Context, file *models.AutomationFile) error
}

// LedgerStore is the dedup index over (campaign, channel, contact) keys.
// TryReserve is a compare-and-set: it inserts a 'sent' record and reports
// whether this call won the key.
type LedgerStore interface {
	TryReserve(ctx context.Context, campaignID int, channel models.Channel, contact string) (bool, error)
	Release(ctx context.Context, campaignID int, channel models.Channel, contact string) error
	RecordOutcome(ctx context.Context, campaignID int, channel models.Channel, contact string, outcome models.DeliveryOutcome) error
	Get(ctx context.Context, campaignID int, channel models.Channel, contact string) (*models.DeliveryRecord, error)
}

// CursorStore holds per (owner, automation file) sync watermarks.
// Advance must be atomic and keep the stored value at
// max(existing, proposed); a cursor never regresses.
type CursorStore interface {
	Get(ctx context.Context, ownerID, fileID string) (time.Time, bool, error)
	Advance(ctx context.Context, ownerID, fileID string, to time.Time) error
}

// QuotaStore holds per (user, channel) remaining-credit counters.
// TryConsume is an atomic decrement-if-sufficient and fails closed.
type QuotaStore interface {
	TryConsume(ctx context.Context, userID string, channel models.Channel, amount int) (bool, int, error)
	Remaining(ctx context.Context, userID string, channel models.Channel) (int, error)
	Credit(ctx context.Context, userID string, channel models.Channel, amount int) error
}

// DB is a wrapper around *sql.DB to allow passing in a transaction
type DB interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}
