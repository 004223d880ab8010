package models

import "time"

// DeliveryOutcome represents valid delivery record outcomes
type DeliveryOutcome string

const (
	OutcomeSent             DeliveryOutcome = "sent"
	OutcomeFailed           DeliveryOutcome = "failed"
	OutcomeSkippedDuplicate DeliveryOutcome = "skipped_duplicate"
)

// ValidOutcome reports whether o is a known delivery outcome
func ValidOutcome(o DeliveryOutcome) bool {
	return o == OutcomeSent || o == OutcomeFailed || o == OutcomeSkippedDuplicate
}

// DeliveryRecord is the dedup ledger row. At most one record with outcome
// 'sent' may ever exist per (campaign, channel, contact) key; the row is
// inserted at admission time, before any network call.
type DeliveryRecord struct {
	CampaignID int             `json:"campaign_id" db:"campaign_id"`
	Channel    Channel         `json:"channel" db:"channel"`
	Contact    string          `json:"contact" db:"contact"`
	Outcome    DeliveryOutcome `json:"outcome" db:"outcome"`
	SentAt     time.Time       `json:"sent_at" db:"sent_at"`
}

// SyncCursor is the watermark a polling agent uses to request only new
// leads. lastSync is monotonically non-decreasing and never rolled back.
type SyncCursor struct {
	OwnerID          string    `json:"owner_id" db:"owner_id"`
	AutomationFileID string    `json:"automation_file_id" db:"automation_file_id"`
	LastSync         time.Time `json:"last_sync" db:"last_sync"`
}

// QuotaBalance is the remaining per-user, per-channel send allowance.
// Mutated only by the quota guard's atomic decrement.
type QuotaBalance struct {
	UserID    string  `json:"user_id" db:"user_id"`
	Channel   Channel `json:"channel" db:"channel"`
	Remaining int     `json:"remaining" db:"remaining"`
}
