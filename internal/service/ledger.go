package service

import (
	"context"
	"sync/atomic"

	"leadsync/internal/extractor"
	"leadsync/internal/models"
	"leadsync/internal/repository"
)

// Ledger is the dedup gate in front of every send. It normalizes contacts
// before comparing them, so a lead surfaced via two different raw formats
// never evades the duplicate check, and it counts duplicates for
// observability.
type Ledger struct {
	store repository.LedgerStore

	admitted   int64
	duplicates int64
}

// LedgerStats are the counters the ledger accumulates per process
type LedgerStats struct {
	Admitted   int64 `json:"admitted"`
	Duplicates int64 `json:"duplicates"`
}

// NewLedger creates a delivery ledger over the given store
func NewLedger(store repository.LedgerStore) *Ledger {
	return &Ledger{store: store}
}

// NormalizeContact reduces a raw contact to the canonical form the ledger
// keys on. Email channels lower-case and trim; phone channels strip to
// digits with the default country code applied.
func NormalizeContact(channel models.Channel, contact string) string {
	if channel == models.ChannelEmail {
		return extractor.NormalizeEmail(contact)
	}
	return extractor.NormalizePhone(contact)
}

// TryReserve atomically claims the (campaign, channel, contact) key.
// The reservation happens before the quota decrement and before any
// outbound network call, so a retry after a crash can never produce a
// second charged, delivered message for the same key.
func (l *Ledger) TryReserve(ctx context.Context, campaignID int, channel models.Channel, contact string) (bool, error) {
	normalized := NormalizeContact(channel, contact)

	admitted, err := l.store.TryReserve(ctx, campaignID, channel, normalized)
	if err != nil {
		return false, err
	}

	if admitted {
		atomic.AddInt64(&l.admitted, 1)
	} else {
		atomic.AddInt64(&l.duplicates, 1)
	}
	return admitted, nil
}

// Release removes a reservation after a quota refusal so a retry after
// top-up is not blocked by a phantom record
func (l *Ledger) Release(ctx context.Context, campaignID int, channel models.Channel, contact string) error {
	return l.store.Release(ctx, campaignID, channel, NormalizeContact(channel, contact))
}

// RecordOutcome updates the delivery outcome for a key. Idempotent:
// repeated reports for an already-recorded outcome are accepted no-ops.
func (l *Ledger) RecordOutcome(ctx context.Context, campaignID int, channel models.Channel, contact string, outcome models.DeliveryOutcome) error {
	return l.store.RecordOutcome(ctx, campaignID, channel, NormalizeContact(channel, contact), outcome)
}

// Stats returns the process-level admission counters
func (l *Ledger) Stats() LedgerStats {
	return LedgerStats{
		Admitted:   atomic.LoadInt64(&l.admitted),
		Duplicates: atomic.LoadInt64(&l.duplicates),
	}
}
