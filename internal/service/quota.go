package service

import (
	"context"

	"leadsync/internal/models"
	"leadsync/internal/repository"
)

// QuotaGuard admits sends against per (user, channel) credit balances.
// It must be invoked strictly after the ledger reservation succeeds and
// strictly before the message is handed off for transport.
type QuotaGuard struct {
	store repository.QuotaStore
}

// NewQuotaGuard creates a quota guard over the given store
func NewQuotaGuard(store repository.QuotaStore) *QuotaGuard {
	return &QuotaGuard{store: store}
}

// TryConsume atomically decrements the balance when sufficient credits
// remain. Fails closed: on insufficient credits the balance is unchanged
// and ok is false.
func (q *QuotaGuard) TryConsume(ctx context.Context, userID string, channel models.Channel, amount int) (bool, int, error) {
	return q.store.TryConsume(ctx, userID, channel, amount)
}

// Remaining reports the current balance for a user and channel
func (q *QuotaGuard) Remaining(ctx context.Context, userID string, channel models.Channel) (int, error) {
	return q.store.Remaining(ctx, userID, channel)
}
