package service

import (
	"context"
	"sync"
	"testing"

	"leadsync/internal/models"
	"leadsync/internal/repository"
)

// TestLedger_AtMostOnceAdmission tests that a (campaign, channel,
// contact) key is admitted exactly once
func TestLedger_AtMostOnceAdmission(t *testing.T) {
	ledger := NewLedger(repository.NewMemoryLedgerStore())
	ctx := context.Background()

	admitted, err := ledger.TryReserve(ctx, 1, models.ChannelWhatsApp, "5511995133932")
	if err != nil {
		t.Fatalf("TryReserve failed: %v", err)
	}
	if !admitted {
		t.Fatal("Expected first reservation to be admitted")
	}

	admitted, err = ledger.TryReserve(ctx, 1, models.ChannelWhatsApp, "5511995133932")
	if err != nil {
		t.Fatalf("TryReserve failed: %v", err)
	}
	if admitted {
		t.Error("Expected repeat reservation to be refused")
	}

	stats := ledger.Stats()
	if stats.Admitted != 1 || stats.Duplicates != 1 {
		t.Errorf("Expected 1 admitted / 1 duplicate but got %d / %d", stats.Admitted, stats.Duplicates)
	}
}

// TestLedger_NormalizationEquivalence tests that different raw spellings
// of the same contact share one reservation
func TestLedger_NormalizationEquivalence(t *testing.T) {
	ctx := context.Background()

	t.Run("phone formats", func(t *testing.T) {
		ledger := NewLedger(repository.NewMemoryLedgerStore())

		admitted, _ := ledger.TryReserve(ctx, 1, models.ChannelWhatsApp, "11995133932")
		if !admitted {
			t.Fatal("Expected first spelling to be admitted")
		}

		for _, raw := range []string{"(11) 99513-3932", "5511995133932", "+55 11 99513-3932"} {
			admitted, _ := ledger.TryReserve(ctx, 1, models.ChannelWhatsApp, raw)
			if admitted {
				t.Errorf("Expected %q to collide with the first reservation", raw)
			}
		}
	})

	t.Run("email case and whitespace", func(t *testing.T) {
		ledger := NewLedger(repository.NewMemoryLedgerStore())

		admitted, _ := ledger.TryReserve(ctx, 1, models.ChannelEmail, "ana@example.com")
		if !admitted {
			t.Fatal("Expected first spelling to be admitted")
		}

		admitted, _ = ledger.TryReserve(ctx, 1, models.ChannelEmail, "  Ana@Example.COM ")
		if admitted {
			t.Error("Expected case variant to collide with the first reservation")
		}
	})
}

// TestLedger_KeyIsolation tests that dedup keys are scoped per campaign
// and per channel
func TestLedger_KeyIsolation(t *testing.T) {
	ledger := NewLedger(repository.NewMemoryLedgerStore())
	ctx := context.Background()

	if admitted, _ := ledger.TryReserve(ctx, 1, models.ChannelSMS, "5511995133932"); !admitted {
		t.Fatal("Expected reservation on campaign 1 / sms")
	}
	if admitted, _ := ledger.TryReserve(ctx, 2, models.ChannelSMS, "5511995133932"); !admitted {
		t.Error("Expected the same contact to be fresh on another campaign")
	}
	if admitted, _ := ledger.TryReserve(ctx, 1, models.ChannelWhatsApp, "5511995133932"); !admitted {
		t.Error("Expected the same contact to be fresh on another channel")
	}
}

// TestLedger_Release tests that a released reservation can be retaken
func TestLedger_Release(t *testing.T) {
	ledger := NewLedger(repository.NewMemoryLedgerStore())
	ctx := context.Background()

	if admitted, _ := ledger.TryReserve(ctx, 1, models.ChannelSMS, "11995133932"); !admitted {
		t.Fatal("Expected initial reservation")
	}
	if err := ledger.Release(ctx, 1, models.ChannelSMS, "(11) 99513-3932"); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if admitted, _ := ledger.TryReserve(ctx, 1, models.ChannelSMS, "11995133932"); !admitted {
		t.Error("Expected reservation to succeed after release")
	}
}

// TestLedger_ConcurrentReservations tests that racing reservations on one
// key admit exactly one winner
func TestLedger_ConcurrentReservations(t *testing.T) {
	store := repository.NewMemoryLedgerStore()
	ledger := NewLedger(store)
	ctx := context.Background()

	const workers = 20
	var wg sync.WaitGroup
	results := make(chan bool, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			admitted, err := ledger.TryReserve(ctx, 7, models.ChannelWhatsApp, "11995133932")
			if err != nil {
				t.Errorf("TryReserve failed: %v", err)
				return
			}
			results <- admitted
		}()
	}
	wg.Wait()
	close(results)

	winners := 0
	for admitted := range results {
		if admitted {
			winners++
		}
	}
	if winners != 1 {
		t.Errorf("Expected exactly 1 admitted reservation but got %d", winners)
	}
}

// TestLedger_RecordOutcome tests outcome updates on an existing
// reservation
func TestLedger_RecordOutcome(t *testing.T) {
	store := repository.NewMemoryLedgerStore()
	ledger := NewLedger(store)
	ctx := context.Background()

	if _, err := ledger.TryReserve(ctx, 1, models.ChannelSMS, "11995133932"); err != nil {
		t.Fatalf("TryReserve failed: %v", err)
	}
	if err := ledger.RecordOutcome(ctx, 1, models.ChannelSMS, "11995133932", models.OutcomeFailed); err != nil {
		t.Fatalf("RecordOutcome failed: %v", err)
	}

	record, err := store.Get(ctx, 1, models.ChannelSMS, "5511995133932")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if record == nil {
		t.Fatal("Expected a stored record")
	}
	if record.Outcome != models.OutcomeFailed {
		t.Errorf("Expected failed outcome but got %s", record.Outcome)
	}

	// Reporting the same outcome again is an accepted no-op
	if err := ledger.RecordOutcome(ctx, 1, models.ChannelSMS, "11995133932", models.OutcomeFailed); err != nil {
		t.Errorf("Expected repeated report to be accepted but got: %v", err)
	}
}
