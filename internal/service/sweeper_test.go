package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"leadsync/internal/models"
	"leadsync/internal/queue"
	"leadsync/internal/repository"
)

// TestSweeper_DispatchesActiveCampaigns tests that one sweep pass
// dispatches every active campaign and skips the rest
func TestSweeper_DispatchesActiveCampaigns(t *testing.T) {
	ctx := context.Background()

	campaigns := repository.NewMemoryCampaignRepository()
	submissions := repository.NewMemorySubmissionRepository()
	quotaStore := repository.NewMemoryQuotaStore()
	publisher := queue.NewMemoryPublisher()

	active := &models.Campaign{
		OwnerID:     "owner-1",
		QuizID:      "quiz-1",
		Channel:     models.ChannelWhatsApp,
		Segment:     models.SegmentAll,
		TriggerType: models.TriggerImmediate,
		Template:    "Olá {nome}!",
		Status:      models.CampaignStatusActive,
	}
	if err := campaigns.Create(ctx, active); err != nil {
		t.Fatalf("Failed to create campaign: %v", err)
	}
	draft := &models.Campaign{
		OwnerID:     "owner-1",
		QuizID:      "quiz-1",
		Channel:     models.ChannelWhatsApp,
		Segment:     models.SegmentAll,
		TriggerType: models.TriggerImmediate,
		Template:    "Rascunho",
		Status:      models.CampaignStatusDraft,
	}
	if err := campaigns.Create(ctx, draft); err != nil {
		t.Fatalf("Failed to create campaign: %v", err)
	}

	if err := submissions.Create(ctx, &models.Submission{
		ID:          "sub-1",
		QuizID:      "quiz-1",
		RawAnswers:  json.RawMessage(`{"nome": "Ana", "telefone": "11995133932"}`),
		IsComplete:  true,
		SubmittedAt: time.Now().Add(-time.Hour),
	}); err != nil {
		t.Fatalf("Failed to create submission: %v", err)
	}
	if err := quotaStore.Credit(ctx, "owner-1", models.ChannelWhatsApp, 10); err != nil {
		t.Fatalf("Credit failed: %v", err)
	}

	dispatch := NewDispatchService(
		submissions,
		NewLedger(repository.NewMemoryLedgerStore()),
		NewQuotaGuard(quotaStore),
		NewComposer(),
		NewScheduler(),
		publisher,
	)
	sweeper := NewSweeper(campaigns, dispatch, "@every 1m")

	sweeper.sweep()

	jobs := publisher.Jobs()
	if len(jobs) != 1 {
		t.Fatalf("Expected 1 job from the active campaign but got %d", len(jobs))
	}
	if jobs[0].CampaignID != active.ID {
		t.Errorf("Expected job for campaign %d but got %d", active.ID, jobs[0].CampaignID)
	}

	// A second sweep finds only duplicates and enqueues nothing new
	sweeper.sweep()
	if len(publisher.Jobs()) != 1 {
		t.Errorf("Expected no new jobs on the second sweep but got %d", len(publisher.Jobs()))
	}
}
