package service

import (
	"context"
	"errors"
	"log"

	"github.com/robfig/cron/v3"

	"leadsync/internal/repository"
)

// Sweeper periodically re-evaluates active campaigns so delayed and
// remarketing triggers fire when their windows open. Correctness does not
// depend on the sweep; it only moves newly eligible leads into the queue
// without waiting for a manual dispatch.
type Sweeper struct {
	campaigns repository.CampaignRepository
	dispatch  *DispatchService
	cron      *cron.Cron
	schedule  string
}

// NewSweeper creates a sweeper with a cron schedule like "@every 1m"
func NewSweeper(campaigns repository.CampaignRepository, dispatch *DispatchService, schedule string) *Sweeper {
	return &Sweeper{
		campaigns: campaigns,
		dispatch:  dispatch,
		cron:      cron.New(),
		schedule:  schedule,
	}
}

// Start registers the sweep job and starts the cron loop
func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts the cron loop; a sweep already running finishes
func (s *Sweeper) Stop() {
	s.cron.Stop()
}

// sweep runs one dispatch pass over every active campaign
func (s *Sweeper) sweep() {
	ctx := context.Background()

	campaigns, err := s.campaigns.ListActive(ctx)
	if err != nil {
		log.Printf("ERROR: sweep failed to list active campaigns: %v", err)
		return
	}

	for _, campaign := range campaigns {
		result, err := s.dispatch.DispatchCampaign(ctx, campaign)

		var quotaErr *QuotaExceededError
		if errors.As(err, &quotaErr) {
			// Quota exhaustion stops this campaign's pass only; the next
			// sweep retries after a top-up
			log.Printf("Warning: campaign %d sweep stopped: %v", campaign.ID, quotaErr)
			continue
		}
		if err != nil {
			log.Printf("ERROR: sweep dispatch failed for campaign %d: %v", campaign.ID, err)
			continue
		}

		if result.Enqueued > 0 || result.SkippedDuplicate > 0 {
			log.Printf("Campaign %d sweep: %d enqueued, %d duplicates skipped", campaign.ID, result.Enqueued, result.SkippedDuplicate)
		}
	}
}
