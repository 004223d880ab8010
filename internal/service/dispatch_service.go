package service

import (
	"context"
	"log"
	"time"

	"leadsync/internal/extractor"
	"leadsync/internal/models"
	"leadsync/internal/queue"
	"leadsync/internal/repository"
	"leadsync/internal/segment"
)

// DispatchService runs the admission pipeline for direct channel sends:
// extract -> segment -> trigger window -> ledger reservation -> quota ->
// compose -> enqueue. The ledger reservation always precedes the quota
// decrement and the quota decrement always precedes transport hand-off.
type DispatchService struct {
	submissions repository.SubmissionRepository
	ledger      *Ledger
	quota       *QuotaGuard
	composer    *Composer
	scheduler   *Scheduler
	publisher   queue.JobPublisher

	now func() time.Time
}

// DispatchResult summarizes one dispatch pass over a campaign
type DispatchResult struct {
	CampaignID       int `json:"campaign_id"`
	Eligible         int `json:"eligible"`
	Enqueued         int `json:"enqueued"`
	SkippedDuplicate int `json:"skipped_duplicate"`
	SkippedNoContact int `json:"skipped_no_contact"`
	RemainingQuota   int `json:"remaining_quota"`
}

// NewDispatchService creates a new dispatch service
func NewDispatchService(
	submissions repository.SubmissionRepository,
	ledger *Ledger,
	quota *QuotaGuard,
	composer *Composer,
	scheduler *Scheduler,
	publisher queue.JobPublisher,
) *DispatchService {
	return &DispatchService{
		submissions: submissions,
		ledger:      ledger,
		quota:       quota,
		composer:    composer,
		scheduler:   scheduler,
		publisher:   publisher,
		now:         time.Now,
	}
}

// DispatchCampaign admits and enqueues every currently eligible lead of
// an active campaign. On quota exhaustion the reservation just taken is
// released and the pass stops with a QuotaExceededError; already-enqueued
// sends are not rolled back.
func (d *DispatchService) DispatchCampaign(ctx context.Context, campaign *models.Campaign) (*DispatchResult, error) {
	now := d.now()
	result := &DispatchResult{CampaignID: campaign.ID}

	if !d.scheduler.EligibleNow(campaign, now) {
		return nil, &BusinessLogicError{
			Message: "campaign cannot dispatch: status is " + string(campaign.Status),
		}
	}

	submissions, err := d.submissions.ListByQuiz(ctx, campaign.QuizID)
	if err != nil {
		return nil, err
	}

	leads := make([]models.Lead, 0, len(submissions))
	for _, sub := range submissions {
		leads = append(leads, extractor.BuildLead(sub))
	}

	for _, lead := range segment.Filter(leads, campaign.Segment, campaign.DateFilter) {
		if !d.scheduler.LeadEligible(campaign, &lead, now) {
			continue
		}
		result.Eligible++

		if !lead.HasContact(campaign.Channel) {
			result.SkippedNoContact++
			continue
		}
		contact := lead.ContactFor(campaign.Channel)

		// Dedup gate first: the reservation blocks any retry of this
		// lead before a single credit is spent
		admitted, err := d.ledger.TryReserve(ctx, campaign.ID, campaign.Channel, contact)
		if err != nil {
			return nil, err
		}
		if !admitted {
			result.SkippedDuplicate++
			continue
		}

		ok, remaining, err := d.quota.TryConsume(ctx, campaign.OwnerID, campaign.Channel, 1)
		if err != nil {
			return nil, err
		}
		result.RemainingQuota = remaining
		if !ok {
			// Roll back the reservation so a retry after top-up is not
			// blocked by a phantom record
			if releaseErr := d.ledger.Release(ctx, campaign.ID, campaign.Channel, contact); releaseErr != nil {
				log.Printf("ERROR: failed to release reservation for campaign %d contact %s: %v", campaign.ID, contact, releaseErr)
			}
			return result, &QuotaExceededError{
				UserID:    campaign.OwnerID,
				Channel:   string(campaign.Channel),
				Remaining: remaining,
			}
		}

		body := d.composer.Render(campaign.Template, lead.Variables)

		job := &queue.DispatchJob{
			CampaignID: campaign.ID,
			LeadID:     lead.ID,
			Channel:    string(campaign.Channel),
			Contact:    contact,
			Body:       body,
		}
		if err := d.publisher.PublishJob(job); err != nil {
			// The reservation stands: the send will be retried by the
			// delivery-report path, never re-admitted from scratch
			log.Printf("Warning: failed to publish dispatch job for lead %s: %v", lead.ID, err)
			continue
		}

		result.Enqueued++
	}

	return result, nil
}
