package service

import (
	"time"

	"leadsync/internal/models"
)

// Scheduler decides which campaigns and leads are currently eligible to
// emit sends
type Scheduler struct{}

// NewScheduler creates a new campaign scheduler
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// EligibleNow reports whether a campaign may emit leads at all. The
// status gate is the cheapest filter and runs before any segmentation
// work; draft, paused and completed campaigns are never eligible.
func (s *Scheduler) EligibleNow(campaign *models.Campaign, now time.Time) bool {
	return campaign.IsActive()
}

// LeadEligible reports whether a specific lead is inside the campaign's
// trigger window at the given instant. The delay is evaluated per lead
// against the submission timestamp, not against campaign activation.
func (s *Scheduler) LeadEligible(campaign *models.Campaign, lead *models.Lead, now time.Time) bool {
	switch campaign.TriggerType {
	case models.TriggerImmediate:
		return true

	case models.TriggerDelayed:
		// Eligible once the lead has aged past the configured delay
		return now.Sub(lead.SubmittedAt) >= campaign.TriggerDelay

	case models.TriggerRemarketing:
		// Targets older leads: submitted at or before now-delay, with the
		// campaign date filter as a hard floor
		if lead.SubmittedAt.After(now.Add(-campaign.TriggerDelay)) {
			return false
		}
		if campaign.DateFilter != nil && lead.SubmittedAt.Before(*campaign.DateFilter) {
			return false
		}
		return true

	default:
		return false
	}
}
