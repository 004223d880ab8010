package service

import (
	"testing"
	"time"

	"leadsync/internal/models"
)

// TestScheduler_EligibleNow tests the campaign status gate
func TestScheduler_EligibleNow(t *testing.T) {
	scheduler := NewScheduler()
	now := time.Now()

	testCases := []struct {
		status   models.CampaignStatus
		expected bool
	}{
		{models.CampaignStatusDraft, false},
		{models.CampaignStatusActive, true},
		{models.CampaignStatusPaused, false},
		{models.CampaignStatusCompleted, false},
	}

	for _, tc := range testCases {
		t.Run(string(tc.status), func(t *testing.T) {
			campaign := &models.Campaign{Status: tc.status}
			if got := scheduler.EligibleNow(campaign, now); got != tc.expected {
				t.Errorf("Expected %v for %s campaign but got %v", tc.expected, tc.status, got)
			}
		})
	}
}

// TestScheduler_LeadEligible_Immediate tests that immediate campaigns
// accept every lead
func TestScheduler_LeadEligible_Immediate(t *testing.T) {
	scheduler := NewScheduler()
	now := time.Now()
	campaign := &models.Campaign{TriggerType: models.TriggerImmediate}
	lead := &models.Lead{SubmittedAt: now}

	if !scheduler.LeadEligible(campaign, lead, now) {
		t.Error("Expected fresh lead to be eligible for immediate trigger")
	}
}

// TestScheduler_LeadEligible_Delayed tests the per-lead aging window
func TestScheduler_LeadEligible_Delayed(t *testing.T) {
	scheduler := NewScheduler()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	campaign := &models.Campaign{
		TriggerType:  models.TriggerDelayed,
		TriggerDelay: 30 * time.Minute,
	}

	young := &models.Lead{SubmittedAt: now.Add(-10 * time.Minute)}
	if scheduler.LeadEligible(campaign, young, now) {
		t.Error("Expected lead younger than the delay to be ineligible")
	}

	exact := &models.Lead{SubmittedAt: now.Add(-30 * time.Minute)}
	if !scheduler.LeadEligible(campaign, exact, now) {
		t.Error("Expected lead aged exactly the delay to be eligible")
	}

	old := &models.Lead{SubmittedAt: now.Add(-2 * time.Hour)}
	if !scheduler.LeadEligible(campaign, old, now) {
		t.Error("Expected lead older than the delay to be eligible")
	}
}

// TestScheduler_LeadEligible_Remarketing tests the old-lead window with a
// date-filter floor
func TestScheduler_LeadEligible_Remarketing(t *testing.T) {
	scheduler := NewScheduler()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	floor := now.Add(-30 * 24 * time.Hour)
	campaign := &models.Campaign{
		TriggerType:  models.TriggerRemarketing,
		TriggerDelay: 24 * time.Hour,
		DateFilter:   &floor,
	}

	recent := &models.Lead{SubmittedAt: now.Add(-time.Hour)}
	if scheduler.LeadEligible(campaign, recent, now) {
		t.Error("Expected recent lead to be ineligible for remarketing")
	}

	inWindow := &models.Lead{SubmittedAt: now.Add(-48 * time.Hour)}
	if !scheduler.LeadEligible(campaign, inWindow, now) {
		t.Error("Expected aged lead inside the window to be eligible")
	}

	tooOld := &models.Lead{SubmittedAt: floor.Add(-time.Hour)}
	if scheduler.LeadEligible(campaign, tooOld, now) {
		t.Error("Expected lead older than the date filter to be ineligible")
	}
}

// TestScheduler_LeadEligible_UnknownTrigger tests the closed-world default
func TestScheduler_LeadEligible_UnknownTrigger(t *testing.T) {
	scheduler := NewScheduler()
	campaign := &models.Campaign{TriggerType: models.TriggerType("someday")}
	lead := &models.Lead{SubmittedAt: time.Now()}

	if scheduler.LeadEligible(campaign, lead, time.Now()) {
		t.Error("Expected unknown trigger type to match nothing")
	}
}
