package service

import (
	"context"
	"strconv"
	"time"

	"leadsync/internal/extractor"
	"leadsync/internal/models"
	"leadsync/internal/repository"
	"leadsync/internal/segment"
)

// SyncService implements the cursor protocol an external polling agent
// uses to pull newly eligible leads without re-receiving old ones.
type SyncService struct {
	files       repository.AutomationFileRepository
	campaigns   repository.CampaignRepository
	submissions repository.SubmissionRepository
	cursors     repository.CursorStore
	scheduler   *Scheduler

	// now is swappable in tests; lead comparisons always use the
	// submission timestamp, never this clock
	now func() time.Time
}

// SyncResult is the response of one poll
type SyncResult struct {
	HasUpdates bool          `json:"hasUpdates"`
	NewLeads   []models.Lead `json:"newLeads"`
	LastUpdate time.Time     `json:"lastUpdate"`
}

// NewSyncService creates a new sync service
func NewSyncService(
	files repository.AutomationFileRepository,
	campaigns repository.CampaignRepository,
	submissions repository.SubmissionRepository,
	cursors repository.CursorStore,
	scheduler *Scheduler,
) *SyncService {
	return &SyncService{
		files:       files,
		campaigns:   campaigns,
		submissions: submissions,
		cursors:     cursors,
		scheduler:   scheduler,
		now:         time.Now,
	}
}

// Sync returns the leads that became eligible after lastSync and advances
// the stored cursor. A nil lastSync means full resync: the entire current
// eligible set is returned, but an already-stored later cursor is never
// moved backward. The call is a pure read until the final cursor persist;
// a failure there fails the whole call and the client retries with the
// same lastSync.
func (s *SyncService) Sync(ctx context.Context, ownerID, fileID string, lastSync *time.Time) (*SyncResult, error) {
	file, err := s.files.Get(ctx, ownerID, fileID)
	if err != nil {
		return nil, &NotFoundError{Resource: "automation file", ID: fileID}
	}

	campaign, err := s.campaigns.GetByID(ctx, file.CampaignID)
	if err != nil {
		return nil, &NotFoundError{Resource: "campaign", ID: strconv.Itoa(file.CampaignID)}
	}

	stored, hasStored, err := s.cursors.Get(ctx, ownerID, fileID)
	if err != nil {
		return nil, err
	}

	// Effective cursor: the caller's value, or zero for a full resync
	var cursor time.Time
	if lastSync != nil {
		cursor = *lastSync
	}

	// Paused/draft/completed campaigns emit nothing; the stored cursor
	// holds so polling resumes cleanly on reactivation
	now := s.now()
	if !s.scheduler.EligibleNow(campaign, now) {
		return &SyncResult{
			HasUpdates: false,
			NewLeads:   []models.Lead{},
			LastUpdate: maxTime(stored, cursor),
		}, nil
	}

	eligible, err := s.eligibleLeads(ctx, campaign, now)
	if err != nil {
		return nil, err
	}

	// Strictly-greater comparison on the source-of-truth submission
	// timestamp is what prevents re-delivery on the next poll
	newLeads := make([]models.Lead, 0, len(eligible))
	lastUpdate := maxTime(stored, cursor)
	for _, lead := range eligible {
		if !lead.SubmittedAt.After(cursor) {
			continue
		}
		newLeads = append(newLeads, lead)
		if lead.SubmittedAt.After(lastUpdate) {
			lastUpdate = lead.SubmittedAt
		}
	}

	// Persist before responding; Advance keeps max(existing, computed) so
	// concurrent polls and explicit old cursors can never regress it
	if hasStored || !lastUpdate.IsZero() {
		if err := s.cursors.Advance(ctx, ownerID, fileID, lastUpdate); err != nil {
			return nil, err
		}
	}

	return &SyncResult{
		HasUpdates: len(newLeads) > 0,
		NewLeads:   newLeads,
		LastUpdate: lastUpdate,
	}, nil
}

// eligibleLeads computes the campaign's current eligible lead set:
// extraction, segmentation, then per-lead trigger windows.
func (s *SyncService) eligibleLeads(ctx context.Context, campaign *models.Campaign, now time.Time) ([]models.Lead, error) {
	submissions, err := s.submissions.ListByQuiz(ctx, campaign.QuizID)
	if err != nil {
		return nil, err
	}

	leads := make([]models.Lead, 0, len(submissions))
	for _, sub := range submissions {
		leads = append(leads, extractor.BuildLead(sub))
	}

	segmented := segment.Filter(leads, campaign.Segment, campaign.DateFilter)

	eligible := segmented[:0]
	for _, lead := range segmented {
		if s.scheduler.LeadEligible(campaign, &lead, now) {
			eligible = append(eligible, lead)
		}
	}

	return eligible, nil
}

// maxTime returns the later of two timestamps
func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
