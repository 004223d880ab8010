package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"leadsync/internal/models"
	"leadsync/internal/repository"
)

// CampaignService handles campaign lifecycle operations
type CampaignService struct {
	campaigns repository.CampaignRepository
	files     repository.AutomationFileRepository
	composer  *Composer
}

// NewCampaignService creates a new campaign service
func NewCampaignService(
	campaigns repository.CampaignRepository,
	files repository.AutomationFileRepository,
	composer *Composer,
) *CampaignService {
	return &CampaignService{
		campaigns: campaigns,
		files:     files,
		composer:  composer,
	}
}

// CreateCampaignRequest represents a request to create a campaign
type CreateCampaignRequest struct {
	OwnerID             string             `json:"owner_id"`
	QuizID              string             `json:"quiz_id"`
	Channel             models.Channel     `json:"channel"`
	Segment             models.SegmentKind `json:"segment"`
	TriggerType         models.TriggerType `json:"trigger_type"`
	TriggerDelayMinutes int                `json:"trigger_delay_minutes,omitempty"`
	DateFilter          *time.Time         `json:"date_filter,omitempty"`
	Template            string             `json:"template"`
	AutomationFileID    string             `json:"automation_file_id,omitempty"`
}

// CreateCampaign creates a new campaign in draft status. When the request
// names an automation file, the binding for the polling agent is created
// in the same call.
func (s *CampaignService) CreateCampaign(ctx context.Context, req *CreateCampaignRequest) (*models.Campaign, error) {
	campaign := &models.Campaign{
		OwnerID:      req.OwnerID,
		QuizID:       req.QuizID,
		Channel:      req.Channel,
		Segment:      req.Segment,
		DateFilter:   req.DateFilter,
		TriggerType:  req.TriggerType,
		TriggerDelay: time.Duration(req.TriggerDelayMinutes) * time.Minute,
		Template:     req.Template,
		Status:       models.CampaignStatusDraft,
	}

	if err := campaign.Validate(); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	if err := s.composer.ValidateTemplate(campaign.Template); err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("invalid template: %v", err)}
	}

	if err := s.campaigns.Create(ctx, campaign); err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	if req.AutomationFileID != "" {
		file := &models.AutomationFile{
			ID:         req.AutomationFileID,
			OwnerID:    campaign.OwnerID,
			CampaignID: campaign.ID,
		}
		if err := s.files.Create(ctx, file); err != nil {
			return nil, fmt.Errorf("failed to bind automation file: %w", err)
		}
	}

	return campaign, nil
}

// GetCampaign retrieves a campaign by ID
func (s *CampaignService) GetCampaign(ctx context.Context, id int) (*models.Campaign, error) {
	campaign, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		return nil, &NotFoundError{Resource: "campaign", ID: strconv.Itoa(id)}
	}
	return campaign, nil
}

// ListCampaigns lists a user's campaigns, newest first
func (s *CampaignService) ListCampaigns(ctx context.Context, ownerID string) ([]*models.Campaign, error) {
	if ownerID == "" {
		return nil, &ValidationError{Message: "owner is required"}
	}

	campaigns, err := s.campaigns.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	return campaigns, nil
}

// Activate transitions a draft or paused campaign to active
func (s *CampaignService) Activate(ctx context.Context, id int) (*models.Campaign, error) {
	return s.transition(ctx, id, models.CampaignStatusActive, func(c *models.Campaign) bool {
		return c.CanActivate()
	})
}

// Pause suspends an active campaign. The pause takes effect on the next
// scheduler evaluation; in-flight sends past the ledger reservation are
// not rolled back.
func (s *CampaignService) Pause(ctx context.Context, id int) (*models.Campaign, error) {
	return s.transition(ctx, id, models.CampaignStatusPaused, func(c *models.Campaign) bool {
		return c.Status == models.CampaignStatusActive
	})
}

// Complete marks an active or paused campaign as finished
func (s *CampaignService) Complete(ctx context.Context, id int) (*models.Campaign, error) {
	return s.transition(ctx, id, models.CampaignStatusCompleted, func(c *models.Campaign) bool {
		return c.Status == models.CampaignStatusActive || c.Status == models.CampaignStatusPaused
	})
}

// transition applies one guarded status change
func (s *CampaignService) transition(ctx context.Context, id int, to models.CampaignStatus, allowed func(*models.Campaign) bool) (*models.Campaign, error) {
	campaign, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		return nil, &NotFoundError{Resource: "campaign", ID: strconv.Itoa(id)}
	}

	if !allowed(campaign) {
		return nil, &BusinessLogicError{
			Message: fmt.Sprintf("campaign cannot move from %s to %s", campaign.Status, to),
		}
	}

	if err := s.campaigns.UpdateStatus(ctx, id, to); err != nil {
		return nil, fmt.Errorf("failed to update campaign status: %w", err)
	}

	campaign.Status = to
	return campaign, nil
}
