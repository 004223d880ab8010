package models

import (
	"fmt"
	"time"
)

// CampaignStatus represents valid campaign statuses
type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusPaused    CampaignStatus = "paused"
	CampaignStatusCompleted CampaignStatus = "completed"
)

// Channel represents valid messaging channels
type Channel string

const (
	ChannelSMS      Channel = "sms"
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
)

// ValidChannel reports whether c is a known channel
func ValidChannel(c Channel) bool {
	return c == ChannelSMS || c == ChannelEmail || c == ChannelWhatsApp
}

// SegmentKind represents a named audience subset
type SegmentKind string

const (
	SegmentAll       SegmentKind = "all"
	SegmentCompleted SegmentKind = "completed"
	SegmentAbandoned SegmentKind = "abandoned"
)

// ValidSegment reports whether s is a known segment
func ValidSegment(s SegmentKind) bool {
	return s == SegmentAll || s == SegmentCompleted || s == SegmentAbandoned
}

// TriggerType governs when a lead becomes eligible for a campaign
type TriggerType string

const (
	TriggerImmediate   TriggerType = "immediate"
	TriggerDelayed     TriggerType = "delayed"
	TriggerRemarketing TriggerType = "remarketing"
)

// ValidTrigger reports whether t is a known trigger type
func ValidTrigger(t TriggerType) bool {
	return t == TriggerImmediate || t == TriggerDelayed || t == TriggerRemarketing
}

// Campaign maps a segment + channel + template + trigger policy to
// outbound messages
type Campaign struct {
	ID           int            `json:"id" db:"id"`
	OwnerID      string         `json:"owner_id" db:"owner_id"`
	QuizID       string         `json:"quiz_id" db:"quiz_id"`
	Channel      Channel        `json:"channel" db:"channel"`
	Segment      SegmentKind    `json:"segment" db:"segment"`
	DateFilter   *time.Time     `json:"date_filter,omitempty" db:"date_filter"`
	TriggerType  TriggerType    `json:"trigger_type" db:"trigger_type"`
	TriggerDelay time.Duration  `json:"trigger_delay,omitempty" db:"trigger_delay_minutes"`
	Template     string         `json:"template" db:"template"`
	Status       CampaignStatus `json:"status" db:"status"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

// Validate checks if the campaign fields are valid
func (c *Campaign) Validate() error {
	if c.OwnerID == "" {
		return fmt.Errorf("owner_id is required")
	}
	if c.QuizID == "" {
		return fmt.Errorf("quiz_id is required")
	}
	if !ValidChannel(c.Channel) {
		return fmt.Errorf("invalid channel: must be 'sms', 'email' or 'whatsapp'")
	}
	if !ValidSegment(c.Segment) {
		return fmt.Errorf("invalid segment: must be 'all', 'completed' or 'abandoned'")
	}
	if !ValidTrigger(c.TriggerType) {
		return fmt.Errorf("invalid trigger_type: must be 'immediate', 'delayed' or 'remarketing'")
	}
	if c.TriggerType != TriggerImmediate && c.TriggerDelay <= 0 {
		return fmt.Errorf("trigger_delay_minutes is required for %s campaigns", c.TriggerType)
	}
	if c.Template == "" {
		return fmt.Errorf("template is required")
	}
	return nil
}

// IsActive checks if campaign may emit leads
func (c *Campaign) IsActive() bool {
	return c.Status == CampaignStatusActive
}

// CanActivate checks if campaign can transition to active
func (c *Campaign) CanActivate() bool {
	return c.Status == CampaignStatusDraft || c.Status == CampaignStatusPaused
}

// AutomationFile binds an external polling agent to a campaign.
// The sync cursor is keyed by (owner, automation file).
type AutomationFile struct {
	ID         string    `json:"id" db:"id"`
	OwnerID    string    `json:"owner_id" db:"owner_id"`
	CampaignID int       `json:"campaign_id" db:"campaign_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
