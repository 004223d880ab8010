package models

import (
	"encoding/json"
	"time"
)

// LeadStatus represents the completion state derived from a submission
type LeadStatus string

const (
	LeadStatusInProgress LeadStatus = "in_progress"
	LeadStatusAbandoned  LeadStatus = "abandoned"
	LeadStatusCompleted  LeadStatus = "completed"
)

// Submission is one raw quiz response as stored by the response store.
// The answers payload shape varies between two legacy formats; it is kept
// opaque here and normalized by the extractor.
type Submission struct {
	ID                   string          `json:"id" db:"id"`
	QuizID               string          `json:"quiz_id" db:"quiz_id"`
	RawAnswers           json.RawMessage `json:"raw_answers" db:"raw_answers"`
	IsComplete           bool            `json:"is_complete" db:"is_complete"`
	IsPartial            bool            `json:"is_partial" db:"is_partial"`
	CompletionPercentage int             `json:"completion_percentage" db:"completion_percentage"`
	SubmittedAt          time.Time       `json:"submitted_at" db:"submitted_at"`
}

// Lead is one quiz respondent snapshot relevant to messaging.
// Built once per submission and never mutated afterwards.
type Lead struct {
	ID          string            `json:"id"`
	QuizID      string            `json:"quiz_id"`
	Variables   map[string]string `json:"variables"`
	Phone       string            `json:"phone,omitempty"`
	Email       string            `json:"email,omitempty"`
	Status      LeadStatus        `json:"status"`
	SubmittedAt time.Time         `json:"submitted_at"`
}

// ContactFor returns the normalized contact a channel delivers to,
// or empty when the lead has none for that channel.
func (l *Lead) ContactFor(channel Channel) string {
	if channel == ChannelEmail {
		return l.Email
	}
	return l.Phone
}

// HasContact checks whether the lead is reachable on the given channel
func (l *Lead) HasContact(channel Channel) bool {
	return l.ContactFor(channel) != ""
}
