package service

import (
	"fmt"
	"math/rand"
	"time"

	"leadsync/internal/models"
)

// SenderService stands in for the channel transports (SMS gateway, SMTP,
// WhatsApp agent), which are external collaborators. It simulates sends
// with a configurable success rate.
type SenderService struct {
	successRate float64 // 0.0 to 1.0 (e.g., 0.95 = 95% success)
	rand        *rand.Rand
}

// NewSenderService creates a new sender service
func NewSenderService(successRate float64) *SenderService {
	if successRate < 0.0 {
		successRate = 0.0
	}
	if successRate > 1.0 {
		successRate = 1.0
	}

	return &SenderService{
		successRate: successRate,
		rand:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SendResult represents the result of a send attempt
type SendResult struct {
	Success bool
	Error   error
	Latency time.Duration
}

// Send delivers a composed message to a contact over a channel
func (s *SenderService) Send(channel models.Channel, contact string, body string) *SendResult {
	start := time.Now()

	// Simulate network latency (50-200ms)
	latency := time.Duration(50+s.rand.Intn(150)) * time.Millisecond
	time.Sleep(latency)

	success := s.rand.Float64() < s.successRate

	result := &SendResult{
		Success: success,
		Latency: time.Since(start),
	}

	if !success {
		failures := []string{
			"network timeout",
			"invalid contact",
			"rate limit exceeded",
			"service temporarily unavailable",
		}
		reason := failures[s.rand.Intn(len(failures))]
		result.Error = fmt.Errorf("failed to send %s to %s: %s", channel, contact, reason)
	}

	return result
}
