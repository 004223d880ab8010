package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"leadsync/internal/models"
)

// In-memory store implementations. They satisfy the same interfaces as
// the Postgres repositories with the same atomicity guarantees (a single
// mutex per store), and back both tests and storage-free development.

// ledgerKey identifies one delivery record
type ledgerKey struct {
	campaignID int
	channel    models.Channel
	contact    string
}

// MemoryLedgerStore is an in-memory LedgerStore
type MemoryLedgerStore struct {
	mu      sync.Mutex
	records map[ledgerKey]*models.DeliveryRecord
}

// NewMemoryLedgerStore creates an empty in-memory delivery ledger
func NewMemoryLedgerStore() *MemoryLedgerStore {
	return &MemoryLedgerStore{
		records: make(map[ledgerKey]*models.DeliveryRecord),
	}
}

func (s *MemoryLedgerStore) TryReserve(ctx context.Context, campaignID int, channel models.Channel, contact string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := ledgerKey{campaignID, channel, contact}
	if _, exists := s.records[key]; exists {
		return false, nil
	}

	s.records[key] = &models.DeliveryRecord{
		CampaignID: campaignID,
		Channel:    channel,
		Contact:    contact,
		Outcome:    models.OutcomeSent,
		SentAt:     time.Now(),
	}
	return true, nil
}

func (s *MemoryLedgerStore) Release(ctx context.Context, campaignID int, channel models.Channel, contact string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, ledgerKey{campaignID, channel, contact})
	return nil
}

func (s *MemoryLedgerStore) RecordOutcome(ctx context.Context, campaignID int, channel models.Channel, contact string, outcome models.DeliveryOutcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := ledgerKey{campaignID, channel, contact}
	if record, exists := s.records[key]; exists {
		record.Outcome = outcome
		return nil
	}

	s.records[key] = &models.DeliveryRecord{
		CampaignID: campaignID,
		Channel:    channel,
		Contact:    contact,
		Outcome:    outcome,
		SentAt:     time.Now(),
	}
	return nil
}

func (s *MemoryLedgerStore) Get(ctx context.Context, campaignID int, channel models.Channel, contact string) (*models.DeliveryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.records[ledgerKey{campaignID, channel, contact}]
	if !exists {
		return nil, nil
	}

	copied := *record
	return &copied, nil
}

// CountByOutcome counts stored records with the given outcome
func (s *MemoryLedgerStore) CountByOutcome(outcome models.DeliveryOutcome) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, record := range s.records {
		if record.Outcome == outcome {
			count++
		}
	}
	return count
}

// cursorKey identifies one sync cursor
type cursorKey struct {
	ownerID string
	fileID  string
}

// MemoryCursorStore is an in-memory CursorStore
type MemoryCursorStore struct {
	mu      sync.Mutex
	cursors map[cursorKey]time.Time
}

// NewMemoryCursorStore creates an empty in-memory cursor store
func NewMemoryCursorStore() *MemoryCursorStore {
	return &MemoryCursorStore{
		cursors: make(map[cursorKey]time.Time),
	}
}

func (s *MemoryCursorStore) Get(ctx context.Context, ownerID, fileID string) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cursor, exists := s.cursors[cursorKey{ownerID, fileID}]
	return cursor, exists, nil
}

func (s *MemoryCursorStore) Advance(ctx context.Context, ownerID, fileID string, to time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := cursorKey{ownerID, fileID}
	if existing, exists := s.cursors[key]; exists && existing.After(to) {
		// Never regress the watermark
		return nil
	}
	s.cursors[key] = to
	return nil
}

// quotaKey identifies one quota balance
type quotaKey struct {
	userID  string
	channel models.Channel
}

// MemoryQuotaStore is an in-memory QuotaStore
type MemoryQuotaStore struct {
	mu       sync.Mutex
	balances map[quotaKey]int
}

// NewMemoryQuotaStore creates an empty in-memory quota store
func NewMemoryQuotaStore() *MemoryQuotaStore {
	return &MemoryQuotaStore{
		balances: make(map[quotaKey]int),
	}
}

func (s *MemoryQuotaStore) TryConsume(ctx context.Context, userID string, channel models.Channel, amount int) (bool, int, error) {
	if amount <= 0 {
		return false, 0, fmt.Errorf("consume amount must be positive, got %d", amount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := quotaKey{userID, channel}
	remaining := s.balances[key]
	if remaining < amount {
		return false, remaining, nil
	}

	remaining -= amount
	s.balances[key] = remaining
	return true, remaining, nil
}

func (s *MemoryQuotaStore) Remaining(ctx context.Context, userID string, channel models.Channel) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.balances[quotaKey{userID, channel}], nil
}

func (s *MemoryQuotaStore) Credit(ctx context.Context, userID string, channel models.Channel, amount int) error {
	if amount <= 0 {
		return fmt.Errorf("credit amount must be positive, got %d", amount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.balances[quotaKey{userID, channel}] += amount
	return nil
}

// MemorySubmissionRepository is an in-memory SubmissionRepository
type MemorySubmissionRepository struct {
	mu          sync.Mutex
	submissions []*models.Submission
}

// NewMemorySubmissionRepository creates an empty in-memory response store
func NewMemorySubmissionRepository() *MemorySubmissionRepository {
	return &MemorySubmissionRepository{}
}

func (r *MemorySubmissionRepository) ListByQuiz(ctx context.Context, quizID string) ([]*models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := []*models.Submission{}
	for _, sub := range r.submissions {
		if sub.QuizID == quizID {
			copied := *sub
			matched = append(matched, &copied)
		}
	}
	return matched, nil
}

func (r *MemorySubmissionRepository) Create(ctx context.Context, sub *models.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *sub
	r.submissions = append(r.submissions, &copied)
	return nil
}

// MemoryCampaignRepository is an in-memory CampaignRepository
type MemoryCampaignRepository struct {
	mu        sync.Mutex
	campaigns map[int]*models.Campaign
	nextID    int
}

// NewMemoryCampaignRepository creates an empty in-memory campaign store
func NewMemoryCampaignRepository() *MemoryCampaignRepository {
	return &MemoryCampaignRepository{
		campaigns: make(map[int]*models.Campaign),
		nextID:    1,
	}
}

func (r *MemoryCampaignRepository) Create(ctx context.Context, campaign *models.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	campaign.ID = r.nextID
	r.nextID++
	campaign.CreatedAt = time.Now()
	campaign.UpdatedAt = campaign.CreatedAt

	copied := *campaign
	r.campaigns[campaign.ID] = &copied
	return nil
}

func (r *MemoryCampaignRepository) GetByID(ctx context.Context, id int) (*models.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	campaign, exists := r.campaigns[id]
	if !exists {
		return nil, fmt.Errorf("campaign not found")
	}

	copied := *campaign
	return &copied, nil
}

func (r *MemoryCampaignRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := []*models.Campaign{}
	for id := r.nextID - 1; id >= 1; id-- {
		if campaign, exists := r.campaigns[id]; exists && campaign.OwnerID == ownerID {
			copied := *campaign
			matched = append(matched, &copied)
		}
	}
	return matched, nil
}

func (r *MemoryCampaignRepository) ListActive(ctx context.Context) ([]*models.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := []*models.Campaign{}
	for id := 1; id < r.nextID; id++ {
		if campaign, exists := r.campaigns[id]; exists && campaign.Status == models.CampaignStatusActive {
			copied := *campaign
			matched = append(matched, &copied)
		}
	}
	return matched, nil
}

func (r *MemoryCampaignRepository) UpdateStatus(ctx context.Context, id int, status models.CampaignStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	campaign, exists := r.campaigns[id]
	if !exists {
		return fmt.Errorf("campaign not found")
	}

	campaign.Status = status
	campaign.UpdatedAt = time.Now()
	return nil
}

// MemoryAutomationFileRepository is an in-memory AutomationFileRepository
type MemoryAutomationFileRepository struct {
	mu    sync.Mutex
	files map[cursorKey]*models.AutomationFile
}

// NewMemoryAutomationFileRepository creates an empty in-memory file store
func NewMemoryAutomationFileRepository() *MemoryAutomationFileRepository {
	return &MemoryAutomationFileRepository{
		files: make(map[cursorKey]*models.AutomationFile),
	}
}

func (r *MemoryAutomationFileRepository) Get(ctx context.Context, ownerID, fileID string) (*models.AutomationFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, exists := r.files[cursorKey{ownerID, fileID}]
	if !exists {
		return nil, fmt.Errorf("automation file not found")
	}

	copied := *file
	return &copied, nil
}

func (r *MemoryAutomationFileRepository) Create(ctx context.Context, file *models.AutomationFile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := cursorKey{file.OwnerID, file.ID}
	if _, exists := r.files[key]; exists {
		return fmt.Errorf("automation file already exists")
	}

	file.CreatedAt = time.Now()
	copied := *file
	r.files[key] = &copied
	return nil
}
