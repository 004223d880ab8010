package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"leadsync/internal/models"
	"leadsync/internal/repository"
	"leadsync/internal/service"
)

// setupSyncHandler wires a sync handler over in-memory stores with one
// active campaign and one bound automation file
func setupSyncHandler(t *testing.T) (*SyncHandler, *repository.MemorySubmissionRepository) {
	t.Helper()

	files := repository.NewMemoryAutomationFileRepository()
	campaigns := repository.NewMemoryCampaignRepository()
	submissions := repository.NewMemorySubmissionRepository()
	cursors := repository.NewMemoryCursorStore()

	ctx := context.Background()
	campaign := &models.Campaign{
		OwnerID:     "owner-1",
		QuizID:      "quiz-1",
		Channel:     models.ChannelWhatsApp,
		Segment:     models.SegmentCompleted,
		TriggerType: models.TriggerImmediate,
		Template:    "Olá {nome}!",
		Status:      models.CampaignStatusActive,
	}
	if err := campaigns.Create(ctx, campaign); err != nil {
		t.Fatalf("Failed to create campaign: %v", err)
	}
	if err := files.Create(ctx, &models.AutomationFile{
		ID:         "file-1",
		OwnerID:    "owner-1",
		CampaignID: campaign.ID,
	}); err != nil {
		t.Fatalf("Failed to create automation file: %v", err)
	}

	syncService := service.NewSyncService(files, campaigns, submissions, cursors, service.NewScheduler())
	return NewSyncHandler(syncService), submissions
}

// TestSyncEndpoint_ReturnsNewLeads tests the happy-path wire contract
func TestSyncEndpoint_ReturnsNewLeads(t *testing.T) {
	syncHandler, submissions := setupSyncHandler(t)

	t0 := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	err := submissions.Create(context.Background(), &models.Submission{
		ID:          "sub-1",
		QuizID:      "quiz-1",
		RawAnswers:  json.RawMessage(`{"nome": "Ana", "telefone": "11995133932"}`),
		IsComplete:  true,
		SubmittedAt: t0,
	})
	if err != nil {
		t.Fatalf("Failed to create submission: %v", err)
	}

	lastSync := t0.Add(-time.Second).Format(time.RFC3339)
	req := httptest.NewRequest("GET", "/sync?owner=owner-1&file=file-1&lastSync="+lastSync, nil)
	resp := httptest.NewRecorder()

	syncHandler.Sync(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200 but got %d: %s", resp.Code, resp.Body.String())
	}

	var body struct {
		HasUpdates bool `json:"hasUpdates"`
		NewLeads   []struct {
			Phone  string `json:"phone"`
			Status string `json:"status"`
		} `json:"newLeads"`
		LastUpdate *time.Time `json:"lastUpdate"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if !body.HasUpdates {
		t.Error("Expected hasUpdates=true")
	}
	if len(body.NewLeads) != 1 {
		t.Fatalf("Expected 1 lead but got %d", len(body.NewLeads))
	}
	if body.NewLeads[0].Phone != "5511995133932" {
		t.Errorf("Expected normalized phone but got %q", body.NewLeads[0].Phone)
	}
	if body.NewLeads[0].Status != "completed" {
		t.Errorf("Expected completed status but got %q", body.NewLeads[0].Status)
	}
	if body.LastUpdate == nil || !body.LastUpdate.Equal(t0) {
		t.Errorf("Expected lastUpdate %v but got %v", t0, body.LastUpdate)
	}
}

// TestSyncEndpoint_Validation tests required-parameter and format checks
func TestSyncEndpoint_Validation(t *testing.T) {
	syncHandler, _ := setupSyncHandler(t)

	testCases := []struct {
		name string
		url  string
	}{
		{"missing owner", "/sync?file=file-1"},
		{"missing file", "/sync?owner=owner-1"},
		{"malformed lastSync", "/sync?owner=owner-1&file=file-1&lastSync=yesterday"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tc.url, nil)
			resp := httptest.NewRecorder()

			syncHandler.Sync(resp, req)

			if resp.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400 but got %d", resp.Code)
			}
		})
	}
}

// TestSyncEndpoint_UnknownFile tests the not-found mapping
func TestSyncEndpoint_UnknownFile(t *testing.T) {
	syncHandler, _ := setupSyncHandler(t)

	req := httptest.NewRequest("GET", "/sync?owner=owner-1&file=missing", nil)
	resp := httptest.NewRecorder()

	syncHandler.Sync(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 but got %d", resp.Code)
	}
}

// TestSyncEndpoint_NoUpdates tests the quiet-poll shape
func TestSyncEndpoint_NoUpdates(t *testing.T) {
	syncHandler, _ := setupSyncHandler(t)

	req := httptest.NewRequest("GET", "/sync?owner=owner-1&file=file-1", nil)
	resp := httptest.NewRecorder()

	syncHandler.Sync(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200 but got %d", resp.Code)
	}

	var body struct {
		HasUpdates bool              `json:"hasUpdates"`
		NewLeads   []json.RawMessage `json:"newLeads"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if body.HasUpdates {
		t.Error("Expected hasUpdates=false")
	}
	if body.NewLeads == nil {
		t.Error("Expected newLeads to be an empty array, not null")
	}
}
