package handler

import (
	"net/http"
	"time"

	"leadsync/internal/service"
)

// SyncHandler serves the polling protocol consumed by external delivery
// agents
type SyncHandler struct {
	syncService *service.SyncService
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(syncService *service.SyncService) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

// syncLead is the wire form of one lead in a sync response
type syncLead struct {
	Phone       string            `json:"phone,omitempty"`
	Email       string            `json:"email,omitempty"`
	Variables   map[string]string `json:"variables"`
	Status      string            `json:"status"`
	SubmittedAt time.Time         `json:"submittedAt"`
}

// syncResponse is the wire form of a sync result
type syncResponse struct {
	HasUpdates bool       `json:"hasUpdates"`
	NewLeads   []syncLead `json:"newLeads"`
	LastUpdate *time.Time `json:"lastUpdate,omitempty"`
}

// Sync handles GET /sync?owner=&file=&lastSync=
// An omitted lastSync means full resync; the stored cursor still never
// moves backward.
func (h *SyncHandler) Sync(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	ownerID := query.Get("owner")
	if ownerID == "" {
		WriteValidationError(w, "owner is required")
		return
	}

	fileID := query.Get("file")
	if fileID == "" {
		WriteValidationError(w, "file is required")
		return
	}

	var lastSync *time.Time
	if raw := query.Get("lastSync"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			WriteValidationError(w, "lastSync must be an RFC3339 timestamp")
			return
		}
		lastSync = &parsed
	}

	result, err := h.syncService.Sync(r.Context(), ownerID, fileID, lastSync)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, toSyncResponse(result))
}

// toSyncResponse converts a service result to the wire shape
func toSyncResponse(result *service.SyncResult) syncResponse {
	leads := make([]syncLead, 0, len(result.NewLeads))
	for _, lead := range result.NewLeads {
		leads = append(leads, syncLead{
			Phone:       lead.Phone,
			Email:       lead.Email,
			Variables:   lead.Variables,
			Status:      string(lead.Status),
			SubmittedAt: lead.SubmittedAt,
		})
	}

	resp := syncResponse{
		HasUpdates: result.HasUpdates,
		NewLeads:   leads,
	}
	if !result.LastUpdate.IsZero() {
		lastUpdate := result.LastUpdate
		resp.LastUpdate = &lastUpdate
	}
	return resp
}
