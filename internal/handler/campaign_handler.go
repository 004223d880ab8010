package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"leadsync/internal/models"
	"leadsync/internal/service"
)

// CampaignHandler handles HTTP requests for campaign operations
type CampaignHandler struct {
	campaignService *service.CampaignService
	dispatchService *service.DispatchService
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(campaignService *service.CampaignService, dispatchService *service.DispatchService) *CampaignHandler {
	return &CampaignHandler{
		campaignService: campaignService,
		dispatchService: dispatchService,
	}
}

// Create handles POST /campaigns
func (h *CampaignHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateCampaignRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err == io.EOF {
			WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Request body is empty")
			return
		}
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	campaign, err := h.campaignService.CreateCampaign(r.Context(), &req)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteCreated(w, campaign)
}

// List handles GET /campaigns?owner=
func (h *CampaignHandler) List(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.campaignService.ListCampaigns(r.Context(), r.URL.Query().Get("owner"))
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, map[string][]*models.Campaign{"campaigns": campaigns})
}

// GetByID handles GET /campaigns/{id}
func (h *CampaignHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.campaignID(w, r)
	if !ok {
		return
	}

	campaign, err := h.campaignService.GetCampaign(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, campaign)
}

// Activate handles POST /campaigns/{id}/activate
func (h *CampaignHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, h.campaignService.Activate)
}

// Pause handles POST /campaigns/{id}/pause
func (h *CampaignHandler) Pause(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, h.campaignService.Pause)
}

// Complete handles POST /campaigns/{id}/complete
func (h *CampaignHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, h.campaignService.Complete)
}

// Dispatch handles POST /campaigns/{id}/dispatch - runs one admission
// pass over the campaign's currently eligible leads
func (h *CampaignHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	id, ok := h.campaignID(w, r)
	if !ok {
		return
	}

	campaign, err := h.campaignService.GetCampaign(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	result, err := h.dispatchService.DispatchCampaign(r.Context(), campaign)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, result)
}

// changeStatus runs one guarded campaign transition
func (h *CampaignHandler) changeStatus(w http.ResponseWriter, r *http.Request, transition func(ctx context.Context, id int) (*models.Campaign, error)) {
	id, ok := h.campaignID(w, r)
	if !ok {
		return
	}

	campaign, err := transition(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, campaign)
}

// campaignID extracts and validates the {id} path variable
func (h *CampaignHandler) campaignID(w http.ResponseWriter, r *http.Request) (int, bool) {
	idStr := mux.Vars(r)["id"]

	id, err := strconv.Atoi(idStr)
	if err != nil {
		WriteValidationError(w, "invalid campaign ID format")
		return 0, false
	}
	if id <= 0 {
		WriteValidationError(w, "campaign ID must be greater than 0")
		return 0, false
	}

	return id, true
}
