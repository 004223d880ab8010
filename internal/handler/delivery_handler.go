package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"leadsync/internal/models"
	"leadsync/internal/service"
)

// DeliveryHandler accepts per-lead delivery outcomes reported back by the
// external agent for channels where the agent performs the actual send
type DeliveryHandler struct {
	ledger *service.Ledger
}

// NewDeliveryHandler creates a new delivery report handler
func NewDeliveryHandler(ledger *service.Ledger) *DeliveryHandler {
	return &DeliveryHandler{ledger: ledger}
}

// DeliveryReportRequest represents one reported outcome
type DeliveryReportRequest struct {
	CampaignID int                    `json:"campaignId"`
	Channel    models.Channel         `json:"channel"`
	Contact    string                 `json:"contact"`
	Outcome    models.DeliveryOutcome `json:"outcome"`
}

// Report handles POST /delivery-report. The operation is idempotent:
// repeated reports for an already-recorded key are accepted no-ops.
func (h *DeliveryHandler) Report(w http.ResponseWriter, r *http.Request) {
	var req DeliveryReportRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err == io.EOF {
			WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Request body is empty")
			return
		}
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	if req.CampaignID <= 0 {
		WriteValidationError(w, "campaignId must be greater than 0")
		return
	}
	if !models.ValidChannel(req.Channel) {
		WriteValidationError(w, "invalid channel: must be 'sms', 'email' or 'whatsapp'")
		return
	}
	if req.Contact == "" {
		WriteValidationError(w, "contact is required")
		return
	}
	if !models.ValidOutcome(req.Outcome) {
		WriteValidationError(w, "invalid outcome: must be 'sent', 'failed' or 'skipped_duplicate'")
		return
	}

	if err := h.ledger.RecordOutcome(r.Context(), req.CampaignID, req.Channel, req.Contact, req.Outcome); err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, map[string]string{"status": "recorded"})
}
