package handler

import (
	"net/http"

	"leadsync/internal/models"
	"leadsync/internal/service"
)

// QuotaHandler exposes remaining-credit queries
type QuotaHandler struct {
	quota *service.QuotaGuard
}

// NewQuotaHandler creates a new quota handler
func NewQuotaHandler(quota *service.QuotaGuard) *QuotaHandler {
	return &QuotaHandler{quota: quota}
}

// Get handles GET /quota?user=&channel=
func (h *QuotaHandler) Get(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	userID := query.Get("user")
	if userID == "" {
		WriteValidationError(w, "user is required")
		return
	}

	channel := models.Channel(query.Get("channel"))
	if !models.ValidChannel(channel) {
		WriteValidationError(w, "invalid channel: must be 'sms', 'email' or 'whatsapp'")
		return
	}

	remaining, err := h.quota.Remaining(r.Context(), userID, channel)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, map[string]int{"remaining": remaining})
}
