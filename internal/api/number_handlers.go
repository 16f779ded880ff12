package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/callcatch/callcatch/internal/api/middleware"
	"github.com/callcatch/callcatch/internal/database"
	"github.com/callcatch/callcatch/internal/database/models"
)

// registerNumberRequest is the JSON request body for registering a number.
type registerNumberRequest struct {
	Number          string `json:"number"`
	FallbackSMS     string `json:"fallback_sms"`
	ReplyWebhookURL string `json:"reply_webhook_url"`
}

// numberResponse is the JSON shape of a registered number in list output.
type numberResponse struct {
	ID              int64  `json:"id"`
	Number          string `json:"number"`
	FallbackSMS     string `json:"fallback_sms"`
	ReplyWebhookURL string `json:"reply_webhook_url"`
	CreatedAt       string `json:"created_at"`
}

// handleRegisterNumber registers a number's fallback behavior for the
// authenticated tenant. Registrations are immutable; a duplicate
// (tenant, phone) pair is a conflict.
func (s *Server) handleRegisterNumber(w http.ResponseWriter, r *http.Request) {
	key := middleware.APIKeyFrom(r.Context())

	var req registerNumberRequest
	if errMsg := readJSON(r, &req); errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}

	phone := strings.TrimSpace(req.Number)
	fallbackSMS := strings.TrimSpace(req.FallbackSMS)
	webhookURL := strings.TrimSpace(req.ReplyWebhookURL)

	if errMsg := validatePhone("number", phone); errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}
	if len(fallbackSMS) < 3 || len(fallbackSMS) > maxBodyLen {
		writeError(w, http.StatusBadRequest, "fallback_sms required")
		return
	}
	if errMsg := validateWebhookURL("reply_webhook_url", webhookURL); errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}

	num := &models.Number{
		APIKeyID:        key.ID,
		Phone:           phone,
		FallbackSMS:     fallbackSMS,
		ReplyWebhookURL: webhookURL,
	}
	if err := s.numbers.Create(r.Context(), num); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			writeError(w, http.StatusConflict, "Number already registered")
			return
		}
		slog.Error("register number: failed to insert", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	slog.Info("number registered", "key_id", key.ID, "number", phone)

	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "number": phone})
}

// handleListNumbers returns the tenant's registered numbers.
func (s *Server) handleListNumbers(w http.ResponseWriter, r *http.Request) {
	key := middleware.APIKeyFrom(r.Context())

	nums, err := s.numbers.ListByTenant(r.Context(), key.ID)
	if err != nil {
		slog.Error("list numbers: failed to query", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	items := make([]numberResponse, len(nums))
	for i, n := range nums {
		items[i] = numberResponse{
			ID:              n.ID,
			Number:          n.Phone,
			FallbackSMS:     n.FallbackSMS,
			ReplyWebhookURL: n.ReplyWebhookURL,
			CreatedAt:       n.CreatedAt.Format(time.RFC3339),
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"numbers": items})
}
