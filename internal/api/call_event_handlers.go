package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/callcatch/callcatch/internal/api/middleware"
	"github.com/callcatch/callcatch/internal/relay"
	"github.com/callcatch/callcatch/internal/sms"
)

// callEventRequest is the JSON request body for a call-status notification.
type callEventRequest struct {
	To              string `json:"to"`
	From            string `json:"from"`
	Status          string `json:"status"`
	ProviderCallSID string `json:"provider_call_sid"`
}

// callEventResponse reports what the event produced. DryRun and MessageSID
// are only present when a fallback was dispatched.
type callEventResponse struct {
	OK         bool   `json:"ok"`
	Triggered  bool   `json:"triggered"`
	DryRun     bool   `json:"dry_run,omitempty"`
	MessageSID string `json:"message_sid,omitempty"`
}

// callEventRecord is the JSON shape of a call event in list output.
type callEventRecord struct {
	ID              string  `json:"id"`
	To              string  `json:"to"`
	From            string  `json:"from"`
	Status          string  `json:"status"`
	ProviderCallSID *string `json:"provider_call_sid"`
	CreatedAt       string  `json:"created_at"`
}

// handleCallEvent ingests one call-status notification and, for missed
// statuses, triggers the fallback SMS.
func (s *Server) handleCallEvent(w http.ResponseWriter, r *http.Request) {
	key := middleware.APIKeyFrom(r.Context())

	var req callEventRequest
	if errMsg := readJSON(r, &req); errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}

	result, err := s.processor.ProcessCallEvent(r.Context(), key.ID,
		strings.TrimSpace(req.To),
		strings.TrimSpace(req.From),
		strings.TrimSpace(req.Status),
		strings.TrimSpace(req.ProviderCallSID),
	)
	if err != nil {
		var vErr *relay.ValidationError
		var dErr *sms.DispatchError
		switch {
		case errors.As(err, &vErr):
			writeError(w, http.StatusBadRequest, vErr.Msg)
		case errors.Is(err, relay.ErrNumberNotRegistered):
			writeError(w, http.StatusNotFound, "Number not registered. POST /v1/numbers")
		case errors.Is(err, sms.ErrNotConfigured):
			writeError(w, http.StatusInternalServerError, err.Error())
		case errors.As(err, &dErr):
			writeError(w, http.StatusInternalServerError, dErr.Error())
		default:
			slog.Error("call event: processing failed", "error", err, "key_id", key.ID)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, callEventResponse{
		OK:         true,
		Triggered:  result.Triggered,
		DryRun:     result.DryRun,
		MessageSID: result.MessageSID,
	})
}

// handleListCallEvents returns the tenant's call-event log, newest first.
func (s *Server) handleListCallEvents(w http.ResponseWriter, r *http.Request) {
	key := middleware.APIKeyFrom(r.Context())

	events, err := s.events.ListByTenant(r.Context(), key.ID)
	if err != nil {
		slog.Error("list call events: failed to query", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	items := make([]callEventRecord, len(events))
	for i, e := range events {
		items[i] = callEventRecord{
			ID:              e.PublicID,
			To:              e.ToNumber,
			From:            e.FromNumber,
			Status:          e.Status,
			ProviderCallSID: e.ProviderCallSID,
			CreatedAt:       e.CreatedAt.Format(time.RFC3339),
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"call_events": items})
}
