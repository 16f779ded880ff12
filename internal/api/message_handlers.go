package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/callcatch/callcatch/internal/api/middleware"
)

// messageRecord is the JSON shape of a message in list output.
type messageRecord struct {
	ID                 string  `json:"id"`
	Direction          string  `json:"direction"`
	To                 string  `json:"to"`
	From               string  `json:"from"`
	Body               string  `json:"body"`
	ProviderMessageSID *string `json:"provider_message_sid"`
	CreatedAt          string  `json:"created_at"`
}

// conversationRecord is the JSON shape of a conversation in list output.
type conversationRecord struct {
	To            string `json:"to"`
	From          string `json:"from"`
	LastMessage   string `json:"last_message"`
	LastMessageAt string `json:"last_message_at"`
}

// handleListMessages returns the tenant's SMS history, newest first.
func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	key := middleware.APIKeyFrom(r.Context())

	msgs, err := s.messages.ListByTenant(r.Context(), key.ID)
	if err != nil {
		slog.Error("list messages: failed to query", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	items := make([]messageRecord, len(msgs))
	for i, m := range msgs {
		items[i] = messageRecord{
			ID:                 m.PublicID,
			Direction:          m.Direction,
			To:                 m.ToNumber,
			From:               m.FromNumber,
			Body:               m.Body,
			ProviderMessageSID: m.ProviderMessageSID,
			CreatedAt:          m.CreatedAt.Format(time.RFC3339),
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"messages": items})
}

// handleListConversations returns the tenant's conversations, most
// recently active first.
func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request) {
	key := middleware.APIKeyFrom(r.Context())

	convs, err := s.conversations.ListByTenant(r.Context(), key.ID)
	if err != nil {
		slog.Error("list conversations: failed to query", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	items := make([]conversationRecord, len(convs))
	for i, c := range convs {
		items[i] = conversationRecord{
			To:            c.ToNumber,
			From:          c.FromNumber,
			LastMessage:   c.LastMessage,
			LastMessageAt: c.LastMessageAt.Format(time.RFC3339),
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"conversations": items})
}
