package api

import (
	"log/slog"
	"net/http"
	"strings"
)

// handleInboundSMS receives Twilio's form-encoded inbound SMS webhook.
// The provider is always acknowledged with 200 "OK": business-logic
// failures must not cause provider-side retries.
func (s *Server) handleInboundSMS(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		slog.Warn("inbound sms: malformed form body", "error", err)
		writeOK(w)
		return
	}

	to := strings.TrimSpace(r.PostFormValue("To"))
	from := strings.TrimSpace(r.PostFormValue("From"))
	body := strings.TrimSpace(r.PostFormValue("Body"))
	messageSID := strings.TrimSpace(r.PostFormValue("MessageSid"))

	if err := s.inbound.HandleInboundSMS(r.Context(), to, from, body, messageSID); err != nil {
		// Acknowledged regardless; the failure is ours to investigate.
		slog.Error("inbound sms: relay failed", "error", err, "to", to)
	}

	writeOK(w)
}

// writeOK writes the plain-text acknowledgment Twilio expects.
func writeOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK")) //nolint:errcheck
}
