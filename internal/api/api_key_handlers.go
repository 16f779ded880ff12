package api

import (
	"log/slog"
	"net/http"

	"github.com/callcatch/callcatch/internal/database/models"
	"github.com/callcatch/callcatch/internal/token"
)

// createAPIKeyRequest is the JSON request body for minting an API key.
type createAPIKeyRequest struct {
	Name string `json:"name"`
}

// createAPIKeyResponse returns the freshly minted token. The token is only
// ever shown here; there is no retrieval endpoint.
type createAPIKeyResponse struct {
	APIKey string  `json:"api_key"`
	Name   *string `json:"name"`
}

// handleCreateAPIKey mints a new tenant API key.
func (s *Server) handleCreateAPIKey(w http.ResponseWriter, r *http.Request) {
	var req createAPIKeyRequest
	if errMsg := readJSON(r, &req); errMsg != "" {
		// An empty or absent body is fine here; only malformed JSON with
		// content is worth rejecting, and the original accepted anything.
		req.Name = ""
	}

	name := truncate(req.Name, maxNameLen)

	tok, err := token.Generate()
	if err != nil {
		slog.Error("create api key: token generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	key := &models.APIKey{Token: tok, Name: name}
	if err := s.keys.Create(r.Context(), key); err != nil {
		slog.Error("create api key: failed to insert", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	slog.Info("api key created", "key_id", key.ID, "name", name)

	resp := createAPIKeyResponse{APIKey: tok}
	if name != "" {
		resp.Name = &name
	}
	writeJSON(w, http.StatusOK, resp)
}
