package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/callcatch/callcatch/internal/database"
	"github.com/callcatch/callcatch/internal/database/models"
)

type contextKey string

// apiKeyKey is the context key for the authenticated tenant's API key.
const apiKeyKey contextKey = "api_key"

// errorEnvelope is the JSON error shape shared by all middleware responses.
type errorEnvelope struct {
	Error string `json:"error"`
}

// writeAuthError writes a JSON error response from middleware.
func writeAuthError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(errorEnvelope{Error: msg}); err != nil {
		slog.Error("failed to encode json error response", "error", err)
	}
}

// RequireAPIKey returns middleware that validates the Authorization header
// against stored API keys. The token must exactly match a stored key. On
// success the key is placed in the request context.
func RequireAPIKey(keys database.APIKeyRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")

			scheme, token, found := strings.Cut(auth, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				writeAuthError(w, http.StatusUnauthorized, "Missing Bearer token")
				return
			}

			key, err := keys.GetByToken(r.Context(), strings.TrimSpace(token))
			if err != nil {
				slog.Error("api key lookup failed", "error", err)
				writeAuthError(w, http.StatusInternalServerError, "internal error")
				return
			}
			if key == nil {
				writeAuthError(w, http.StatusUnauthorized, "Invalid API key")
				return
			}

			ctx := context.WithValue(r.Context(), apiKeyKey, key)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// APIKeyFrom returns the authenticated API key from the request context,
// or nil if the request did not pass RequireAPIKey.
func APIKeyFrom(ctx context.Context) *models.APIKey {
	key, _ := ctx.Value(apiKeyKey).(*models.APIKey)
	return key
}
