package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/callcatch/callcatch/internal/database"
	"github.com/callcatch/callcatch/internal/database/models"
)

func newTestKeys(t *testing.T) (database.APIKeyRepository, *models.APIKey) {
	t.Helper()

	db, err := database.Open(t.TempDir())
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := database.NewAPIKeyRepository(db)
	key := &models.APIKey{Token: "sk_valid_token", Name: "test"}
	if err := repo.Create(context.Background(), key); err != nil {
		t.Fatalf("creating api key: %v", err)
	}
	return repo, key
}

func TestRequireAPIKey(t *testing.T) {
	repo, key := newTestKeys(t)

	var gotKey *models.APIKey
	handler := RequireAPIKey(repo)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = APIKeyFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantError  string
	}{
		{"valid token", "Bearer sk_valid_token", http.StatusOK, ""},
		{"lowercase scheme", "bearer sk_valid_token", http.StatusOK, ""},
		{"missing header", "", http.StatusUnauthorized, "Missing Bearer token"},
		{"no scheme", "sk_valid_token", http.StatusUnauthorized, "Missing Bearer token"},
		{"empty token", "Bearer ", http.StatusUnauthorized, "Missing Bearer token"},
		{"wrong scheme", "Basic sk_valid_token", http.StatusUnauthorized, "Missing Bearer token"},
		{"unknown token", "Bearer sk_wrong", http.StatusUnauthorized, "Invalid API key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotKey = nil
			req := httptest.NewRequest(http.MethodGet, "/v1/numbers", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			if tt.wantStatus == http.StatusOK {
				if gotKey == nil || gotKey.ID != key.ID {
					t.Errorf("APIKeyFrom() = %+v, want key %d", gotKey, key.ID)
				}
				return
			}

			var body errorEnvelope
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decoding error body: %v", err)
			}
			if body.Error != tt.wantError {
				t.Errorf("error = %q, want %q", body.Error, tt.wantError)
			}
		})
	}
}

func TestAPIKeyFrom_EmptyContext(t *testing.T) {
	if key := APIKeyFrom(context.Background()); key != nil {
		t.Errorf("APIKeyFrom() = %+v, want nil", key)
	}
}
