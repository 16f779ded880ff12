package sms

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTwilioClient_Send(t *testing.T) {
	var gotPath, gotFrom, gotTo, gotBody string
	var gotUser, gotPass string
	var gotContentType string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		gotUser, gotPass, _ = r.BasicAuth()
		r.ParseForm()
		gotFrom = r.PostFormValue("From")
		gotTo = r.PostFormValue("To")
		gotBody = r.PostFormValue("Body")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sid":"SM123","status":"queued"}`))
	}))
	defer srv.Close()

	client := NewTwilioClient(srv.URL, "AC111", "secret")
	sid, err := client.Send(context.Background(), "+15550001111", "+15559998888", "Sorry we missed you")
	if err != nil {
		t.Fatalf("Send() error: %v", err)
	}

	if sid != "SM123" {
		t.Errorf("sid = %q, want SM123", sid)
	}
	if gotPath != "/2010-04-01/Accounts/AC111/Messages.json" {
		t.Errorf("path = %q, want /2010-04-01/Accounts/AC111/Messages.json", gotPath)
	}
	if gotUser != "AC111" || gotPass != "secret" {
		t.Errorf("basic auth = %q:%q, want AC111:secret", gotUser, gotPass)
	}
	if gotContentType != "application/x-www-form-urlencoded" {
		t.Errorf("content-type = %q, want form-encoded", gotContentType)
	}
	if gotFrom != "+15550001111" || gotTo != "+15559998888" || gotBody != "Sorry we missed you" {
		t.Errorf("form = From=%q To=%q Body=%q", gotFrom, gotTo, gotBody)
	}
}

func TestTwilioClient_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":21211,"message":"invalid to number"}`))
	}))
	defer srv.Close()

	client := NewTwilioClient(srv.URL, "AC111", "secret")
	_, err := client.Send(context.Background(), "+15550001111", "bogus", "hello")

	var dErr *DispatchError
	if !errors.As(err, &dErr) {
		t.Fatalf("Send() error = %v, want *DispatchError", err)
	}
	if dErr.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d, want 400", dErr.StatusCode)
	}
	if dErr.Body == "" {
		t.Error("Body is empty, want raw response body")
	}
}

func TestTwilioClient_NotConfigured(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected network call with missing credentials")
	}))
	defer srv.Close()

	tests := []struct {
		name       string
		accountSID string
		authToken  string
		from       string
	}{
		{"missing account sid", "", "secret", "+15550001111"},
		{"missing auth token", "AC111", "", "+15550001111"},
		{"missing from number", "AC111", "secret", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewTwilioClient(srv.URL, tt.accountSID, tt.authToken)
			_, err := client.Send(context.Background(), tt.from, "+15559998888", "hello")
			if !errors.Is(err, ErrNotConfigured) {
				t.Errorf("Send() error = %v, want ErrNotConfigured", err)
			}
		})
	}
}

func TestTwilioClient_DryRun(t *testing.T) {
	client := NewTwilioClient(DefaultBaseURL, "AC111", "secret")
	if client.DryRun() {
		t.Error("live client DryRun() = true, want false")
	}
}
