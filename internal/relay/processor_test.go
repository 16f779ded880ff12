package relay

import (
	"context"
	"errors"
	"testing"

	"github.com/callcatch/callcatch/internal/database"
	"github.com/callcatch/callcatch/internal/database/models"
	"github.com/callcatch/callcatch/internal/sms"
)

// fakeSender records dispatch calls and returns a canned result.
type fakeSender struct {
	dryRun bool
	sid    string
	err    error

	calls []fakeSendCall
}

type fakeSendCall struct {
	from, to, body string
}

func (f *fakeSender) Send(ctx context.Context, from, to, body string) (string, error) {
	f.calls = append(f.calls, fakeSendCall{from: from, to: to, body: body})
	return f.sid, f.err
}

func (f *fakeSender) DryRun() bool {
	return f.dryRun
}

type processorEnv struct {
	db        *database.DB
	processor *Processor
	sender    *fakeSender
	tenantID  int64

	events   database.CallEventRepository
	numbers  database.NumberRepository
	messages database.MessageRepository
	convs    database.ConversationRepository
}

func newProcessorEnv(t *testing.T, sender *fakeSender) *processorEnv {
	t.Helper()

	db, err := database.Open(t.TempDir())
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	key := &models.APIKey{Token: "sk_processor", Name: "test"}
	if err := database.NewAPIKeyRepository(db).Create(context.Background(), key); err != nil {
		t.Fatalf("creating api key: %v", err)
	}

	events := database.NewCallEventRepository(db)
	numbers := database.NewNumberRepository(db)
	messages := database.NewMessageRepository(db)
	convs := database.NewConversationRepository(db)

	return &processorEnv{
		db:        db,
		processor: NewProcessor(events, numbers, messages, convs, sender, "+15550001111"),
		sender:    sender,
		tenantID:  key.ID,
		events:    events,
		numbers:   numbers,
		messages:  messages,
		convs:     convs,
	}
}

func (e *processorEnv) registerNumber(t *testing.T, phone, fallback string) {
	t.Helper()
	num := &models.Number{
		APIKeyID:        e.tenantID,
		Phone:           phone,
		FallbackSMS:     fallback,
		ReplyWebhookURL: "https://example.com/hook",
	}
	if err := e.numbers.Create(context.Background(), num); err != nil {
		t.Fatalf("registering number: %v", err)
	}
}

func (e *processorEnv) countRows(t *testing.T) (events, messages int) {
	t.Helper()
	evs, err := e.events.ListByTenant(context.Background(), e.tenantID)
	if err != nil {
		t.Fatalf("listing events: %v", err)
	}
	msgs, err := e.messages.ListByTenant(context.Background(), e.tenantID)
	if err != nil {
		t.Fatalf("listing messages: %v", err)
	}
	return len(evs), len(msgs)
}

func TestProcessCallEvent_MissedStatusTriggersFallback(t *testing.T) {
	sender := &fakeSender{sid: "SM999"}
	env := newProcessorEnv(t, sender)
	env.registerNumber(t, "+15551230000", "Sorry we missed you")

	for _, status := range []string{"no-answer", "busy", "failed"} {
		t.Run(status, func(t *testing.T) {
			result, err := env.processor.ProcessCallEvent(context.Background(),
				env.tenantID, "+15551230000", "+15559998888", status, "")
			if err != nil {
				t.Fatalf("ProcessCallEvent() error: %v", err)
			}
			if !result.Triggered {
				t.Error("Triggered = false, want true")
			}
			if result.MessageSID != "SM999" {
				t.Errorf("MessageSID = %q, want SM999", result.MessageSID)
			}
		})
	}

	if len(sender.calls) != 3 {
		t.Fatalf("sender called %d times, want 3", len(sender.calls))
	}
	// SMS goes to the original caller from the configured sender identity.
	call := sender.calls[0]
	if call.from != "+15550001111" || call.to != "+15559998888" || call.body != "Sorry we missed you" {
		t.Errorf("Send(from=%q, to=%q, body=%q)", call.from, call.to, call.body)
	}

	msgs, err := env.messages.ListByTenant(context.Background(), env.tenantID)
	if err != nil {
		t.Fatalf("listing messages: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want 3", len(msgs))
	}
	m := msgs[0]
	if m.Direction != models.DirectionOutbound {
		t.Errorf("Direction = %q, want outbound", m.Direction)
	}
	if m.ToNumber != "+15559998888" || m.FromNumber != "+15551230000" {
		t.Errorf("message to=%q from=%q", m.ToNumber, m.FromNumber)
	}
	if m.Body != "Sorry we missed you" {
		t.Errorf("Body = %q", m.Body)
	}
	if m.ProviderMessageSID == nil || *m.ProviderMessageSID != "SM999" {
		t.Errorf("ProviderMessageSID = %v, want SM999", m.ProviderMessageSID)
	}
}

func TestProcessCallEvent_NonMissedStatusShortCircuits(t *testing.T) {
	sender := &fakeSender{}
	env := newProcessorEnv(t, sender)
	env.registerNumber(t, "+15551230000", "Sorry we missed you")

	for _, status := range []string{"completed", "ringing", "in-progress", "NO-ANSWER"} {
		result, err := env.processor.ProcessCallEvent(context.Background(),
			env.tenantID, "+15551230000", "+15559998888", status, "")
		if err != nil {
			t.Fatalf("ProcessCallEvent(%q) error: %v", status, err)
		}
		if result.Triggered {
			t.Errorf("ProcessCallEvent(%q) Triggered = true, want false", status)
		}
	}

	if len(sender.calls) != 0 {
		t.Errorf("sender called %d times, want 0", len(sender.calls))
	}

	// The log is unconditional even for non-actionable statuses.
	events, messages := env.countRows(t)
	if events != 4 {
		t.Errorf("got %d call events, want 4", events)
	}
	if messages != 0 {
		t.Errorf("got %d messages, want 0", messages)
	}
}

func TestProcessCallEvent_UnregisteredNumber(t *testing.T) {
	sender := &fakeSender{}
	env := newProcessorEnv(t, sender)

	_, err := env.processor.ProcessCallEvent(context.Background(),
		env.tenantID, "+15551230000", "+15559998888", "no-answer", "")
	if !errors.Is(err, ErrNumberNotRegistered) {
		t.Fatalf("error = %v, want ErrNumberNotRegistered", err)
	}

	// The event is still recorded; no message is produced.
	events, messages := env.countRows(t)
	if events != 1 {
		t.Errorf("got %d call events, want 1", events)
	}
	if messages != 0 {
		t.Errorf("got %d messages, want 0", messages)
	}
	if len(sender.calls) != 0 {
		t.Errorf("sender called %d times, want 0", len(sender.calls))
	}
}

func TestProcessCallEvent_ValidationErrors(t *testing.T) {
	sender := &fakeSender{}
	env := newProcessorEnv(t, sender)

	tests := []struct {
		name             string
		to, from, status string
	}{
		{"to missing plus", "15551230000", "+15559998888", "no-answer"},
		{"from missing plus", "+15551230000", "15559998888", "no-answer"},
		{"empty to", "", "+15559998888", "no-answer"},
		{"empty status", "+15551230000", "+15559998888", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.processor.ProcessCallEvent(context.Background(),
				env.tenantID, tt.to, tt.from, tt.status, "")
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("error = %v, want *ValidationError", err)
			}
		})
	}

	// Validation happens before any write.
	events, messages := env.countRows(t)
	if events != 0 || messages != 0 {
		t.Errorf("got %d events, %d messages, want 0, 0", events, messages)
	}
}

func TestProcessCallEvent_DispatchFailureStillRecorded(t *testing.T) {
	sender := &fakeSender{err: &sms.DispatchError{StatusCode: 400, Body: "bad request"}}
	env := newProcessorEnv(t, sender)
	env.registerNumber(t, "+15551230000", "Sorry we missed you")

	_, err := env.processor.ProcessCallEvent(context.Background(),
		env.tenantID, "+15551230000", "+15559998888", "busy", "")

	var dErr *sms.DispatchError
	if !errors.As(err, &dErr) {
		t.Fatalf("error = %v, want *DispatchError", err)
	}

	// The failed attempt is on record with no provider sid.
	msgs, listErr := env.messages.ListByTenant(context.Background(), env.tenantID)
	if listErr != nil {
		t.Fatalf("listing messages: %v", listErr)
	}
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if msgs[0].ProviderMessageSID != nil {
		t.Errorf("ProviderMessageSID = %v, want nil after failed dispatch", msgs[0].ProviderMessageSID)
	}
}

func TestProcessCallEvent_NotConfigured(t *testing.T) {
	sender := &fakeSender{err: sms.ErrNotConfigured}
	env := newProcessorEnv(t, sender)
	env.registerNumber(t, "+15551230000", "Sorry we missed you")

	_, err := env.processor.ProcessCallEvent(context.Background(),
		env.tenantID, "+15551230000", "+15559998888", "failed", "")
	if !errors.Is(err, sms.ErrNotConfigured) {
		t.Fatalf("error = %v, want ErrNotConfigured", err)
	}

	// No dispatch happened, so no message row; the event itself is logged.
	events, messages := env.countRows(t)
	if events != 1 {
		t.Errorf("got %d call events, want 1", events)
	}
	if messages != 0 {
		t.Errorf("got %d messages, want 0", messages)
	}
}

func TestProcessCallEvent_DryRun(t *testing.T) {
	sender := &fakeSender{dryRun: true}
	env := newProcessorEnv(t, sender)
	env.registerNumber(t, "+15551230000", "Sorry we missed you")

	result, err := env.processor.ProcessCallEvent(context.Background(),
		env.tenantID, "+15551230000", "+15559998888", "no-answer", "")
	if err != nil {
		t.Fatalf("ProcessCallEvent() error: %v", err)
	}
	if !result.DryRun {
		t.Error("DryRun = false, want true")
	}
	if result.MessageSID != "" {
		t.Errorf("MessageSID = %q, want empty in dry run", result.MessageSID)
	}

	msgs, err := env.messages.ListByTenant(context.Background(), env.tenantID)
	if err != nil {
		t.Fatalf("listing messages: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if msgs[0].ProviderMessageSID != nil {
		t.Errorf("ProviderMessageSID = %v, want nil in dry run", msgs[0].ProviderMessageSID)
	}
}

func TestProcessCallEvent_NoDeduplication(t *testing.T) {
	sender := &fakeSender{sid: "SM1"}
	env := newProcessorEnv(t, sender)
	env.registerNumber(t, "+15551230000", "Sorry we missed you")

	// Providers retry webhooks; each delivery triggers independently.
	for i := 0; i < 2; i++ {
		if _, err := env.processor.ProcessCallEvent(context.Background(),
			env.tenantID, "+15551230000", "+15559998888", "no-answer", "CA777"); err != nil {
			t.Fatalf("ProcessCallEvent() attempt %d error: %v", i+1, err)
		}
	}

	events, messages := env.countRows(t)
	if events != 2 {
		t.Errorf("got %d call events, want 2", events)
	}
	if messages != 2 {
		t.Errorf("got %d messages, want 2", messages)
	}
}
