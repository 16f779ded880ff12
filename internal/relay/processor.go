package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/callcatch/callcatch/internal/database"
	"github.com/callcatch/callcatch/internal/database/models"
	"github.com/callcatch/callcatch/internal/sms"
)

// missedStatuses is the closed set of call statuses that trigger the SMS
// fallback. Matching is exact and case-sensitive.
var missedStatuses = map[string]bool{
	"no-answer": true,
	"busy":      true,
	"failed":    true,
}

// Result reports what a call event produced.
type Result struct {
	Triggered  bool
	DryRun     bool
	MessageSID string
}

// Processor is the missed-call decision engine: it logs the call event,
// classifies the status, resolves the registered behavior for the called
// number, and dispatches the fallback SMS.
type Processor struct {
	events        database.CallEventRepository
	numbers       database.NumberRepository
	messages      database.MessageRepository
	conversations database.ConversationRepository
	sender        sms.Sender
	fromNumber    string // configured sender identity for live dispatch
}

// NewProcessor creates a call-event processor.
func NewProcessor(
	events database.CallEventRepository,
	numbers database.NumberRepository,
	messages database.MessageRepository,
	conversations database.ConversationRepository,
	sender sms.Sender,
	fromNumber string,
) *Processor {
	return &Processor{
		events:        events,
		numbers:       numbers,
		messages:      messages,
		conversations: conversations,
		sender:        sender,
		fromNumber:    fromNumber,
	}
}

// ProcessCallEvent handles one call-status notification for a tenant.
//
// The event is appended to the log unconditionally, before any fallback
// decision. Non-missed statuses short-circuit with Triggered=false. For a
// missed status the registered behavior is resolved by (tenant, to); if
// none exists, ErrNumberNotRegistered is returned with the event already
// recorded. On dispatch, the outbound message is persisted whether or not
// the provider accepted it, and a dispatch failure is surfaced after the
// attempt has been recorded. Providers retry webhooks; no deduplication is
// performed, so each delivery produces its own event (and send).
func (p *Processor) ProcessCallEvent(ctx context.Context, tenantID int64, to, from, status, providerCallSID string) (Result, error) {
	if !strings.HasPrefix(to, "+") || !strings.HasPrefix(from, "+") {
		return Result{}, &ValidationError{Msg: "to/from must be E.164 like +15551234567"}
	}
	if status == "" {
		return Result{}, &ValidationError{Msg: "status required"}
	}

	ev := &models.CallEvent{
		PublicID:   uuid.NewString(),
		APIKeyID:   tenantID,
		ToNumber:   to,
		FromNumber: from,
		Status:     status,
	}
	if providerCallSID != "" {
		ev.ProviderCallSID = &providerCallSID
	}
	if err := p.events.Create(ctx, ev); err != nil {
		return Result{}, fmt.Errorf("recording call event: %w", err)
	}

	if !missedStatuses[status] {
		slog.Debug("call status not actionable", "status", status, "to", to)
		return Result{Triggered: false}, nil
	}

	num, err := p.numbers.GetByTenantAndPhone(ctx, tenantID, to)
	if err != nil {
		return Result{}, fmt.Errorf("resolving number behavior: %w", err)
	}
	if num == nil {
		return Result{}, ErrNumberNotRegistered
	}

	sid, sendErr := p.sender.Send(ctx, p.fromNumber, from, num.FallbackSMS)
	if errors.Is(sendErr, sms.ErrNotConfigured) {
		// No dispatch was attempted, so there is nothing to record.
		return Result{}, sendErr
	}

	msg := &models.Message{
		PublicID:   uuid.NewString(),
		APIKeyID:   tenantID,
		Direction:  models.DirectionOutbound,
		ToNumber:   from,
		FromNumber: to,
		Body:       num.FallbackSMS,
	}
	if sid != "" {
		msg.ProviderMessageSID = &sid
	}
	if err := p.messages.Create(ctx, msg); err != nil {
		return Result{}, fmt.Errorf("recording outbound message: %w", err)
	}
	if err := p.conversations.Upsert(ctx, tenantID, to, from, num.FallbackSMS); err != nil {
		slog.Error("failed to update conversation", "error", err, "to", to, "from", from)
	}

	if sendErr != nil {
		// The attempt is on record; surface the failure without retrying.
		return Result{Triggered: true}, sendErr
	}

	slog.Info("fallback sms dispatched",
		"to", from,
		"dry_run", p.sender.DryRun(),
		"message_sid", sid,
	)

	return Result{Triggered: true, DryRun: p.sender.DryRun(), MessageSID: sid}, nil
}
