package relay

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/callcatch/callcatch/internal/database"
	"github.com/callcatch/callcatch/internal/database/models"
)

// Inbound relays provider-originated SMS to tenant webhooks. The inbound
// webhook is unauthenticated; the tenant is derived from the registered
// number matching the To field.
type Inbound struct {
	numbers       database.NumberRepository
	messages      database.MessageRepository
	conversations database.ConversationRepository
	forwarder     *Forwarder
}

// NewInbound creates an inbound SMS relay.
func NewInbound(
	numbers database.NumberRepository,
	messages database.MessageRepository,
	conversations database.ConversationRepository,
	forwarder *Forwarder,
) *Inbound {
	return &Inbound{
		numbers:       numbers,
		messages:      messages,
		conversations: conversations,
		forwarder:     forwarder,
	}
}

// HandleInboundSMS persists an inbound SMS and forwards it to the matched
// tenant's reply webhook. A message for an unregistered number is dropped
// silently; forward failures are logged and swallowed. The HTTP handler
// acknowledges the provider with 200 regardless of what happens here.
func (i *Inbound) HandleInboundSMS(ctx context.Context, to, from, body, providerMessageSID string) error {
	num, err := i.numbers.GetByPhone(ctx, to)
	if err != nil {
		return fmt.Errorf("looking up number: %w", err)
	}
	if num == nil {
		slog.Debug("inbound sms for unregistered number, dropping", "to", to)
		return nil
	}

	msg := &models.Message{
		PublicID:   uuid.NewString(),
		APIKeyID:   num.APIKeyID,
		Direction:  models.DirectionInbound,
		ToNumber:   to,
		FromNumber: from,
		Body:       body,
	}
	if providerMessageSID != "" {
		msg.ProviderMessageSID = &providerMessageSID
	}
	if err := i.messages.Create(ctx, msg); err != nil {
		return fmt.Errorf("recording inbound message: %w", err)
	}
	if err := i.conversations.Upsert(ctx, num.APIKeyID, to, from, body); err != nil {
		slog.Error("failed to update conversation", "error", err, "to", to, "from", from)
	}

	if err := i.forwarder.Forward(ctx, num.ReplyWebhookURL, to, from, body); err != nil {
		slog.Warn("failed to forward reply", "error", err, "webhook_url", num.ReplyWebhookURL)
	}

	return nil
}
