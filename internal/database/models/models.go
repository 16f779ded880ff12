package models

import "time"

// Message direction values. No other value is ever stored.
const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

// APIKey identifies a tenant. The token is an opaque secret presented as a
// bearer credential; keys are immutable once created.
type APIKey struct {
	ID        int64
	Token     string
	Name      string
	CreatedAt time.Time
}

// Number maps a registered phone number to its missed-call behavior:
// the fallback SMS text and the URL inbound replies are forwarded to.
// The (APIKeyID, Phone) pair is unique.
type Number struct {
	ID              int64
	APIKeyID        int64
	Phone           string // E.164, leading "+"
	FallbackSMS     string
	ReplyWebhookURL string
	CreatedAt       time.Time
}

// CallEvent is one row per call-status notification received from the
// provider. The log is append-only and records duplicates as-is.
type CallEvent struct {
	ID              int64
	PublicID        string
	APIKeyID        int64
	ToNumber        string
	FromNumber      string
	Status          string
	ProviderCallSID *string
	CreatedAt       time.Time
}

// Message is one row per SMS sent or received. ProviderMessageSID is nil
// for simulated sends and for outbound dispatches that failed.
type Message struct {
	ID                 int64
	PublicID           string
	APIKeyID           int64
	Direction          string // DirectionInbound | DirectionOutbound
	ToNumber           string
	FromNumber         string
	Body               string
	ProviderMessageSID *string
	CreatedAt          time.Time
}

// Conversation tracks the latest message exchanged between a registered
// number and a remote party. One row per (APIKeyID, ToNumber, FromNumber).
type Conversation struct {
	ID            int64
	APIKeyID      int64
	ToNumber      string
	FromNumber    string
	LastMessage   string
	LastMessageAt time.Time
	CreatedAt     time.Time
}
