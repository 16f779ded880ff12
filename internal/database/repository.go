package database

import (
	"context"

	"github.com/callcatch/callcatch/internal/database/models"
)

// APIKeyRepository manages tenant API keys.
type APIKeyRepository interface {
	Create(ctx context.Context, key *models.APIKey) error
	GetByID(ctx context.Context, id int64) (*models.APIKey, error)
	GetByToken(ctx context.Context, token string) (*models.APIKey, error)
}

// NumberRepository manages registered numbers and their fallback behavior.
type NumberRepository interface {
	Create(ctx context.Context, num *models.Number) error
	GetByTenantAndPhone(ctx context.Context, apiKeyID int64, phone string) (*models.Number, error)
	GetByPhone(ctx context.Context, phone string) (*models.Number, error)
	ListByTenant(ctx context.Context, apiKeyID int64) ([]models.Number, error)
	Count(ctx context.Context) (int64, error)
}

// CallEventRepository manages the append-only call-status log.
type CallEventRepository interface {
	Create(ctx context.Context, ev *models.CallEvent) error
	ListByTenant(ctx context.Context, apiKeyID int64) ([]models.CallEvent, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// MessageRepository manages the append-only SMS history.
type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	ListByTenant(ctx context.Context, apiKeyID int64) ([]models.Message, error)
	CountByDirection(ctx context.Context) (map[string]int64, error)
}

// ConversationRepository tracks the latest message per (tenant, to, from).
type ConversationRepository interface {
	Upsert(ctx context.Context, apiKeyID int64, toNumber, fromNumber, lastMessage string) error
	ListByTenant(ctx context.Context, apiKeyID int64) ([]models.Conversation, error)
}
