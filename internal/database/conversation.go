package database

import (
	"context"
	"fmt"

	"github.com/callcatch/callcatch/internal/database/models"
)

// conversationRepo implements ConversationRepository.
type conversationRepo struct {
	db *DB
}

// NewConversationRepository creates a new ConversationRepository.
func NewConversationRepository(db *DB) ConversationRepository {
	return &conversationRepo{db: db}
}

// Upsert creates the (tenant, to, from) conversation if it does not exist
// and refreshes its last message either way.
func (r *conversationRepo) Upsert(ctx context.Context, apiKeyID int64, toNumber, fromNumber, lastMessage string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO conversations (api_key_id, to_number, from_number, last_message, last_message_at)
		 VALUES (?, ?, ?, ?, datetime('now'))
		 ON CONFLICT(api_key_id, to_number, from_number)
		 DO UPDATE SET last_message = excluded.last_message, last_message_at = datetime('now')`,
		apiKeyID, toNumber, fromNumber, lastMessage,
	)
	if err != nil {
		return fmt.Errorf("upserting conversation: %w", err)
	}
	return nil
}

// ListByTenant returns a tenant's conversations, most recently active first.
func (r *conversationRepo) ListByTenant(ctx context.Context, apiKeyID int64) ([]models.Conversation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, api_key_id, to_number, from_number, last_message, last_message_at, created_at
		 FROM conversations WHERE api_key_id = ? ORDER BY last_message_at DESC`, apiKeyID)
	if err != nil {
		return nil, fmt.Errorf("querying conversations: %w", err)
	}
	defer rows.Close()

	var convs []models.Conversation
	for rows.Next() {
		var c models.Conversation
		if err := rows.Scan(&c.ID, &c.APIKeyID, &c.ToNumber, &c.FromNumber,
			&c.LastMessage, &c.LastMessageAt, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning conversation row: %w", err)
		}
		convs = append(convs, c)
	}
	return convs, rows.Err()
}
