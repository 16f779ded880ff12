package database

import (
	"context"
	"fmt"

	"github.com/callcatch/callcatch/internal/database/models"
)

// messageRepo implements MessageRepository.
type messageRepo struct {
	db *DB
}

// NewMessageRepository creates a new MessageRepository.
func NewMessageRepository(db *DB) MessageRepository {
	return &messageRepo{db: db}
}

// Create appends a message to the history.
func (r *messageRepo) Create(ctx context.Context, msg *models.Message) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO messages (public_id, api_key_id, direction, to_number, from_number, body, provider_message_sid)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		msg.PublicID, msg.APIKeyID, msg.Direction, msg.ToNumber, msg.FromNumber,
		msg.Body, msg.ProviderMessageSID,
	)
	if err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	msg.ID = id
	return nil
}

// ListByTenant returns a tenant's messages, newest first.
func (r *messageRepo) ListByTenant(ctx context.Context, apiKeyID int64) ([]models.Message, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, public_id, api_key_id, direction, to_number, from_number, body, provider_message_sid, created_at
		 FROM messages WHERE api_key_id = ? ORDER BY id DESC`, apiKeyID)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var msgs []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.PublicID, &m.APIKeyID, &m.Direction,
			&m.ToNumber, &m.FromNumber, &m.Body, &m.ProviderMessageSID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning message row: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// CountByDirection returns total message counts grouped by direction,
// across all tenants.
func (r *messageRepo) CountByDirection(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT direction, COUNT(*) FROM messages GROUP BY direction`)
	if err != nil {
		return nil, fmt.Errorf("counting messages by direction: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var direction string
		var count int64
		if err := rows.Scan(&direction, &count); err != nil {
			return nil, fmt.Errorf("scanning message count row: %w", err)
		}
		counts[direction] = count
	}
	return counts, rows.Err()
}
