package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/callcatch/callcatch/internal/database/models"
)

// numberRepo implements NumberRepository.
type numberRepo struct {
	db *DB
}

// NewNumberRepository creates a new NumberRepository.
func NewNumberRepository(db *DB) NumberRepository {
	return &numberRepo{db: db}
}

// Create inserts a new registered number. Returns ErrDuplicate if the
// (api_key_id, phone) pair is already registered.
func (r *numberRepo) Create(ctx context.Context, num *models.Number) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO numbers (api_key_id, phone, fallback_sms, reply_webhook_url)
		 VALUES (?, ?, ?, ?)`,
		num.APIKeyID, num.Phone, num.FallbackSMS, num.ReplyWebhookURL,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("inserting number: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	num.ID = id
	return nil
}

// GetByTenantAndPhone returns the number registered by a tenant for a phone.
func (r *numberRepo) GetByTenantAndPhone(ctx context.Context, apiKeyID int64, phone string) (*models.Number, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, api_key_id, phone, fallback_sms, reply_webhook_url, created_at
		 FROM numbers WHERE api_key_id = ? AND phone = ?`, apiKeyID, phone,
	))
}

// GetByPhone returns a registered number matched by phone alone. Used by the
// inbound webhook path, where the caller is the provider rather than an
// authenticated tenant.
func (r *numberRepo) GetByPhone(ctx context.Context, phone string) (*models.Number, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, api_key_id, phone, fallback_sms, reply_webhook_url, created_at
		 FROM numbers WHERE phone = ?`, phone,
	))
}

// ListByTenant returns all numbers registered by a tenant.
func (r *numberRepo) ListByTenant(ctx context.Context, apiKeyID int64) ([]models.Number, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, api_key_id, phone, fallback_sms, reply_webhook_url, created_at
		 FROM numbers WHERE api_key_id = ? ORDER BY phone`, apiKeyID)
	if err != nil {
		return nil, fmt.Errorf("querying numbers: %w", err)
	}
	defer rows.Close()

	var nums []models.Number
	for rows.Next() {
		var n models.Number
		if err := rows.Scan(&n.ID, &n.APIKeyID, &n.Phone, &n.FallbackSMS,
			&n.ReplyWebhookURL, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning number row: %w", err)
		}
		nums = append(nums, n)
	}
	return nums, rows.Err()
}

// Count returns the total number of registered numbers across all tenants.
func (r *numberRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM numbers`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting numbers: %w", err)
	}
	return count, nil
}

func (r *numberRepo) scanOne(row *sql.Row) (*models.Number, error) {
	var n models.Number
	err := row.Scan(&n.ID, &n.APIKeyID, &n.Phone, &n.FallbackSMS,
		&n.ReplyWebhookURL, &n.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning number: %w", err)
	}
	return &n, nil
}
