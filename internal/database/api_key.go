package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/callcatch/callcatch/internal/database/models"
)

// apiKeyRepo implements APIKeyRepository.
type apiKeyRepo struct {
	db *DB
}

// NewAPIKeyRepository creates a new APIKeyRepository.
func NewAPIKeyRepository(db *DB) APIKeyRepository {
	return &apiKeyRepo{db: db}
}

// Create inserts a new API key.
func (r *apiKeyRepo) Create(ctx context.Context, key *models.APIKey) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO api_keys (token, name) VALUES (?, ?)`,
		key.Token, key.Name,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("inserting api key: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	key.ID = id
	return nil
}

// GetByID returns an API key by ID.
func (r *apiKeyRepo) GetByID(ctx context.Context, id int64) (*models.APIKey, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, token, name, created_at FROM api_keys WHERE id = ?`, id,
	))
}

// GetByToken returns the API key whose token exactly matches.
func (r *apiKeyRepo) GetByToken(ctx context.Context, token string) (*models.APIKey, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, token, name, created_at FROM api_keys WHERE token = ?`, token,
	))
}

func (r *apiKeyRepo) scanOne(row *sql.Row) (*models.APIKey, error) {
	var k models.APIKey
	err := row.Scan(&k.ID, &k.Token, &k.Name, &k.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning api key: %w", err)
	}
	return &k, nil
}
