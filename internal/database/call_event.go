package database

import (
	"context"
	"fmt"

	"github.com/callcatch/callcatch/internal/database/models"
)

// callEventRepo implements CallEventRepository.
type callEventRepo struct {
	db *DB
}

// NewCallEventRepository creates a new CallEventRepository.
func NewCallEventRepository(db *DB) CallEventRepository {
	return &callEventRepo{db: db}
}

// Create appends a call event to the log. Duplicate provider retries each
// get their own row.
func (r *callEventRepo) Create(ctx context.Context, ev *models.CallEvent) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO call_events (public_id, api_key_id, to_number, from_number, status, provider_call_sid)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ev.PublicID, ev.APIKeyID, ev.ToNumber, ev.FromNumber, ev.Status, ev.ProviderCallSID,
	)
	if err != nil {
		return fmt.Errorf("inserting call event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	ev.ID = id
	return nil
}

// ListByTenant returns a tenant's call events, newest first.
func (r *callEventRepo) ListByTenant(ctx context.Context, apiKeyID int64) ([]models.CallEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, public_id, api_key_id, to_number, from_number, status, provider_call_sid, created_at
		 FROM call_events WHERE api_key_id = ? ORDER BY id DESC`, apiKeyID)
	if err != nil {
		return nil, fmt.Errorf("querying call events: %w", err)
	}
	defer rows.Close()

	var events []models.CallEvent
	for rows.Next() {
		var e models.CallEvent
		if err := rows.Scan(&e.ID, &e.PublicID, &e.APIKeyID, &e.ToNumber,
			&e.FromNumber, &e.Status, &e.ProviderCallSID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning call event row: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// CountByStatus returns total call-event counts grouped by status, across
// all tenants.
func (r *callEventRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM call_events GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("counting call events by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scanning call event count row: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
