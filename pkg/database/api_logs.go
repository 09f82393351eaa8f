package database

import (
	"context"
	"fmt"
)

// APILogRepo persists the api_logs table: the durable record of every
// upstream request/response pair, written before a response is ever
// returned to a caller.
type APILogRepo struct {
	db Queryer
}

// Insert durably records one upstream interaction.
func (r *APILogRepo) Insert(ctx context.Context, sessionID string, endpoint Endpoint, requestBody, responseBody []byte, status int) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO api_logs (session_id, endpoint, request_body, response_body, response_status)
		   VALUES ($1, $2, $3, $4, $5)`,
		sessionID, endpoint, requestBody, responseBody, status)
	if err != nil {
		return fmt.Errorf("insert api log: %w", err)
	}
	return nil
}

// ListBySession returns every logged interaction for a session, ordered by
// creation time (matching submission order, per the ordering guarantee).
func (r *APILogRepo) ListBySession(ctx context.Context, sessionID string) ([]APILog, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, session_id, endpoint, request_body, response_body, response_status, created_at
		   FROM api_logs WHERE session_id = $1 ORDER BY created_at ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list api logs: %w", err)
	}
	defer rows.Close()

	var out []APILog
	for rows.Next() {
		var l APILog
		if err := rows.Scan(&l.ID, &l.SessionID, &l.Endpoint, &l.RequestBody, &l.ResponseBody, &l.ResponseStatus, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan api log row: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
