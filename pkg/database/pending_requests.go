package database

import (
	"context"
	stdsql "database/sql"
	"errors"
	"fmt"
)

// ErrNoPendingRequest is returned when a session has no stored select payload.
var ErrNoPendingRequest = errors.New("database: no pending request")

// PendingRepo persists the pending_requests table: the stored select
// payloads for queued sessions, replayed upstream exactly once on promotion.
type PendingRepo struct {
	db Queryer
}

// Store records the select payload for a newly queued session.
func (r *PendingRepo) Store(ctx context.Context, sessionID, problemName string, userName *string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO pending_requests (session_id, problem_name, user_name) VALUES ($1, $2, $3)`,
		sessionID, problemName, userName)
	if err != nil {
		return fmt.Errorf("store pending request: %w", err)
	}
	return nil
}

// Get returns the stored select payload for sessionID.
func (r *PendingRepo) Get(ctx context.Context, sessionID string) (*PendingRequest, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT session_id, problem_name, user_name, created_at FROM pending_requests WHERE session_id = $1`,
		sessionID)
	var p PendingRequest
	if err := row.Scan(&p.SessionID, &p.ProblemName, &p.UserName, &p.CreatedAt); err != nil {
		if errors.Is(err, stdsql.ErrNoRows) {
			return nil, ErrNoPendingRequest
		}
		return nil, fmt.Errorf("get pending request: %w", err)
	}
	return &p, nil
}

// Delete removes the stored payload once a session has been promoted.
func (r *PendingRepo) Delete(ctx context.Context, sessionID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM pending_requests WHERE session_id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("delete pending request: %w", err)
	}
	return nil
}
