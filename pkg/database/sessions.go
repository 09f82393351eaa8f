package database

import (
	"context"
	stdsql "database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNoActiveSession is returned by GetActive when no session is active.
var ErrNoActiveSession = errors.New("database: no active session")

// ErrSessionNotFound is returned when a session_id has no matching row.
var ErrSessionNotFound = errors.New("database: session not found")

// SessionRepo persists the sessions table.
type SessionRepo struct {
	db Queryer
}

// CreateActive inserts a new session already in the active state, the path
// taken when select succeeds with no other session active.
func (r *SessionRepo) CreateActive(ctx context.Context, sessionID string, userName, problemName *string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (session_id, user_name, problem_name, status) VALUES ($1, $2, $3, 'active')`,
		sessionID, userName, problemName)
	if err != nil {
		return fmt.Errorf("insert active session: %w", err)
	}
	return nil
}

// CreatePending inserts a new session in the pending state; its problem
// name is unknown to callers until it is promoted to active.
func (r *SessionRepo) CreatePending(ctx context.Context, sessionID string, userName *string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (session_id, user_name, status) VALUES ($1, $2, 'pending')`,
		sessionID, userName)
	if err != nil {
		return fmt.Errorf("insert pending session: %w", err)
	}
	return nil
}

// Activate transitions a pending session to active, recording problemName.
func (r *SessionRepo) Activate(ctx context.Context, sessionID, problemName string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET status = 'active', problem_name = $2 WHERE session_id = $1 AND status = 'pending'`,
		sessionID, problemName)
	if err != nil {
		return fmt.Errorf("activate session: %w", err)
	}
	return checkRowsAffected(res, ErrSessionNotFound)
}

// Complete transitions an active session to completed.
func (r *SessionRepo) Complete(ctx context.Context, sessionID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET status = 'completed', completed_at = now() WHERE session_id = $1 AND status = 'active'`,
		sessionID)
	if err != nil {
		return fmt.Errorf("complete session: %w", err)
	}
	return checkRowsAffected(res, ErrSessionNotFound)
}

// Fail transitions an active or pending session to failed (used by abort).
func (r *SessionRepo) Fail(ctx context.Context, sessionID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET status = 'failed', completed_at = now() WHERE session_id = $1 AND status IN ('active', 'pending')`,
		sessionID)
	if err != nil {
		return fmt.Errorf("fail session: %w", err)
	}
	return checkRowsAffected(res, ErrSessionNotFound)
}

// GetActive returns the single active session, or ErrNoActiveSession.
func (r *SessionRepo) GetActive(ctx context.Context) (*Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT session_id, user_name, problem_name, status, created_at, completed_at
		   FROM sessions WHERE status = 'active'`)
	s, err := scanSession(row)
	if errors.Is(err, stdsql.ErrNoRows) {
		return nil, ErrNoActiveSession
	}
	return s, err
}

// GetOldestPending returns the earliest-created pending session, or
// ErrSessionNotFound if the queue is empty.
func (r *SessionRepo) GetOldestPending(ctx context.Context) (*Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT session_id, user_name, problem_name, status, created_at, completed_at
		   FROM sessions WHERE status = 'pending' ORDER BY created_at ASC LIMIT 1`)
	s, err := scanSession(row)
	if errors.Is(err, stdsql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	return s, err
}

// Get returns the session with the given id.
func (r *SessionRepo) Get(ctx context.Context, sessionID string) (*Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT session_id, user_name, problem_name, status, created_at, completed_at
		   FROM sessions WHERE session_id = $1`, sessionID)
	s, err := scanSession(row)
	if errors.Is(err, stdsql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	return s, err
}

// GetActiveByUser returns the active session owned by userName, if any.
func (r *SessionRepo) GetActiveByUser(ctx context.Context, userName string) (*Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT session_id, user_name, problem_name, status, created_at, completed_at
		   FROM sessions WHERE status = 'active' AND user_name = $1`, userName)
	s, err := scanSession(row)
	if errors.Is(err, stdsql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	return s, err
}

// List returns every session, newest first.
func (r *SessionRepo) List(ctx context.Context) ([]Session, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT session_id, user_name, problem_name, status, created_at, completed_at
		   FROM sessions ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.SessionID, &s.UserName, &s.ProblemName, &s.Status, &s.CreatedAt, &s.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DeleteTerminalOlderThan removes completed/failed sessions whose
// completed_at is older than cutoff, cascading to their api_logs and any
// stray pending_requests row. Returns the number of sessions removed.
func (r *SessionRepo) DeleteTerminalOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE status IN ('completed', 'failed') AND completed_at < $1`,
		cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old terminal sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*Session, error) {
	var s Session
	if err := row.Scan(&s.SessionID, &s.UserName, &s.ProblemName, &s.Status, &s.CreatedAt, &s.CompletedAt); err != nil {
		if errors.Is(err, stdsql.ErrNoRows) {
			return nil, stdsql.ErrNoRows
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}
	return &s, nil
}

func checkRowsAffected(res stdsql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
