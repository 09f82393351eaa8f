package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/icfp25/aedificium/pkg/apperr"
	"github.com/icfp25/aedificium/pkg/database"
)

// SessionDetail pairs a session with its full, creation-ordered api log.
type SessionDetail struct {
	Session database.Session
	APILogs []database.APILog
}

// ListSessions returns every session, newest first.
func (s *Service) ListSessions(ctx context.Context) ([]database.Session, error) {
	out, err := s.db.Sessions.List(ctx)
	if err != nil {
		return nil, apperr.Wrap("orchestrator.ListSessions", apperr.KindPersistence, "list sessions: %w", err)
	}
	return out, nil
}

// GetCurrentActive returns the single active session, or nil if none.
func (s *Service) GetCurrentActive(ctx context.Context) (*database.Session, error) {
	sess, err := s.db.Sessions.GetActive(ctx)
	if errors.Is(err, database.ErrNoActiveSession) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap("orchestrator.GetCurrentActive", apperr.KindPersistence, "get active session: %w", err)
	}
	return sess, nil
}

// GetSession returns a session and its full api log.
func (s *Service) GetSession(ctx context.Context, sessionID string) (*SessionDetail, error) {
	sess, err := s.db.Sessions.Get(ctx, sessionID)
	if errors.Is(err, database.ErrSessionNotFound) {
		return nil, apperr.New("orchestrator.GetSession", apperr.KindNotFound, fmt.Errorf("session %s not found", sessionID))
	}
	if err != nil {
		return nil, apperr.Wrap("orchestrator.GetSession", apperr.KindPersistence, "get session: %w", err)
	}
	logs, err := s.db.APILogs.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, apperr.Wrap("orchestrator.GetSession", apperr.KindPersistence, "list api logs: %w", err)
	}
	return &SessionDetail{Session: *sess, APILogs: logs}, nil
}

// ExportSession returns a normalised dump of a session and its log; for now
// this is the same shape as GetSession, since the full api log already is a
// faithful, replayable record of the session.
func (s *Service) ExportSession(ctx context.Context, sessionID string) (*SessionDetail, error) {
	return s.GetSession(ctx, sessionID)
}
