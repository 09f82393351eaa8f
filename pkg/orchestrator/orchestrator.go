// Package orchestrator mediates between callers and the upstream oracle: it
// enforces single-active-session semantics, queues additional select calls
// FIFO, and durably logs every upstream interaction before returning it to a
// caller. The single-writer guarantee is realized with an in-process mutex
// around the critical section, backed by a DB-level partial unique index so
// a second process (or a crash-recovered one) still cannot create two active
// rows.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/icfp25/aedificium/pkg/apperr"
	"github.com/icfp25/aedificium/pkg/automaton"
	"github.com/icfp25/aedificium/pkg/database"
	"github.com/icfp25/aedificium/pkg/oracle"
	"github.com/icfp25/aedificium/pkg/redact"
)

// Service implements the session orchestrator's operations.
type Service struct {
	db     *database.Client
	oracle *oracle.Client
	logger *slog.Logger

	// mu guards the critical section described in the concurrency model:
	// the active-session check, session creation, status transitions, and
	// queue-head promotion. Held for the whole of Select and Abort and for
	// the terminal transition of Guess, including the upstream select calls
	// that activation and promotion make; Explore and the upstream guess
	// call run without it.
	mu sync.Mutex
}

// New constructs a Service.
func New(db *database.Client, oracleClient *oracle.Client) *Service {
	return &Service{db: db, oracle: oracleClient, logger: slog.Default()}
}

// SessionRef identifies which session an explore/guess call targets: an
// explicit session_id wins over user_name when both are given.
type SessionRef struct {
	SessionID *string
	UserName  *string
}

// SelectResult is the outcome of Select.
type SelectResult struct {
	SessionID   string
	ProblemName string
	Status      database.SessionStatus
}

// ExploreResult is the outcome of Explore.
type ExploreResult struct {
	SessionID  string
	Results    [][]int
	QueryCount int
}

// GuessResult is the outcome of Guess.
type GuessResult struct {
	SessionID string
	Correct   bool
}

// Select creates or queues a session for problemName. If no session is
// active, it reserves the active slot and forwards select upstream
// immediately. If a session is already active, it either fails with a
// conflict (enqueue=false) or queues a pending session for later FIFO
// promotion (enqueue=true).
func (s *Service) Select(ctx context.Context, problemName string, userName *string, enqueue bool) (*SelectResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Sessions.GetActive(ctx)
	switch {
	case errors.Is(err, database.ErrNoActiveSession):
		return s.activateNew(ctx, problemName, userName)
	case err != nil:
		return nil, apperr.Wrap("orchestrator.Select", apperr.KindPersistence, "check active session: %w", err)
	default:
		if !enqueue {
			return nil, apperr.New("orchestrator.Select", apperr.KindConflict, fmt.Errorf("a session is already active"))
		}
		return s.enqueuePending(ctx, problemName, userName)
	}
}

func (s *Service) activateNew(ctx context.Context, problemName string, userName *string) (*SelectResult, error) {
	sessionID := uuid.NewString()
	if err := s.db.Sessions.CreateActive(ctx, sessionID, userName, &problemName); err != nil {
		return nil, apperr.Wrap("orchestrator.Select", apperr.KindPersistence, "create active session: %w", err)
	}
	return s.callSelectUpstream(ctx, sessionID, problemName)
}

func (s *Service) enqueuePending(ctx context.Context, problemName string, userName *string) (*SelectResult, error) {
	sessionID := uuid.NewString()
	err := s.db.WithinTx(ctx, func(repos database.TxRepos) error {
		if err := repos.Sessions.CreatePending(ctx, sessionID, userName); err != nil {
			return err
		}
		return repos.Pending.Store(ctx, sessionID, problemName, userName)
	})
	if err != nil {
		return nil, apperr.Wrap("orchestrator.Select", apperr.KindPersistence, "enqueue pending session: %w", err)
	}
	return &SelectResult{SessionID: sessionID, Status: database.StatusPending}, nil
}

// callSelectUpstream forwards a select call upstream for an already-created
// session, logs the interaction durably, and fails the session on upstream
// error. Used both for a fresh Select and for replaying a promoted pending
// session's stored payload.
func (s *Service) callSelectUpstream(ctx context.Context, sessionID, problemName string) (*SelectResult, error) {
	rawResp, resp, upstreamErr := s.oracle.Select(ctx, problemName)

	status := http.StatusOK
	if upstreamErr != nil {
		status = http.StatusBadGateway
	}
	rawReq, _ := json.Marshal(map[string]string{"problemName": problemName})
	if logErr := s.db.APILogs.Insert(ctx, sessionID, database.EndpointSelect, redact.Scrub(rawReq), redact.Scrub(rawResp), status); logErr != nil {
		s.logger.Error("log select call", "session_id", sessionID, "error", logErr)
	}

	if upstreamErr != nil {
		if failErr := s.db.Sessions.Fail(ctx, sessionID); failErr != nil {
			s.logger.Error("fail session after upstream select error", "session_id", sessionID, "error", failErr)
		}
		return nil, apperr.Wrap("orchestrator.Select", apperr.KindUpstream, "select: %w", upstreamErr)
	}

	return &SelectResult{SessionID: sessionID, ProblemName: resp.ProblemName, Status: database.StatusActive}, nil
}

// resolveActive resolves ref to an active session's id, or a typed error.
func (s *Service) resolveActive(ctx context.Context, ref SessionRef) (string, error) {
	switch {
	case ref.SessionID != nil:
		sess, err := s.db.Sessions.Get(ctx, *ref.SessionID)
		if errors.Is(err, database.ErrSessionNotFound) {
			return "", apperr.New("orchestrator.resolveActive", apperr.KindNotFound, fmt.Errorf("session %s not found", *ref.SessionID))
		}
		if err != nil {
			return "", apperr.Wrap("orchestrator.resolveActive", apperr.KindPersistence, "get session: %w", err)
		}
		if sess.Status != database.StatusActive {
			return "", apperr.New("orchestrator.resolveActive", apperr.KindNotFound, fmt.Errorf("session %s is not active", *ref.SessionID))
		}
		return sess.SessionID, nil
	case ref.UserName != nil:
		sess, err := s.db.Sessions.GetActiveByUser(ctx, *ref.UserName)
		if errors.Is(err, database.ErrSessionNotFound) {
			return "", apperr.New("orchestrator.resolveActive", apperr.KindNotFound, fmt.Errorf("no active session for user %s", *ref.UserName))
		}
		if err != nil {
			return "", apperr.Wrap("orchestrator.resolveActive", apperr.KindPersistence, "get active session by user: %w", err)
		}
		return sess.SessionID, nil
	default:
		return "", apperr.New("orchestrator.resolveActive", apperr.KindInvalidInput, fmt.Errorf("either session_id or user_name is required"))
	}
}

// Explore forwards plans to the oracle on behalf of ref's active session,
// logging the interaction durably before returning results.
func (s *Service) Explore(ctx context.Context, ref SessionRef, plans []string) (*ExploreResult, error) {
	sessionID, err := s.resolveActive(ctx, ref)
	if err != nil {
		return nil, err
	}

	rawReq, rawResp, resp, err := s.oracle.Explore(ctx, plans)
	status := http.StatusOK
	if err != nil {
		status = http.StatusBadGateway
	}
	if logErr := s.db.APILogs.Insert(ctx, sessionID, database.EndpointExplore, redact.Scrub(rawReq), redact.Scrub(rawResp), status); logErr != nil {
		s.logger.Error("log explore call", "session_id", sessionID, "error", logErr)
	}
	if err != nil {
		return nil, apperr.Wrap("orchestrator.Explore", apperr.KindUpstream, "explore: %w", err)
	}

	return &ExploreResult{SessionID: sessionID, Results: resp.Results, QueryCount: resp.QueryCount}, nil
}

// Guess forwards a candidate map to the oracle on behalf of ref's active
// session. On a decided response (correct or not) it completes the session
// and promotes the head of the pending queue exactly once.
func (s *Service) Guess(ctx context.Context, ref SessionRef, m automaton.WireModel) (*GuessResult, error) {
	sessionID, err := s.resolveActive(ctx, ref)
	if err != nil {
		return nil, err
	}

	rawReq, rawResp, resp, err := s.oracle.Guess(ctx, m)
	status := http.StatusOK
	if err != nil {
		status = http.StatusBadGateway
	}
	if logErr := s.db.APILogs.Insert(ctx, sessionID, database.EndpointGuess, redact.Scrub(rawReq), redact.Scrub(rawResp), status); logErr != nil {
		s.logger.Error("log guess call", "session_id", sessionID, "error", logErr)
	}
	if err != nil {
		return nil, apperr.Wrap("orchestrator.Guess", apperr.KindUpstream, "guess: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.db.Sessions.Complete(ctx, sessionID); err != nil {
		return nil, apperr.Wrap("orchestrator.Guess", apperr.KindPersistence, "complete session: %w", err)
	}
	if err := s.promoteNext(ctx); err != nil {
		s.logger.Error("promote pending session after guess", "error", err)
	}

	return &GuessResult{SessionID: sessionID, Correct: resp.Correct}, nil
}

// Abort fails a pending or active session. If the aborted session was
// active, it promotes the queue head the same way a completed guess does.
func (s *Service) Abort(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.db.Sessions.Get(ctx, sessionID)
	if errors.Is(err, database.ErrSessionNotFound) {
		return apperr.New("orchestrator.Abort", apperr.KindNotFound, fmt.Errorf("session %s not found", sessionID))
	}
	if err != nil {
		return apperr.Wrap("orchestrator.Abort", apperr.KindPersistence, "get session: %w", err)
	}
	if sess.Status != database.StatusActive && sess.Status != database.StatusPending {
		return apperr.New("orchestrator.Abort", apperr.KindInvalidInput, fmt.Errorf("session %s is not active or pending", sessionID))
	}
	wasActive := sess.Status == database.StatusActive
	wasPending := sess.Status == database.StatusPending

	if err := s.db.Sessions.Fail(ctx, sessionID); err != nil {
		return apperr.Wrap("orchestrator.Abort", apperr.KindPersistence, "fail session: %w", err)
	}
	if wasPending {
		if err := s.db.Pending.Delete(ctx, sessionID); err != nil {
			s.logger.Error("delete aborted pending payload", "session_id", sessionID, "error", err)
		}
	}
	if wasActive {
		if err := s.promoteNext(ctx); err != nil {
			s.logger.Error("promote pending session after abort", "error", err)
		}
	}
	return nil
}

// promoteNext activates the oldest pending session and replays its stored
// select payload upstream. If that replay fails the session is left failed
// (by callSelectUpstream) and the next pending session is tried, so exactly
// one promotion chain runs per terminal transition until one sticks or the
// queue is empty.
func (s *Service) promoteNext(ctx context.Context) error {
	for {
		next, err := s.db.Sessions.GetOldestPending(ctx)
		if errors.Is(err, database.ErrSessionNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("find oldest pending session: %w", err)
		}

		pending, err := s.db.Pending.Get(ctx, next.SessionID)
		if err != nil {
			return fmt.Errorf("load pending payload for %s: %w", next.SessionID, err)
		}
		if err := s.db.Sessions.Activate(ctx, next.SessionID, pending.ProblemName); err != nil {
			return fmt.Errorf("activate pending session %s: %w", next.SessionID, err)
		}
		if err := s.db.Pending.Delete(ctx, next.SessionID); err != nil {
			s.logger.Error("delete promoted pending payload", "session_id", next.SessionID, "error", err)
		}

		if _, err := s.callSelectUpstream(ctx, next.SessionID, pending.ProblemName); err != nil {
			s.logger.Warn("promoted session failed upstream select, trying next pending", "session_id", next.SessionID, "error", err)
			continue
		}
		return nil
	}
}
