// Package cleanup provides data retention for the session store: a
// background janitor that periodically purges old completed/failed
// sessions and their cascaded logs on a simple ticker loop.
package cleanup

import (
	"context"
	"log/slog"
	"time"

	"github.com/icfp25/aedificium/pkg/config"
	"github.com/icfp25/aedificium/pkg/database"
)

// Service periodically purges completed/failed sessions (and, via cascade,
// their api_logs) once they are older than the configured retention window.
// All sweeps are idempotent and safe to run from multiple processes.
type Service struct {
	cfg config.RetentionConfig
	db  *database.Client

	cancel context.CancelFunc
	done   chan struct{}
}

// NewService creates a new cleanup service.
func NewService(cfg config.RetentionConfig, db *database.Client) *Service {
	return &Service{cfg: cfg, db: db}
}

// Start launches the background cleanup loop.
func (s *Service) Start(ctx context.Context) {
	if s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go s.run(ctx)

	slog.Info("cleanup service started",
		"session_retention", s.cfg.SessionRetention,
		"interval", s.cfg.Interval)
}

// Stop signals the cleanup loop to exit and waits for it to finish.
func (s *Service) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	slog.Info("cleanup service stopped")
}

func (s *Service) run(ctx context.Context) {
	defer close(s.done)

	s.sweep(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Service) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-s.cfg.SessionRetention)
	n, err := s.db.Sessions.DeleteTerminalOlderThan(ctx, cutoff)
	if err != nil {
		slog.Error("retention sweep failed", "error", err)
		return
	}
	if n > 0 {
		slog.Info("retention swept old sessions", "count", n, "cutoff", cutoff)
	}
}
