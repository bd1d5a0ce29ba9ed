package app

import (
	"context"
	"time"

	"github.com/zignal-platform/zignal-api/internal/domain/sessions"
	"github.com/zignal-platform/zignal-api/internal/pkg/logger"
)

// SweepResult reports one sweeper pass
type SweepResult struct {
	Executed int
	Expired  int
}

// Sweeper periodically executes due graceful invalidations and ends expired sessions
type Sweeper struct {
	triggers       sessions.TriggerHandler
	manager        sessions.SessionManager
	interval       time.Duration
	cleanupExpired bool
	logger         logger.Logger
}

// NewSweeper creates a new Sweeper. A nil manager disables expired session cleanup.
func NewSweeper(triggers sessions.TriggerHandler, manager sessions.SessionManager, interval time.Duration, logger logger.Logger) *Sweeper {
	return &Sweeper{
		triggers:       triggers,
		manager:        manager,
		interval:       interval,
		cleanupExpired: manager != nil,
		logger:         logger,
	}
}

// RunOnce performs a single pass. Errors from one step do not skip the other.
func (s *Sweeper) RunOnce(ctx context.Context) (*SweepResult, error) {
	result := &SweepResult{}

	executed, err := s.triggers.ProcessScheduledInvalidations(ctx)
	result.Executed = executed
	if err != nil {
		s.logger.Error("Failed to process scheduled invalidations: ", err)
	}

	if s.cleanupExpired {
		expired, cleanupErr := s.manager.CleanupExpiredSessions(ctx)
		result.Expired = expired
		if cleanupErr != nil {
			s.logger.Error("Failed to clean up expired sessions: ", cleanupErr)
			if err == nil {
				err = cleanupErr
			}
		}
	}

	if result.Executed > 0 || result.Expired > 0 {
		s.logger.Info("Sweeper executed ", result.Executed, " scheduled invalidations and ended ", result.Expired, " expired sessions")
	}
	return result, err
}

// Run blocks until ctx is cancelled, calling RunOnce every interval
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("Sweeper started with interval ", s.interval)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Sweeper stopped")
			return
		case <-ticker.C:
			_, _ = s.RunOnce(ctx)
		}
	}
}
