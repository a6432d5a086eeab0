// Package scheduler drives the daily reconciliation job off wall-clock time.
// A single Scheduler instance is assumed per deployment; the job itself is
// idempotent, so a missed or repeated run is harmless.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/juniperhq/chorequest/internal/lifecycle"
)

const runTimeout = 5 * time.Minute

type Scheduler struct {
	mu     sync.Mutex
	cron   *cron.Cron
	engine *lifecycle.Engine
	logger *slog.Logger
}

// New builds a scheduler that runs the engine's daily reconciliation on the
// given cron spec (standard five-field syntax) in the given local timezone.
func New(engine *lifecycle.Engine, spec string, loc *time.Location, logger *slog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		engine: engine,
		logger: logger,
	}

	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, err
	}
	return s, nil
}

// Start begins firing on schedule. Safe to call once.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cron.Start()
}

// Stop halts the schedule and waits for an in-flight run to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	<-s.cron.Stop().Done()
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	res, err := s.engine.RunDailyReconciliation(ctx)
	if err != nil {
		// Phase failures are already logged with detail by the engine; the
		// job keeps its schedule regardless.
		s.logger.Warn("daily reconciliation completed with errors", "error", err)
	}
	s.logger.Info("scheduled reconciliation run",
		"promoted", res.Promoted,
		"demoted", res.Demoted,
		"respawned", res.Respawned,
	)
}
