package market

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler drives the engine with a fixed-period tick. Stop only
// prevents future ticks; a tick already running always completes.
type Scheduler struct {
	engine   *Engine
	interval time.Duration
	cron     *cron.Cron
}

// NewScheduler creates a scheduler for the engine. Interval must be
// positive; the stock cadence is one minute.
func NewScheduler(engine *Engine, interval time.Duration) (*Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("tick interval must be positive, got %s", interval)
	}
	return &Scheduler{
		engine:   engine,
		interval: interval,
		cron:     cron.New(),
	}, nil
}

// Start schedules the recurring tick and runs one immediately so the
// market is live before the first period elapses.
func (s *Scheduler) Start() error {
	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, func() {
		s.engine.Tick(time.Now())
	}); err != nil {
		return fmt.Errorf("schedule tick: %w", err)
	}
	s.engine.Tick(time.Now())
	s.cron.Start()
	slog.Info("market scheduler started", slog.Duration("interval", s.interval))
	return nil
}

// Stop cancels future ticks and waits for any in-flight tick to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	slog.Info("market scheduler stopped")
}
