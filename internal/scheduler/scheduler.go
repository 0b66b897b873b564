package scheduler

import (
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// Pruner is the subset of the conversation store the sweeper needs. The
// redis store handles expiry natively and never gets a sweeper.
type Pruner interface {
	Prune(maxAge time.Duration) int
}

// Sweeper periodically prunes idle conversations from the in-memory store.
type Sweeper struct {
	scheduler *gocron.Scheduler
	store     Pruner
	interval  time.Duration
	maxAge    time.Duration
	logger    *slog.Logger
}

// New creates a Sweeper.
func New(store Pruner, interval, maxAge time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		scheduler: gocron.NewScheduler(time.UTC),
		store:     store,
		interval:  interval,
		maxAge:    maxAge,
		logger:    logger,
	}
}

// Start schedules the periodic sweep and starts the underlying scheduler.
func (s *Sweeper) Start() error {
	if s.maxAge <= 0 {
		s.logger.Info("conversation sweeper disabled; no max age configured")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		removed := s.store.Prune(s.maxAge)
		if removed > 0 {
			s.logger.Info("pruned idle conversations", "removed", removed)
		}
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future sweeps.
func (s *Sweeper) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
