// Package scheduler periodically drops expired dialogue sessions and drafts.
package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper removes expired entries and reports how many went away.
type Sweeper interface {
	Sweep() int
}

// Target is one named store to sweep.
type Target struct {
	Name    string
	Sweeper Sweeper
}

type Scheduler struct {
	targets       []Target
	checkInterval time.Duration
	notifyCh      chan struct{}
	logger        *slog.Logger
}

func New(interval time.Duration, logger *slog.Logger, targets ...Target) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		targets:       targets,
		checkInterval: interval,
		notifyCh:      make(chan struct{}, 1),
		logger:        logger,
	}
}

// Notify triggers an immediate sweep. Non-blocking if one is already pending.
func (s *Scheduler) Notify() {
	select {
	case s.notifyCh <- struct{}{}:
	default:
	}
}

// Start sweeps on every tick until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Scheduler started", "interval", s.checkInterval, "targets", len(s.targets))
	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler stopped")
			return
		case <-ticker.C:
			s.check()
		case <-s.notifyCh:
			s.check()
		}
	}
}

func (s *Scheduler) check() int {
	total := 0
	for _, t := range s.targets {
		n := t.Sweeper.Sweep()
		if n > 0 {
			s.logger.Debug("Swept expired entries", "target", t.Name, "count", n)
		}
		total += n
	}
	return total
}
