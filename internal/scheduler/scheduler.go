package scheduler

import (
	"context"
	"time"

	"github.com/wb-go/wbf/logger"
)

type pledgeReaper interface {
	CleanupPledges(ctx context.Context) (int, error)
}

// Scheduler drives the pledge reaper on a fixed interval. The sweep is
// idempotent, so the interval only affects how quickly abandoned spots are
// returned to the pool.
type Scheduler struct {
	reaper   pledgeReaper
	interval time.Duration
	logger   logger.Logger
}

func New(
	reaper pledgeReaper,
	interval time.Duration,
	logger logger.Logger,
) *Scheduler {
	return &Scheduler{
		reaper:   reaper,
		interval: interval,
		logger:   logger,
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("reaper scheduler started",
		logger.Duration("interval", s.interval),
	)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("reaper scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	cancelled, err := s.reaper.CleanupPledges(ctx)
	if err != nil {
		s.logger.Error("pledge cleanup failed",
			logger.String("error", err.Error()),
		)
		return
	}

	if cancelled > 0 {
		s.logger.Info("pledge cleanup finished",
			logger.Int("cancelled", cancelled),
		)
	}
}
