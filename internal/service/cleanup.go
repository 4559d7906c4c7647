package service

import (
	"context"
	"fmt"
	"time"

	"github.com/wb-go/wbf/logger"

	"github.com/CamMacB17/spotpay/internal/metrics"
	"github.com/CamMacB17/spotpay/internal/service/ports"
)

// CleanupService is the pledge reaper: it returns capacity held by
// abandoned checkouts. It is the only path that cleans up pledges nobody
// explicitly cancelled.
type CleanupService struct {
	payments ports.PaymentRepo
	maxAge   time.Duration
	metrics  *metrics.Metrics
	log      logger.Logger
}

func NewCleanupService(payments ports.PaymentRepo, maxAge time.Duration, m *metrics.Metrics, log logger.Logger) *CleanupService {
	return &CleanupService{
		payments: payments,
		maxAge:   maxAge,
		metrics:  m,
		log:      log,
	}
}

// CleanupPledges cancels every pledge older than the staleness window and
// returns how many it cancelled. One poisoned row never blocks the sweep: a
// per-row failure (typically a pledge that got paid while the sweep ran) is
// logged and skipped.
func (s *CleanupService) CleanupPledges(ctx context.Context) (int, error) {
	cutoff := time.Now().UTC().Add(-s.maxAge)

	ids, err := s.payments.FindStalePledges(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("find stale pledges: %w", err)
	}

	cancelled := 0
	for _, id := range ids {
		if _, err := s.payments.CancelPledge(ctx, id); err != nil {
			s.log.Error("failed to cancel stale pledge",
				logger.String("payment_id", id),
				logger.String("error", err.Error()),
			)
			continue
		}
		cancelled++
		s.metrics.PledgesReaped.Inc()
	}

	if cancelled > 0 {
		s.log.Info("stale pledges cancelled", logger.Int("count", cancelled))
	}

	return cancelled, nil
}
