package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/logger"
	"golang.org/x/sync/errgroup"

	"github.com/CamMacB17/spotpay/internal/domain"
	"github.com/CamMacB17/spotpay/internal/metrics"
	"github.com/CamMacB17/spotpay/internal/service/ports"
)

// bulkRefundConcurrency caps simultaneous provider refund calls.
const bulkRefundConcurrency = 5

// RefundService reverses paid payments. The provider refund call runs inside
// the same database transaction as the status flip, so a payment is never
// marked refunded without a confirmed provider refund.
type RefundService struct {
	payments ports.PaymentRepo
	events   ports.EventRepo
	provider ports.PaymentProvider
	audit    ports.AuditLogRepo
	notifier *notifier
	metrics  *metrics.Metrics
	log      logger.Logger
}

func NewRefundService(
	payments ports.PaymentRepo,
	events ports.EventRepo,
	provider ports.PaymentProvider,
	audit ports.AuditLogRepo,
	mailer ports.Mailer,
	m *metrics.Metrics,
	log logger.Logger,
) *RefundService {
	return &RefundService{
		payments: payments,
		events:   events,
		provider: provider,
		audit:    audit,
		notifier: newNotifier(payments, mailer, log),
		metrics:  m,
		log:      log,
	}
}

// Refund reverses one paid payment of the given event.
func (s *RefundService) Refund(ctx context.Context, eventID, paymentID, tokenHash string) (*domain.Payment, error) {
	p, err := s.refundOne(ctx, eventID, paymentID)
	if err != nil {
		return nil, err
	}

	s.appendAudit(ctx, eventID, tokenHash, domain.ActionRefund, map[string]any{
		"payment_id":       p.ID,
		"stripe_refund_id": p.StripeRefundID,
	})

	return p, nil
}

func (s *RefundService) refundOne(ctx context.Context, eventID, paymentID string) (*domain.Payment, error) {
	p, err := s.payments.RefundWithProvider(ctx, eventID, paymentID, func(paymentIntentID string) (string, error) {
		return s.provider.CreateRefund(ctx, paymentIntentID)
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyRefunded):
			s.metrics.Refunds.WithLabelValues("already_refunded").Inc()
		case errors.Is(err, domain.ErrPaymentProvider):
			s.metrics.Refunds.WithLabelValues("provider_error").Inc()
		default:
			s.metrics.Refunds.WithLabelValues("rejected").Inc()
		}
		return nil, fmt.Errorf("refund payment %s: %w", paymentID, err)
	}

	s.metrics.Refunds.WithLabelValues("refunded").Inc()
	s.log.Info("payment refunded",
		logger.String("payment_id", p.ID),
		logger.String("event_id", p.EventID),
	)

	// The refund email rides outside the transaction: a send failure must
	// never roll back a completed refund.
	if event, err := s.events.GetByID(ctx, p.EventID); err == nil {
		go s.notifier.sendRefundConfirmation(context.WithoutCancel(ctx), p, event)
	} else {
		s.log.Error("failed to load event for refund email",
			logger.String("event_id", p.EventID),
			logger.String("error", err.Error()),
		)
	}

	return p, nil
}

// RefundAll reverses every refundable payment of the event with bounded
// concurrency. Each row is an independent transaction; one failure never
// aborts the rest.
func (s *RefundService) RefundAll(ctx context.Context, eventID, tokenHash string) (*domain.BulkRefundResult, error) {
	all, err := s.payments.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	var res domain.BulkRefundResult
	var toRefund []string
	for _, p := range all {
		if p.Status != domain.StatusPaid {
			continue
		}
		if p.RefundedAt != nil || p.StripeRefundID != nil {
			// A paid row carrying refund metadata should not exist; count
			// it but never hand it to the provider again.
			res.SkippedAlreadyRefunded++
			continue
		}
		toRefund = append(toRefund, p.ID)
	}
	res.Attempted = len(toRefund)

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(bulkRefundConcurrency)

	for _, id := range toRefund {
		id := id
		g.Go(func() error {
			_, err := s.refundOne(ctx, eventID, id)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				res.Refunded++
			case errors.Is(err, domain.ErrAlreadyRefunded):
				res.SkippedAlreadyRefunded++
			default:
				res.Failed++
				s.log.Error("bulk refund row failed",
					logger.String("payment_id", id),
					logger.String("error", err.Error()),
				)
			}
			return nil
		})
	}
	_ = g.Wait()

	if res.SkippedAlreadyRefunded > 0 {
		s.log.Warn("bulk refund skipped rows with refund metadata",
			logger.String("event_id", eventID),
			logger.Int("count", res.SkippedAlreadyRefunded),
		)
	}

	s.appendAudit(ctx, eventID, tokenHash, domain.ActionBulkRefund, res)

	return &res, nil
}

func (s *RefundService) appendAudit(ctx context.Context, eventID, tokenHash, action string, metadata any) {
	meta, err := json.Marshal(metadata)
	if err != nil {
		s.log.Error("failed to marshal audit metadata", logger.String("error", err.Error()))
		meta = nil
	}

	err = s.audit.Append(ctx, &domain.AdminAction{
		ID:        uuid.New().String(),
		EventID:   eventID,
		TokenHash: tokenHash,
		Action:    action,
		Metadata:  meta,
	})
	if err != nil {
		s.log.Error("failed to append audit log",
			logger.String("event_id", eventID),
			logger.String("action", action),
			logger.String("error", err.Error()),
		)
	}
}
