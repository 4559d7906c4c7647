package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/wb-go/wbf/logger"

	"github.com/CamMacB17/spotpay/internal/domain"
	"github.com/CamMacB17/spotpay/internal/metrics"
	"github.com/CamMacB17/spotpay/internal/service/ports"
)

// WebhookService reconciles asynchronous provider deliveries against the
// payment store. Deliveries are at-least-once and possibly duplicated; the
// dedup ledger plus set-once writes make the effect at-most-once.
//
// Only a signature failure is surfaced as an error. Business mismatches
// (unknown session, illegal transition) are logged and acknowledged so the
// provider never enters a retry storm against a record it cannot fix.
type WebhookService struct {
	verifier ports.WebhookVerifier
	ledger   ports.WebhookLedger
	payments ports.PaymentRepo
	events   ports.EventRepo
	notifier *notifier
	metrics  *metrics.Metrics
	log      logger.Logger
}

func NewWebhookService(
	verifier ports.WebhookVerifier,
	ledger ports.WebhookLedger,
	payments ports.PaymentRepo,
	events ports.EventRepo,
	mailer ports.Mailer,
	m *metrics.Metrics,
	log logger.Logger,
) *WebhookService {
	return &WebhookService{
		verifier: verifier,
		ledger:   ledger,
		payments: payments,
		events:   events,
		notifier: newNotifier(payments, mailer, log),
		metrics:  m,
		log:      log,
	}
}

func (s *WebhookService) HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) error {
	ev, err := s.verifier.Verify(payload, signatureHeader)
	if err != nil {
		return err
	}

	switch ev.Type {
	case ports.WebhookCheckoutCompleted:
		return s.handleCompleted(ctx, ev)
	case ports.WebhookCheckoutExpired:
		return s.handleExpired(ctx, ev)
	default:
		s.log.Debug("ignoring webhook event", logger.String("type", ev.Type))
		return nil
	}
}

func (s *WebhookService) handleCompleted(ctx context.Context, ev *ports.WebhookEvent) error {
	// The ledger row goes in before any mutation: if two deliveries of the
	// same event race, exactly one passes this insert.
	if err := s.ledger.Insert(ctx, ev.ID); err != nil {
		if errors.Is(err, domain.ErrWebhookAlreadyProcessed) {
			s.metrics.WebhookEvents.WithLabelValues(ev.Type, "replay").Inc()
			s.log.Info("webhook replay skipped", logger.String("provider_event_id", ev.ID))
			return nil
		}
		return fmt.Errorf("record webhook event: %w", err)
	}

	p, err := s.resolvePayment(ctx, ev)
	if err != nil {
		if errors.Is(err, domain.ErrPaymentNotFound) {
			s.metrics.WebhookEvents.WithLabelValues(ev.Type, "unmatched").Inc()
			s.log.Warn("webhook for unknown payment",
				logger.String("provider_event_id", ev.ID),
				logger.String("session_id", ev.SessionID),
			)
			return nil
		}
		return fmt.Errorf("resolve payment: %w", err)
	}

	if p.Status == domain.StatusPaid {
		s.metrics.WebhookEvents.WithLabelValues(ev.Type, "noop").Inc()
		return nil
	}

	if err = domain.AssertTransition(p.Status, domain.StatusPaid); err != nil {
		// Acknowledged anyway: retrying cannot make this transition legal.
		s.metrics.WebhookEvents.WithLabelValues(ev.Type, "illegal_transition").Inc()
		s.log.Error("webhook transition rejected",
			logger.String("payment_id", p.ID),
			logger.String("error", err.Error()),
		)
		return nil
	}

	paid, err := s.payments.MarkPaid(ctx, p.ID, ev.PaymentIntentID, ev.AmountTotal)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			s.metrics.WebhookEvents.WithLabelValues(ev.Type, "illegal_transition").Inc()
			s.log.Error("webhook transition lost race",
				logger.String("payment_id", p.ID),
				logger.String("error", err.Error()),
			)
			return nil
		}
		return fmt.Errorf("mark paid: %w", err)
	}

	s.metrics.WebhookEvents.WithLabelValues(ev.Type, "applied").Inc()
	s.log.Info("payment completed",
		logger.String("payment_id", paid.ID),
		logger.String("event_id", paid.EventID),
		logger.Int64("amount_pence_captured", paid.AmountPenceCaptured),
	)

	event, err := s.events.GetByID(ctx, paid.EventID)
	if err != nil {
		s.log.Error("failed to load event for emails",
			logger.String("event_id", paid.EventID),
			logger.String("error", err.Error()),
		)
		return nil
	}

	go func(ctx context.Context) {
		s.notifier.sendReceipt(ctx, paid, event)
		s.notifier.notifyOrganiser(ctx, paid, event)
	}(context.WithoutCancel(ctx))

	return nil
}

func (s *WebhookService) handleExpired(ctx context.Context, ev *ports.WebhookEvent) error {
	p, err := s.resolvePayment(ctx, ev)
	if err != nil {
		if errors.Is(err, domain.ErrPaymentNotFound) {
			s.metrics.WebhookEvents.WithLabelValues(ev.Type, "unmatched").Inc()
			return nil
		}
		return fmt.Errorf("resolve payment: %w", err)
	}

	if _, err = s.payments.CancelPledge(ctx, p.ID); err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) || errors.Is(err, domain.ErrNotPledged) {
			// The session expired after the payment went through; the paid
			// row wins.
			s.metrics.WebhookEvents.WithLabelValues(ev.Type, "noop").Inc()
			s.log.Info("expired session ignored",
				logger.String("payment_id", p.ID),
				logger.String("status", string(p.Status)),
			)
			return nil
		}
		return fmt.Errorf("cancel pledge: %w", err)
	}

	s.metrics.WebhookEvents.WithLabelValues(ev.Type, "applied").Inc()
	s.log.Info("pledge cancelled by expired session", logger.String("payment_id", p.ID))

	return nil
}

// resolvePayment finds the target by stored session id first, falling back
// to the payment id the checkout flow embedded in session metadata.
func (s *WebhookService) resolvePayment(ctx context.Context, ev *ports.WebhookEvent) (*domain.Payment, error) {
	p, err := s.payments.GetBySessionID(ctx, ev.SessionID)
	if err == nil || !errors.Is(err, domain.ErrPaymentNotFound) {
		return p, err
	}

	fallbackID := ev.PaymentID
	if fallbackID == "" {
		fallbackID = ev.ClientReferenceID
	}
	if fallbackID == "" {
		return nil, domain.ErrPaymentNotFound
	}

	return s.payments.GetByID(ctx, fallbackID)
}
