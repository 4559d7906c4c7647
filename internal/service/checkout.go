package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/logger"

	"github.com/CamMacB17/spotpay/internal/domain"
	"github.com/CamMacB17/spotpay/internal/metrics"
	"github.com/CamMacB17/spotpay/internal/service/ports"
)

// CheckoutService creates pledges and opens hosted checkout sessions.
type CheckoutService struct {
	payments ports.PaymentRepo
	events   ports.EventRepo
	provider ports.PaymentProvider
	notifier *notifier
	metrics  *metrics.Metrics
	log      logger.Logger
}

func NewCheckoutService(
	payments ports.PaymentRepo,
	events ports.EventRepo,
	provider ports.PaymentProvider,
	mailer ports.Mailer,
	m *metrics.Metrics,
	log logger.Logger,
) *CheckoutService {
	return &CheckoutService{
		payments: payments,
		events:   events,
		provider: provider,
		notifier: newNotifier(payments, mailer, log),
		metrics:  m,
		log:      log,
	}
}

// JoinResult is what the public join flow hands back. CheckoutURL is empty
// for free events, which are paid immediately.
type JoinResult struct {
	Payment     *domain.Payment
	CheckoutURL string
}

// NormaliseEmail is the canonical identity mapping for attendees.
func NormaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// PayAndJoin reserves a spot and, for priced events, opens a checkout
// session. The pledge is committed before the provider is called: a crash
// after the provider call still leaves a recoverable pledged row holding the
// session id, and an abandoned one is reclaimed by the reaper.
func (s *CheckoutService) PayAndJoin(ctx context.Context, slug, name, email string) (*JoinResult, error) {
	name = strings.TrimSpace(name)
	email = NormaliseEmail(email)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", domain.ErrValidation)
	}

	event, err := s.events.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.Closed() {
		return nil, domain.ErrEventClosed
	}

	p := &domain.Payment{
		ID:      uuid.New().String(),
		EventID: event.ID,
		Name:    name,
		Email:   email,
	}
	if err = s.payments.CreatePledge(ctx, p); err != nil {
		return nil, fmt.Errorf("create pledge: %w", err)
	}
	s.metrics.PledgesCreated.Inc()

	s.log.Info("pledge created",
		logger.String("payment_id", p.ID),
		logger.String("event_id", event.ID),
		logger.Int64("amount_pence", p.AmountPence),
	)

	if event.Free() {
		paid, err := s.payments.MarkPaid(ctx, p.ID, "", 0)
		if err != nil {
			return nil, fmt.Errorf("complete free join: %w", err)
		}

		go func(ctx context.Context) {
			s.notifier.sendReceipt(ctx, paid, event)
			s.notifier.notifyOrganiser(ctx, paid, event)
		}(context.WithoutCancel(ctx))

		return &JoinResult{Payment: paid}, nil
	}

	sess, err := s.provider.CreateCheckoutSession(ctx, ports.CheckoutParams{
		PaymentID:     p.ID,
		EventTitle:    event.Title,
		CustomerEmail: p.Email,
		AmountPence:   p.AmountPence,
	})
	if err != nil {
		// The pledge stays committed; the reaper reclaims it if the
		// attendee never retries.
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	if err = s.payments.SetCheckoutSession(ctx, p.ID, sess.ID); err != nil {
		return nil, fmt.Errorf("store checkout session: %w", err)
	}
	p.CheckoutSessionID = &sess.ID

	return &JoinResult{Payment: p, CheckoutURL: sess.URL}, nil
}
