package service

import (
	"context"
	"fmt"

	"github.com/wb-go/wbf/logger"

	"github.com/CamMacB17/spotpay/internal/domain"
	"github.com/CamMacB17/spotpay/internal/service/ports"
)

// notifier sends the lifecycle emails. Every send is gated by a watermark
// claim: the conditional update wins at most once, so a webhook replay or a
// concurrent retry never produces a second email. Send failures are logged
// and swallowed; they never affect payment state.
type notifier struct {
	payments ports.PaymentRepo
	mailer   ports.Mailer
	log      logger.Logger
}

func newNotifier(payments ports.PaymentRepo, mailer ports.Mailer, log logger.Logger) *notifier {
	return &notifier{payments: payments, mailer: mailer, log: log}
}

func penceToPounds(pence int64) string {
	return fmt.Sprintf("£%d.%02d", pence/100, pence%100)
}

func (n *notifier) sendReceipt(ctx context.Context, p *domain.Payment, e *domain.Event) {
	claimed, err := n.payments.ClaimReceiptEmail(ctx, p.ID)
	if err != nil {
		n.log.Error("failed to claim receipt email",
			logger.String("payment_id", p.ID),
			logger.String("error", err.Error()),
		)
		return
	}
	if !claimed {
		return
	}

	subject := fmt.Sprintf("You're in: %s", e.Title)
	body := fmt.Sprintf(
		"Hi %s,\n\nYour spot for %s is confirmed.\nAmount paid: %s.\n\nSee you there!\n%s",
		p.Name, e.Title, penceToPounds(p.AmountPenceCaptured), e.OrganiserName,
	)
	if err := n.mailer.Send(ctx, p.Email, subject, body); err != nil {
		n.log.Error("failed to send receipt email",
			logger.String("payment_id", p.ID),
			logger.String("error", err.Error()),
		)
	}
}

func (n *notifier) notifyOrganiser(ctx context.Context, p *domain.Payment, e *domain.Event) {
	claimed, err := n.payments.ClaimOrganiserNotice(ctx, p.ID)
	if err != nil {
		n.log.Error("failed to claim organiser notice",
			logger.String("payment_id", p.ID),
			logger.String("error", err.Error()),
		)
		return
	}
	if !claimed {
		return
	}

	subject := fmt.Sprintf("New attendee for %s", e.Title)
	body := fmt.Sprintf(
		"%s (%s) just paid %s and joined %s.",
		p.Name, p.Email, penceToPounds(p.AmountPenceCaptured), e.Title,
	)
	if err := n.mailer.Send(ctx, e.OrganiserEmail, subject, body); err != nil {
		n.log.Error("failed to send organiser notice",
			logger.String("payment_id", p.ID),
			logger.String("error", err.Error()),
		)
	}
}

func (n *notifier) sendRefundConfirmation(ctx context.Context, p *domain.Payment, e *domain.Event) {
	claimed, err := n.payments.ClaimRefundEmail(ctx, p.ID)
	if err != nil {
		n.log.Error("failed to claim refund email",
			logger.String("payment_id", p.ID),
			logger.String("error", err.Error()),
		)
		return
	}
	if !claimed {
		return
	}

	subject := fmt.Sprintf("Refund issued: %s", e.Title)
	body := fmt.Sprintf(
		"Hi %s,\n\nYour payment of %s for %s has been refunded.\nIt may take a few days to appear on your statement.",
		p.Name, penceToPounds(p.AmountPence), e.Title,
	)
	if err := n.mailer.Send(ctx, p.Email, subject, body); err != nil {
		n.log.Error("failed to send refund email",
			logger.String("payment_id", p.ID),
			logger.String("error", err.Error()),
		)
	}
}
