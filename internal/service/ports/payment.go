package ports

import (
	"context"
	"time"

	"github.com/CamMacB17/spotpay/internal/domain"
)

type PaymentRepo interface {
	CreatePledge(ctx context.Context, p *domain.Payment) error
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	GetBySessionID(ctx context.Context, sessionID string) (*domain.Payment, error)
	SetCheckoutSession(ctx context.Context, id, sessionID string) error
	MarkPaid(ctx context.Context, id, paymentIntentID string, amountCaptured int64) (*domain.Payment, error)
	CancelPledge(ctx context.Context, id string) (*domain.Payment, error)
	RefundWithProvider(ctx context.Context, eventID, id string, refund func(paymentIntentID string) (string, error)) (*domain.Payment, error)
	FindStalePledges(ctx context.Context, olderThan time.Time) ([]string, error)
	ListByEvent(ctx context.Context, eventID string) ([]*domain.Payment, error)
	ClaimReceiptEmail(ctx context.Context, id string) (bool, error)
	ClaimRefundEmail(ctx context.Context, id string) (bool, error)
	ClaimOrganiserNotice(ctx context.Context, id string) (bool, error)
}
