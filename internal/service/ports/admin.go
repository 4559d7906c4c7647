package ports

import (
	"context"

	"github.com/CamMacB17/spotpay/internal/domain"
)

type AdminTokenRepo interface {
	Create(ctx context.Context, t *domain.AdminToken) error
	GetByHash(ctx context.Context, tokenHash string) (*domain.AdminToken, error)
	Rotate(ctx context.Context, t *domain.AdminToken) error
}

type AuditLogRepo interface {
	Append(ctx context.Context, a *domain.AdminAction) error
	ListByEvent(ctx context.Context, eventID string) ([]*domain.AdminAction, error)
}

type WebhookLedger interface {
	Insert(ctx context.Context, providerEventID string) error
}
