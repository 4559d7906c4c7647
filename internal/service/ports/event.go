package ports

import (
	"context"

	"github.com/CamMacB17/spotpay/internal/domain"
)

type EventRepo interface {
	Create(ctx context.Context, e *domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Event, error)
	GetDetails(ctx context.Context, eventID string) (*domain.EventDetails, error)
	UpdatePrice(ctx context.Context, eventID string, pricePence int64) error
	SetMaxSpots(ctx context.Context, eventID string, maxSpots *int) error
	Close(ctx context.Context, eventID string) error
}
