package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/logger"

	"github.com/CamMacB17/spotpay/internal/domain"
	"github.com/CamMacB17/spotpay/internal/service/ports"
)

// EventService owns event creation and every admin operation, each of which
// is recorded in the append-only action log.
type EventService struct {
	events   ports.EventRepo
	payments ports.PaymentRepo
	tokens   ports.AdminTokenRepo
	audit    ports.AuditLogRepo
	tokenTTL time.Duration
	log      logger.Logger
}

func NewEventService(
	events ports.EventRepo,
	payments ports.PaymentRepo,
	tokens ports.AdminTokenRepo,
	audit ports.AuditLogRepo,
	tokenTTL time.Duration,
	log logger.Logger,
) *EventService {
	return &EventService{
		events:   events,
		payments: payments,
		tokens:   tokens,
		audit:    audit,
		tokenTTL: tokenTTL,
		log:      log,
	}
}

// CreatedEvent carries the one-time raw admin token back to the organiser.
type CreatedEvent struct {
	Event      *domain.Event
	AdminToken string
}

func (s *EventService) CreateEvent(ctx context.Context, input domain.CreateEventInput) (*CreatedEvent, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	organiserEmail := NormaliseEmail(input.OrganiserEmail)
	if organiserEmail == "" || !strings.Contains(organiserEmail, "@") {
		return nil, fmt.Errorf("%w: a valid organiser email is required", domain.ErrValidation)
	}
	if input.PricePence != nil && *input.PricePence < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", domain.ErrValidation)
	}
	if input.MaxSpots != nil && *input.MaxSpots <= 0 {
		return nil, fmt.Errorf("%w: max spots must be positive", domain.ErrValidation)
	}

	slug, err := newSlug()
	if err != nil {
		return nil, err
	}

	event := &domain.Event{
		ID:             uuid.New().String(),
		Slug:           slug,
		Title:          strings.TrimSpace(input.Title),
		OrganiserName:  strings.TrimSpace(input.OrganiserName),
		OrganiserEmail: organiserEmail,
		PricePence:     input.PricePence,
		MaxSpots:       input.MaxSpots,
		StartsAt:       input.StartsAt,
	}
	if err = s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	raw, hash, err := newAdminToken()
	if err != nil {
		return nil, err
	}
	token := &domain.AdminToken{
		ID:        uuid.New().String(),
		EventID:   event.ID,
		TokenHash: hash,
		ExpiresAt: time.Now().UTC().Add(s.tokenTTL),
	}
	if err = s.tokens.Create(ctx, token); err != nil {
		return nil, fmt.Errorf("create admin token: %w", err)
	}

	s.log.Info("event created",
		logger.String("event_id", event.ID),
		logger.String("slug", event.Slug),
	)

	return &CreatedEvent{Event: event, AdminToken: raw}, nil
}

// PublicDetails is what the join page sees: the event plus derived
// availability, without the attendee list.
func (s *EventService) PublicDetails(ctx context.Context, slug string) (*domain.EventDetails, error) {
	event, err := s.events.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.events.GetDetails(ctx, event.ID)
}

// AdminDetails includes every payment row for the event.
func (s *EventService) AdminDetails(ctx context.Context, eventID string) (*domain.EventDetails, error) {
	details, err := s.events.GetDetails(ctx, eventID)
	if err != nil {
		return nil, err
	}

	payments, err := s.payments.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	details.Payments = make([]domain.Payment, 0, len(payments))
	for _, p := range payments {
		details.Payments = append(details.Payments, *p)
	}

	return details, nil
}

func (s *EventService) UpdatePrice(ctx context.Context, eventID string, pricePence int64, tokenHash string) error {
	if pricePence < 0 {
		return fmt.Errorf("%w: price cannot be negative", domain.ErrValidation)
	}

	if err := s.events.UpdatePrice(ctx, eventID, pricePence); err != nil {
		return err
	}

	s.appendAudit(ctx, eventID, tokenHash, domain.ActionPriceUpdated, map[string]any{
		"price_pence": pricePence,
	})

	return nil
}

func (s *EventService) SetMaxSpots(ctx context.Context, eventID string, maxSpots *int, tokenHash string) error {
	if maxSpots != nil && *maxSpots <= 0 {
		return fmt.Errorf("%w: max spots must be positive", domain.ErrValidation)
	}

	if err := s.events.SetMaxSpots(ctx, eventID, maxSpots); err != nil {
		return err
	}

	s.appendAudit(ctx, eventID, tokenHash, domain.ActionCapacityUpdated, map[string]any{
		"max_spots": maxSpots,
	})

	return nil
}

func (s *EventService) CloseEvent(ctx context.Context, eventID, tokenHash string) error {
	if err := s.events.Close(ctx, eventID); err != nil {
		return err
	}

	s.appendAudit(ctx, eventID, tokenHash, domain.ActionEventClosed, nil)

	return nil
}

// RotateToken expires every live token for the event and returns a fresh
// raw token, shown to the organiser exactly once.
func (s *EventService) RotateToken(ctx context.Context, eventID, tokenHash string) (string, error) {
	raw, hash, err := newAdminToken()
	if err != nil {
		return "", err
	}

	token := &domain.AdminToken{
		ID:        uuid.New().String(),
		EventID:   eventID,
		TokenHash: hash,
		ExpiresAt: time.Now().UTC().Add(s.tokenTTL),
	}
	if err = s.tokens.Rotate(ctx, token); err != nil {
		return "", fmt.Errorf("rotate token: %w", err)
	}

	s.appendAudit(ctx, eventID, tokenHash, domain.ActionTokenRotated, nil)

	return raw, nil
}

// ActionLog returns the event's admin actions, newest first.
func (s *EventService) ActionLog(ctx context.Context, eventID string) ([]*domain.AdminAction, error) {
	return s.audit.ListByEvent(ctx, eventID)
}

// ResolveToken maps a raw bearer token to its event, rejecting unknown and
// expired tokens.
func (s *EventService) ResolveToken(ctx context.Context, rawToken string) (*domain.AdminToken, error) {
	if rawToken == "" {
		return nil, domain.ErrInvalidToken
	}

	token, err := s.tokens.GetByHash(ctx, HashToken(rawToken))
	if err != nil {
		return nil, err
	}
	if token.Expired(time.Now().UTC()) {
		return nil, domain.ErrTokenExpired
	}

	return token, nil
}

func (s *EventService) appendAudit(ctx context.Context, eventID, tokenHash, action string, metadata any) {
	var meta json.RawMessage
	if metadata != nil {
		b, err := json.Marshal(metadata)
		if err != nil {
			s.log.Error("failed to marshal audit metadata", logger.String("error", err.Error()))
		} else {
			meta = b
		}
	}

	err := s.audit.Append(ctx, &domain.AdminAction{
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
