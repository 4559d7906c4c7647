package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/logger"

	"github.com/CamMacB17/spotpay/internal/domain"
	"github.com/CamMacB17/spotpay/internal/handler/dto"
	"github.com/CamMacB17/spotpay/internal/middleware"
	"github.com/CamMacB17/spotpay/internal/service"
)

type EventSvc interface {
	CreateEvent(ctx context.Context, input domain.CreateEventInput) (*service.CreatedEvent, error)
	PublicDetails(ctx context.Context, slug string) (*domain.EventDetails, error)
	AdminDetails(ctx context.Context, eventID string) (*domain.EventDetails, error)
	UpdatePrice(ctx context.Context, eventID string, pricePence int64, tokenHash string) error
	SetMaxSpots(ctx context.Context, eventID string, maxSpots *int, tokenHash string) error
	CloseEvent(ctx context.Context, eventID, tokenHash string) error
	RotateToken(ctx context.Context, eventID, tokenHash string) (string, error)
	ActionLog(ctx context.Context, eventID string) ([]*domain.AdminAction, error)
}

type CheckoutSvc interface {
	PayAndJoin(ctx context.Context, slug, name, email string) (*service.JoinResult, error)
}

type WebhookSvc interface {
	HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) error
}

type RefundSvc interface {
	Refund(ctx context.Context, eventID, paymentID, tokenHash string) (*domain.Payment, error)
	RefundAll(ctx context.Context, eventID, tokenHash string) (*domain.BulkRefundResult, error)
}

type Handler struct {
	eventService    EventSvc
	checkoutService CheckoutSvc
	webhookService  WebhookSvc
	refundService   RefundSvc
	baseURL         string
	log             logger.Logger
}

func NewHandler(
	eventService EventSvc,
	checkoutService CheckoutSvc,
	webhookService WebhookSvc,
	refundService RefundSvc,
	baseURL string,
	log logger.Logger,
) *Handler {
	return &Handler{
		eventService:    eventService,
		checkoutService: checkoutService,
		webhookService:  webhookService,
		refundService:   refundService,
		baseURL:         baseURL,
		log:             log,
	}
}

// Events

func (h *Handler) CreateEvent(c *ginext.Context) {
	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	input := domain.CreateEventInput{
		Title:          req.Title,
		OrganiserName:  req.OrganiserName,
		OrganiserEmail: req.OrganiserEmail,
		PricePence:     req.PricePence,
		MaxSpots:       req.MaxSpots,
	}
	if req.StartsAt != "" {
		startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "invalid starts_at format, expected RFC3339",
			})
			return
		}
		input.StartsAt = &startsAt
	}

	created, err := h.eventService.CreateEvent(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreateEventResponse{
		Event:      dto.ToEventResponse(created.Event),
		AdminToken: created.AdminToken,
		JoinURL:    h.baseURL + "/e/" + created.Event.Slug,
	})
}

func (h *Handler) GetEvent(c *ginext.Context) {
	details, err := h.eventService.PublicDetails(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPublicEventResponse(details))
}

// Joining

func (h *Handler) JoinEvent(c *ginext.Context) {
	var req dto.JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.checkoutService.PayAndJoin(c.Request.Context(), c.Param("slug"), req.Name, req.Email)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.JoinResponse{
		PaymentID:   result.Payment.ID,
		Status:      string(result.Payment.Status),
		CheckoutURL: result.CheckoutURL,
	})
}

// Webhooks

// StripeWebhook acknowledges everything except a bad signature. Internal
// failures are logged and answered 200 so the provider retry schedule, not
// our error budget, decides redelivery.
func (h *Handler) StripeWebhook(c *ginext.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "unreadable body"})
		return
	}

	err = h.webhookService.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSignature) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid signature"})
			return
		}

		h.log.Error("webhook processing failed",
			logger.String("error", err.Error()),
		)
	}

	c.JSON(http.StatusOK, ginext.H{"received": true})
}

// Admin

func (h *Handler) AdminGetEvent(c *ginext.Context) {
	details, err := h.eventService.AdminDetails(c.Request.Context(), c.GetString(middleware.EventIDKey))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAdminEventResponse(details))
}

func (h *Handler) UpdatePrice(c *ginext.Context) {
	var req dto.UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	err := h.eventService.UpdatePrice(
		c.Request.Context(),
		c.GetString(middleware.EventIDKey),
		*req.PricePence,
		c.GetString(middleware.TokenHashKey),
	)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ginext.H{"status": "updated"})
}

func (h *Handler) SetCapacity(c *ginext.Context) {
	var req dto.SetCapacityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	err := h.eventService.SetMaxSpots(
		c.Request.Context(),
		c.GetString(middleware.EventIDKey),
		req.MaxSpots,
		c.GetString(middleware.TokenHashKey),
	)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ginext.H{"status": "updated"})
}

func (h *Handler) CloseEvent(c *ginext.Context) {
	err := h.eventService.CloseEvent(
		c.Request.Context(),
		c.GetString(middleware.EventIDKey),
		c.GetString(middleware.TokenHashKey),
	)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ginext.H{"status": "closed"})
}

func (h *Handler) RefundPayment(c *ginext.Context) {
	paymentID := c.Param("id")
	if _, err := uuid.Parse(paymentID); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid payment id"})
		return
	}

	p, err := h.refundService.Refund(
		c.Request.Context(),
		c.GetString(middleware.EventIDKey),
		paymentID,
		c.GetString(middleware.TokenHashKey),
	)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPaymentResponse(p))
}

func (h *Handler) RefundAll(c *ginext.Context) {
	result, err := h.refundService.RefundAll(
		c.Request.Context(),
		c.GetString(middleware.EventIDKey),
		c.GetString(middleware.TokenHashKey),
	)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBulkRefundResponse(result))
}

func (h *Handler) GetActionLog(c *ginext.Context) {
	actions, err := h.eventService.ActionLog(c.Request.Context(), c.GetString(middleware.EventIDKey))
	if err != nil {
		h.handleError(c, err)
		return
	}

	resp := make([]dto.AdminActionResponse, 0, len(actions))
	for _, a := range actions {
		resp = append(resp, dto.ToAdminActionResponse(a))
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) RotateToken(c *ginext.Context) {
	raw, err := h.eventService.RotateToken(
		c.Request.Context(),
		c.GetString(middleware.EventIDKey),
		c.GetString(middleware.TokenHashKey),
	)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.RotateTokenResponse{AdminToken: raw})
}

func (h *Handler) handleError(c *ginext.Context, err error) {
	c.Set("error", err.Error())

	switch {
	case errors.Is(err, domain.ErrEventNotFound),
		errors.Is(err, domain.ErrPaymentNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})

	case errors.Is(err, domain.ErrEventFull),
		errors.Is(err, domain.ErrEventClosed),
		errors.Is(err, domain.ErrAlreadyBooked),
		errors.Is(err, domain.ErrPriceLocked),
		errors.Is(err, domain.ErrCapacityBelowActive),
		errors.Is(err, domain.ErrAlreadyRefunded),
		errors.Is(err, domain.ErrNotPaid),
		errors.Is(err, domain.ErrMissingPaymentIntent):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})

	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})

	case errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: err.Error()})

	case errors.Is(err, domain.ErrPaymentProvider):
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: "payment provider unavailable"})

	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}
}
