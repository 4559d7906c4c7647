package dto

import (
	"encoding/json"
	"time"

	"github.com/CamMacB17/spotpay/internal/domain"
)

type EventResponse struct {
	ID             string `json:"id"`
	Slug           string `json:"slug"`
	Title          string `json:"title"`
	OrganiserName  string `json:"organiser_name"`
	OrganiserEmail string `json:"organiser_email,omitempty"`
	PricePence     *int64 `json:"price_pence"`
	MaxSpots       *int   `json:"max_spots"`
	StartsAt       string `json:"starts_at,omitempty"`
	ClosedAt       string `json:"closed_at,omitempty"`
	CreatedAt      string `json:"created_at"`
}

// CreateEventResponse carries the raw admin token. It is shown here once and
// stored only as a hash.
type CreateEventResponse struct {
	Event      EventResponse `json:"event"`
	AdminToken string        `json:"admin_token"`
	JoinURL    string        `json:"join_url"`
}

// PublicEventResponse is what the join page renders: availability without the
// attendee list.
type PublicEventResponse struct {
	Event     EventResponse `json:"event"`
	SpotsLeft *int          `json:"spots_left"`
	PaidCount int           `json:"paid_count"`
	Closed    bool          `json:"closed"`
}

type AdminEventResponse struct {
	Event       EventResponse     `json:"event"`
	ActiveSpots int               `json:"active_spots"`
	SpotsLeft   *int              `json:"spots_left"`
	PaidCount   int               `json:"paid_count"`
	Payments    []PaymentResponse `json:"payments"`
}

type PaymentResponse struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Email               string `json:"email"`
	Status              string `json:"status"`
	Refunded            bool   `json:"refunded"`
	AmountPence         int64  `json:"amount_pence"`
	AmountPenceCaptured int64  `json:"amount_pence_captured"`
	CreatedAt           string `json:"created_at"`
	PaidAt              string `json:"paid_at,omitempty"`
	RefundedAt          string `json:"refunded_at,omitempty"`
}

type JoinResponse struct {
	PaymentID   string `json:"payment_id"`
	Status      string `json:"status"`
	CheckoutURL string `json:"checkout_url,omitempty"`
}

type BulkRefundResponse struct {
	Attempted              int `json:"attempted"`
	Refunded               int `json:"refunded"`
	SkippedAlreadyRefunded int `json:"skipped_already_refunded"`
	Failed                 int `json:"failed"`
}

type AdminActionResponse struct {
	ID        string          `json:"id"`
	Action    string          `json:"action"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	CreatedAt string          `json:"created_at"`
}

type RotateTokenResponse struct {
	AdminToken string `json:"admin_token"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func ToEventResponse(e *domain.Event) EventResponse {
	resp := EventResponse{
		ID:             e.ID,
		Slug:           e.Slug,
		Title:          e.Title,
		OrganiserName:  e.OrganiserName,
		OrganiserEmail: e.OrganiserEmail,
		PricePence:     e.PricePence,
		MaxSpots:       e.MaxSpots,
		CreatedAt:      e.CreatedAt.Format(time.RFC3339),
	}
	if e.StartsAt != nil {
		resp.StartsAt = e.StartsAt.Format(time.RFC3339)
	}
	if e.ClosedAt != nil {
		resp.ClosedAt = e.ClosedAt.Format(time.RFC3339)
	}
	return resp
}

func ToPublicEventResponse(d *domain.EventDetails) PublicEventResponse {
	resp := PublicEventResponse{
		Event:     ToEventResponse(&d.Event),
		SpotsLeft: d.SpotsLeft(),
		PaidCount: d.PaidCount,
		Closed:    d.Event.Closed(),
	}
	// The organiser address is not part of the public page.
	resp.Event.OrganiserEmail = ""
	return resp
}

func ToAdminEventResponse(d *domain.EventDetails) AdminEventResponse {
	payments := make([]PaymentResponse, 0, len(d.Payments))
	for _, p := range d.Payments {
		payments = append(payments, ToPaymentResponse(&p))
	}

	return AdminEventResponse{
		Event:       ToEventResponse(&d.Event),
		ActiveSpots: d.ActiveSpots,
		SpotsLeft:   d.SpotsLeft(),
		PaidCount:   d.PaidCount,
		Payments:    payments,
	}
}

func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:                  p.ID,
		Name:                p.Name,
		Email:               p.Email,
		Status:              string(p.Status),
		Refunded:            p.Refunded(),
		AmountPence:         p.AmountPence,
		AmountPenceCaptured: p.AmountPenceCaptured,
		CreatedAt:           p.CreatedAt.Format(time.RFC3339),
	}
	if p.PaidAt != nil {
		resp.PaidAt = p.PaidAt.Format(time.RFC3339)
	}
	if p.RefundedAt != nil {
		resp.RefundedAt = p.RefundedAt.Format(time.RFC3339)
	}
	return resp
}

func ToAdminActionResponse(a *domain.AdminAction) AdminActionResponse {
	return AdminActionResponse{
		ID:        a.ID,
		Action:    a.Action,
		Metadata:  a.Metadata,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
}

func ToBulkRefundResponse(r *domain.BulkRefundResult) BulkRefundResponse {
	return BulkRefundResponse{
		Attempted:              r.Attempted,
		Refunded:               r.Refunded,
		SkippedAlreadyRefunded: r.SkippedAlreadyRefunded,
		Failed:                 r.Failed,
	}
}
