package domain

import "time"

type PaymentStatus string

const (
	StatusPledged   PaymentStatus = "pledged"
	StatusPaid      PaymentStatus = "paid"
	StatusCancelled PaymentStatus = "cancelled"
)

// ActiveStatuses are the statuses that occupy a spot.
var ActiveStatuses = []PaymentStatus{StatusPledged, StatusPaid}

type Payment struct {
	ID                  string         `json:"id"`
	EventID             string         `json:"event_id"`
	Name                string         `json:"name"`
	Email               string         `json:"email"`
	Status              PaymentStatus  `json:"status"`
	AmountPence         int64          `json:"amount_pence"`
	AmountPenceCaptured int64          `json:"amount_pence_captured"`
	CreatedAt           time.Time      `json:"created_at"`
	PaidAt              *time.Time     `json:"paid_at"`
	RefundedAt          *time.Time     `json:"refunded_at"`
	StripeRefundID      *string        `json:"stripe_refund_id"`
	CheckoutSessionID   *string        `json:"stripe_checkout_session_id"`
	PaymentIntentID     *string        `json:"stripe_payment_intent_id"`
	ReceiptEmailSentAt  *time.Time     `json:"receipt_email_sent_at"`
	RefundEmailSentAt   *time.Time     `json:"refund_email_sent_at"`
	OrganiserNotifiedAt *time.Time     `json:"organiser_notified_at"`
}

// Refunded reports the derived "refunded" state. There is deliberately no
// fourth status value: a refund is a cancelled payment carrying refund
// metadata.
func (p *Payment) Refunded() bool {
	return p.Status == StatusCancelled && p.RefundedAt != nil
}

// Active reports whether the payment occupies a spot.
func (p *Payment) Active() bool {
	return p.Status == StatusPledged || p.Status == StatusPaid
}

// BulkRefundResult aggregates the outcome of refunding every paid
// payment of an event.
type BulkRefundResult struct {
	Attempted              int `json:"attempted"`
	Refunded               int `json:"refunded"`
	SkippedAlreadyRefunded int `json:"skipped_already_refunded"`
	Failed                 int `json:"failed"`
}
