package ports

import "context"

// CheckoutSession is the provider-side checkout flow handle.
type CheckoutSession struct {
	ID  string
	URL string
}

type CheckoutParams struct {
	// PaymentID travels as client_reference_id and metadata so the webhook
	// can resolve the payment even if the stored session id is lost.
	PaymentID     string
	EventTitle    string
	CustomerEmail string
	AmountPence   int64
}

// PaymentProvider is the boundary to the hosted checkout provider.
type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, p CheckoutParams) (*CheckoutSession, error)
	// CreateRefund refunds the full captured amount and returns the provider
	// refund id.
	CreateRefund(ctx context.Context, paymentIntentID string) (string, error)
}

// Mailer delivers best-effort email; failures must never affect payment
// state.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
