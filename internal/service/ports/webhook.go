package ports

// Provider webhook event types the reconciler understands.
const (
	WebhookCheckoutCompleted = "checkout.session.completed"
	WebhookCheckoutExpired   = "checkout.session.expired"
)

// WebhookEvent is a verified, flattened provider event.
type WebhookEvent struct {
	ID                string
	Type              string
	SessionID         string
	PaymentIntentID   string
	AmountTotal       int64
	ClientReferenceID string
	// PaymentID is the payment id echoed back through session metadata,
	// used as a fallback when the stored session id does not resolve.
	PaymentID string
}

// WebhookVerifier checks the provider signature and parses the payload.
// Verification failure must map to domain.ErrInvalidSignature.
type WebhookVerifier interface {
	Verify(payload []byte, signatureHeader string) (*WebhookEvent, error)
}
