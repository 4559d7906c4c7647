package domain

import "fmt"

// allowedTransitions is the single source of truth for payment lifecycle
// legality. Every mutating path (checkout, webhook, refund, reaper) must go
// through AssertTransition before persisting a status change.
var allowedTransitions = map[PaymentStatus][]PaymentStatus{
	StatusPledged:   {StatusPaid, StatusCancelled},
	StatusPaid:      {StatusCancelled},
	StatusCancelled: {},
}

// AssertTransition returns nil if moving a payment from one status to
// another is legal. Self-transitions are no-ops and always allowed.
func AssertTransition(from, to PaymentStatus) error {
	if from == to {
		return nil
	}
	for _, s := range allowedTransitions[from] {
		if s == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
