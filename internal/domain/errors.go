package domain

import "errors"

var (
	ErrEventNotFound   = errors.New("event not found")
	ErrPaymentNotFound = errors.New("payment not found")
)

var (
	ErrEventFull            = errors.New("event is full")
	ErrEventClosed          = errors.New("event is closed")
	ErrAlreadyBooked        = errors.New("email already has an active spot for this event")
	ErrInvalidTransition    = errors.New("invalid payment transition")
	ErrPriceLocked          = errors.New("price is locked after the first completed payment")
	ErrCapacityBelowActive  = errors.New("cannot reduce capacity below current occupancy")
	ErrNotPaid              = errors.New("payment is not in paid status")
	ErrNotPledged           = errors.New("payment is not in pledged status")
	ErrAlreadyRefunded      = errors.New("payment already refunded")
	ErrMissingPaymentIntent = errors.New("payment has no provider payment intent")
)

var (
	ErrWebhookAlreadyProcessed = errors.New("webhook event already processed")
	ErrInvalidSignature        = errors.New("invalid webhook signature")
	ErrPaymentProvider         = errors.New("payment provider error")
)

var (
	ErrInvalidToken = errors.New("invalid admin token")
	ErrTokenExpired = errors.New("admin token expired")
)

var (
	ErrValidation = errors.New("validation error")
)
