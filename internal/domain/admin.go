package domain

import (
	"encoding/json"
	"time"
)

// AdminToken is a bearer capability scoped to a single event. Old tokens are
// expired on rotation, never deleted.
type AdminToken struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	TokenHash string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (t *AdminToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}

// Admin action types recorded in the audit log.
const (
	ActionPriceUpdated    = "price_updated"
	ActionCapacityUpdated = "capacity_updated"
	ActionEventClosed     = "event_closed"
	ActionRefund          = "refund"
	ActionBulkRefund      = "bulk_refund"
	ActionTokenRotated    = "token_rotated"
)

// AdminAction is one append-only audit row. TokenHash is the SHA-256 of the
// token that performed the action, never the raw token.
type AdminAction struct {
	ID        string          `json:"id"`
	EventID   string          `json:"event_id"`
	TokenHash string          `json:"-"`
	Action    string          `json:"action"`
	Metadata  json.RawMessage `json:"metadata"`
	CreatedAt time.Time       `json:"created_at"`
}
