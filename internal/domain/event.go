package domain

import "time"

type Event struct {
	ID             string     `json:"id"`
	Slug           string     `json:"slug"`
	Title          string     `json:"title"`
	OrganiserName  string     `json:"organiser_name"`
	OrganiserEmail string     `json:"organiser_email"`
	PricePence     *int64     `json:"price_pence"`
	MaxSpots       *int       `json:"max_spots"`
	StartsAt       *time.Time `json:"starts_at"`
	ClosedAt       *time.Time `json:"closed_at"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Free reports whether joining the event requires no payment.
func (e *Event) Free() bool {
	return e.PricePence == nil || *e.PricePence == 0
}

func (e *Event) Closed() bool {
	return e.ClosedAt != nil
}

// Price returns the per-spot charge in pence, zero for free events.
func (e *Event) Price() int64 {
	if e.PricePence == nil {
		return 0
	}
	return *e.PricePence
}

type EventDetails struct {
	Event       Event     `json:"event"`
	ActiveSpots int       `json:"active_spots"`
	PaidCount   int       `json:"paid_count"`
	Payments    []Payment `json:"payments"`
}

// SpotsLeft returns the remaining capacity, or nil for unlimited events.
func (d *EventDetails) SpotsLeft() *int {
	if d.Event.MaxSpots == nil {
		return nil
	}
	left := *d.Event.MaxSpots - d.ActiveSpots
	if left < 0 {
		left = 0
	}
	return &left
}

type CreateEventInput struct {
	Title          string
	OrganiserName  string
	OrganiserEmail string
	PricePence     *int64
	MaxSpots       *int
	StartsAt       *time.Time
}
