package dto

type CreateEventRequest struct {
	Title          string `json:"title" binding:"required"`
	OrganiserName  string `json:"organiser_name"`
	OrganiserEmail string `json:"organiser_email" binding:"required,email"`
	PricePence     *int64 `json:"price_pence" binding:"omitempty,gte=0"`
	MaxSpots       *int   `json:"max_spots" binding:"omitempty,gt=0"`
	StartsAt       string `json:"starts_at"`
}

type JoinRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

type UpdatePriceRequest struct {
	PricePence *int64 `json:"price_pence" binding:"required,gte=0"`
}

// SetCapacityRequest with a null max_spots lifts the cap entirely.
type SetCapacityRequest struct {
	MaxSpots *int `json:"max_spots" binding:"omitempty,gt=0"`
}
