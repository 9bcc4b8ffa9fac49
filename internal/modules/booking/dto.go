package booking

import "tourbooking/internal/domain"

const DateLayout = "2006-01-02"

// CreateBookingRequest is the public booking form. Status and PaymentStatus are
// accepted for compatibility with older clients but never honoured.
type CreateBookingRequest struct {
	TourID          string `json:"tour_id" validate:"required"`
	BookingDate     string `json:"booking_date" validate:"required"`
	Adults          int    `json:"adults" validate:"gte=1,lte=100"`
	Children        int    `json:"children" validate:"gte=0,lte=100"`
	Infants         int    `json:"infants" validate:"gte=0,lte=100"`
	PickupRequired  bool   `json:"pickup_required"`
	PickupLocation  string `json:"pickup_location" validate:"required_if=PickupRequired true,max=255"`
	ContactName     string `json:"contact_name" validate:"required,max=120"`
	ContactEmail    string `json:"contact_email" validate:"required,email"`
	ContactPhone    string `json:"contact_phone" validate:"required,min=5,max=32"`
	SpecialRequests string `json:"special_requests" validate:"max=2000"`

	Status        string `json:"status,omitempty"`
	PaymentStatus string `json:"payment_status,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed cancelled"`
}

type BookingList struct {
	Items  []domain.Booking `json:"items"`
	Total  int64            `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}
