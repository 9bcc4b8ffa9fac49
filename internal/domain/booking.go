package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// CanTransition reports whether a booking may move from s to next.
// Only pending bookings move, and only to confirmed or cancelled.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	return s == BookingPending && (next == BookingConfirmed || next == BookingCancelled)
}

type Booking struct {
	ID              string        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	TourID          string        `json:"tour_id" gorm:"type:varchar(36);not null;index"`
	UserID          *string       `json:"user_id,omitempty" gorm:"type:varchar(36);index"`
	BookingDate     time.Time     `json:"booking_date"`
	Adults          int           `json:"adults"`
	Children        int           `json:"children"`
	Infants         int           `json:"infants"`
	PickupRequired  bool          `json:"pickup_required"`
	PickupLocation  string        `json:"pickup_location,omitempty"`
	ContactName     string        `json:"contact_name"`
	ContactEmail    string        `json:"contact_email"`
	ContactPhone    string        `json:"contact_phone"`
	SpecialRequests string        `json:"special_requests,omitempty" gorm:"type:text"`
	Status          BookingStatus `json:"status" gorm:"type:varchar(16);not null;index"`
	PaymentStatus   PaymentStatus `json:"payment_status" gorm:"type:varchar(16);not null"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`

	Tour *Tour `json:"tour,omitempty" gorm:"foreignKey:TourID"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// Guests is the number of travellers on the booking.
func (b Booking) Guests() int {
	return b.Adults + b.Children + b.Infants
}

// UserBooking is a booking as listed on the customer's own page.
type UserBooking struct {
	ID            string        `json:"id"`
	BookingDate   time.Time     `json:"booking_date"`
	Adults        int           `json:"adults"`
	Children      int           `json:"children"`
	Infants       int           `json:"infants"`
	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	CreatedAt     time.Time     `json:"created_at"`
	Tour          TourSummary   `json:"tour"`
}
