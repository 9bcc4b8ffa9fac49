package admin

import (
	"context"

	"tourbooking/internal/domain"
	"tourbooking/internal/modules/booking"
	"tourbooking/internal/modules/review"
)

type BookingModerator interface {
	ListBookings(ctx context.Context, status string, limit, offset int) (*booking.BookingList, error)
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error)
}

type ReviewModerator interface {
	ListReviews(ctx context.Context, status string, limit, offset int) (*review.ReviewList, error)
	UpdateStatus(ctx context.Context, id string, status domain.ReviewStatus) (*domain.Review, error)
}

// TourStatusStore switches tours between active and inactive.
type TourStatusStore interface {
	SetStatus(ctx context.Context, id string, status domain.TourStatus) error
}

// StatusCounter is implemented by the booking and review repositories.
type StatusCounter interface {
	CountByStatus(ctx context.Context) (map[string]int64, error)
}
