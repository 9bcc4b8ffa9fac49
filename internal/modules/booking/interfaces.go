package booking

import (
	"context"

	"tourbooking/internal/domain"
	"tourbooking/internal/repository"
)

// BookingRepository defines the interface for booking operations
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Booking, error)
	List(ctx context.Context, f repository.BookingListFilter) ([]domain.Booking, int64, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) (bool, error)
}

// TourLookup resolves the tour a booking refers to, regardless of status.
type TourLookup interface {
	GetByID(ctx context.Context, id string) (*domain.Tour, error)
}
