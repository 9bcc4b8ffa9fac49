package admin

import (
	"context"
	"errors"
	"fmt"

	"tourbooking/internal/domain"
	"tourbooking/internal/modules/booking"
	"tourbooking/internal/modules/review"

	"gorm.io/gorm"
)

var (
	ErrStoreRead    = errors.New("store read failed")
	ErrStoreWrite   = errors.New("store write failed")
	ErrTourNotFound = errors.New("tour not found")
)

// Service is the admin back office. Booking and review status changes go
// through their services so transition rules and events apply unchanged.
type Service struct {
	bookings      BookingModerator
	reviews       ReviewModerator
	tours         TourStatusStore
	bookingCounts StatusCounter
	reviewCounts  StatusCounter
	hub           *Hub
}

func NewService(bookings BookingModerator, reviews ReviewModerator, tours TourStatusStore, bookingCounts, reviewCounts StatusCounter, hub *Hub) *Service {
	return &Service{
		bookings:      bookings,
		reviews:       reviews,
		tours:         tours,
		bookingCounts: bookingCounts,
		reviewCounts:  reviewCounts,
		hub:           hub,
	}
}

func (s *Service) ListBookings(ctx context.Context, status string, limit, offset int) (*booking.BookingList, error) {
	return s.bookings.ListBookings(ctx, status, limit, offset)
}

func (s *Service) UpdateBookingStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	return s.bookings.UpdateStatus(ctx, id, status)
}

func (s *Service) ListReviews(ctx context.Context, status string, limit, offset int) (*review.ReviewList, error) {
	return s.reviews.ListReviews(ctx, status, limit, offset)
}

func (s *Service) UpdateReviewStatus(ctx context.Context, id string, status domain.ReviewStatus) (*domain.Review, error) {
	return s.reviews.UpdateStatus(ctx, id, status)
}

// UpdateTourStatus hides a tour from the catalog or brings it back. Inactive
// tours stay readable by id but cannot be booked.
func (s *Service) UpdateTourStatus(ctx context.Context, id string, status domain.TourStatus) error {
	if err := s.tours.SetStatus(ctx, id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTourNotFound
		}
		return fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}
	return nil
}

// Stats reports stored counts per status without further interpretation.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	bookings, err := s.bookingCounts.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: bookings: %v", ErrStoreRead, err)
	}
	reviews, err := s.reviewCounts.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: reviews: %v", ErrStoreRead, err)
	}

	out := &Stats{Bookings: bookings, Reviews: reviews}
	if s.hub != nil {
		out.LiveClients = s.hub.OnlineCount()
	}
	return out, nil
}
