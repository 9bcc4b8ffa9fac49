package review

import (
	"context"

	"tourbooking/internal/domain"
	"tourbooking/internal/repository"
)

type ReviewRepository interface {
	Create(ctx context.Context, rv *domain.Review) error
	GetByID(ctx context.Context, id string) (*domain.Review, error)
	ListApprovedByTour(ctx context.Context, tourID string) ([]domain.Review, error)
	List(ctx context.Context, f repository.ReviewListFilter) ([]domain.Review, int64, error)
	IncrementVote(ctx context.Context, id string, helpful bool) (bool, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.ReviewStatus) (bool, error)
	Approve(ctx context.Context, id, tourID string) (bool, error)
}

// TourStore is the slice of the tour repository reviews need.
type TourStore interface {
	GetByID(ctx context.Context, id string) (*domain.Tour, error)
}
