package review

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tourbooking/internal/domain"
	"tourbooking/internal/notification"
	"tourbooking/internal/pkg/validator"
	"tourbooking/internal/repository"

	"github.com/rs/zerolog"
)

type Service struct {
	reviews ReviewRepository
	tours   TourStore
	events  notification.Publisher
	log     zerolog.Logger
	now     func() time.Time
}

func NewService(reviews ReviewRepository, tours TourStore, events notification.Publisher, log zerolog.Logger) *Service {
	if events == nil {
		events = notification.Nop()
	}
	return &Service{reviews: reviews, tours: tours, events: events, log: log, now: time.Now}
}

// GetReviewsByTourID returns the approved reviews of a tour, newest first.
func (s *Service) GetReviewsByTourID(ctx context.Context, tourID string) ([]domain.Review, error) {
	items, err := s.reviews.ListApprovedByTour(ctx, tourID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreRead, err)
	}
	if items == nil {
		items = []domain.Review{}
	}
	return items, nil
}

// SubmitReview stores a review for moderation. It always starts pending with no votes.
func (s *Service) SubmitReview(ctx context.Context, req SubmitReviewRequest) (*domain.Review, error) {
	req.Comment = strings.TrimSpace(req.Comment)
	req.AuthorName = strings.TrimSpace(req.AuthorName)
	if errs := validator.Validate(req); errs != nil {
		return nil, FieldErrors(errs)
	}

	if _, err := s.tours.GetByID(ctx, req.TourID); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrTourNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreRead, err)
	}

	rv := &domain.Review{
		TourID:       req.TourID,
		AuthorName:   req.AuthorName,
		AuthorEmail:  strings.ToLower(strings.TrimSpace(req.AuthorEmail)),
		AuthorAvatar: strings.TrimSpace(req.AuthorAvatar),
		Rating:       req.Rating,
		Title:        strings.TrimSpace(req.Title),
		Comment:      req.Comment,
		Date:         s.now().UTC(),
		Status:       domain.ReviewPending,
	}

	if err := s.reviews.Create(ctx, rv); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}

	s.publish(ctx, notification.NewEvent(notification.TypeReviewSubmitted, rv.ID, rv.TourID, map[string]any{
		"rating":      rv.Rating,
		"author_name": rv.AuthorName,
	}))
	return rv, nil
}

// VoteReview counts one helpful or unhelpful vote. The increment happens in the
// store so concurrent votes are never lost.
func (s *Service) VoteReview(ctx context.Context, reviewID string, helpful bool) error {
	ok, err := s.reviews.IncrementVote(ctx, reviewID, helpful)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *Service) ListReviews(ctx context.Context, status string, limit, offset int) (*ReviewList, error) {
	st := domain.ReviewStatus(status)
	switch st {
	case "", domain.ReviewPending, domain.ReviewApproved, domain.ReviewRejected:
	default:
		return nil, FieldErrors{"status": "oneof"}
	}

	items, total, err := s.reviews.List(ctx, repository.ReviewListFilter{Status: st, Limit: limit, Offset: offset})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreRead, err)
	}
	return &ReviewList{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

// UpdateStatus moderates a pending review. Approval refreshes the tour's
// rating and review count from its approved reviews in the same write.
func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.ReviewStatus) (*domain.Review, error) {
	rv, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreRead, err)
	}
	if !rv.Status.CanTransition(status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, rv.Status, status)
	}

	var ok bool
	evType := notification.TypeReviewRejected
	if status == domain.ReviewApproved {
		evType = notification.TypeReviewApproved
		ok, err = s.reviews.Approve(ctx, id, rv.TourID)
	} else {
		ok, err = s.reviews.UpdateStatus(ctx, id, rv.Status, status)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: review is no longer %s", ErrInvalidTransition, rv.Status)
	}
	rv.Status = status

	s.publish(ctx, notification.NewEvent(evType, rv.ID, rv.TourID, map[string]any{"status": status}))
	return rv, nil
}

func (s *Service) publish(ctx context.Context, ev notification.Event) {
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("type", ev.Type).Str("entity_id", ev.EntityID).Msg("event publish failed")
	}
}
