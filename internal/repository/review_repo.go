package repository

import (
	"context"

	"tourbooking/internal/domain"

	"gorm.io/gorm"
)

type ReviewListFilter struct {
	Status domain.ReviewStatus
	TourID string
	Limit  int
	Offset int
}

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	return r.db.WithContext(ctx).Create(rv).Error
}

func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	var rv domain.Review
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rv).Error; err != nil {
		return nil, err
	}
	return &rv, nil
}

// ListApprovedByTour returns only approved reviews, newest first.
func (r *ReviewRepository) ListApprovedByTour(ctx context.Context, tourID string) ([]domain.Review, error) {
	var out []domain.Review
	err := r.db.WithContext(ctx).
		Where("tour_id = ? AND status = ?", tourID, domain.ReviewApproved).
		Order("date DESC").
		Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ReviewRepository) List(ctx context.Context, f ReviewListFilter) ([]domain.Review, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Review{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.TourID != "" {
		q = q.Where("tour_id = ?", f.TourID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	var out []domain.Review
	if err := q.Order("date DESC").Limit(f.Limit).Offset(f.Offset).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// IncrementVote bumps one vote counter with store side arithmetic, so concurrent
// votes never overwrite each other. It returns false when the review does not exist.
func (r *ReviewRepository) IncrementVote(ctx context.Context, id string, helpful bool) (bool, error) {
	column := "unhelpful_votes"
	if helpful {
		column = "helpful_votes"
	}
	tx := r.db.WithContext(ctx).
		Model(&domain.Review{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *ReviewRepository) UpdateStatus(ctx context.Context, id string, from, to domain.ReviewStatus) (bool, error) {
	tx := r.db.WithContext(ctx).
		Model(&domain.Review{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// Approve moves a pending review to approved and stores the tour's new rating
// and review count in the same transaction. It returns false when the review
// is no longer pending; nothing is written in that case.
func (r *ReviewRepository) Approve(ctx context.Context, id, tourID string) (bool, error) {
	approved := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Review{}).
			Where("id = ? AND status = ?", id, domain.ReviewPending).
			Update("status", domain.ReviewApproved)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		avg, count, err := approvedStats(tx, tourID)
		if err != nil {
			return err
		}
		if err := updateRatingStats(tx, tourID, domain.RoundRating(avg), count); err != nil {
			return err
		}
		approved = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return approved, nil
}

// ApprovedStats returns the average rating and count of approved reviews for a tour.
func (r *ReviewRepository) ApprovedStats(ctx context.Context, tourID string) (float64, int64, error) {
	return approvedStats(r.db.WithContext(ctx), tourID)
}

func approvedStats(db *gorm.DB, tourID string) (float64, int64, error) {
	var row struct {
		Avg   float64
		Total int64
	}
	err := db.
		Model(&domain.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS total").
		Where("tour_id = ? AND status = ?", tourID, domain.ReviewApproved).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.Avg, row.Total, nil
}

func (r *ReviewRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return countByStatus(ctx, r.db, "reviews")
}
