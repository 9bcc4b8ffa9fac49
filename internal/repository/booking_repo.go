package repository

import (
	"context"

	"tourbooking/internal/domain"

	"gorm.io/gorm"
)

type BookingListFilter struct {
	Status domain.BookingStatus
	Limit  int
	Offset int
}

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts the booking in a single statement; b is refreshed with generated fields.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Omit("Tour").Create(b).Error
}

// GetByID returns the booking with its full tour record.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.WithContext(ctx).
		Preload("Tour").
		Preload("Tour.Category").
		Preload("Tour.Destination").
		Where("id = ?", id).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListByUser returns the user's bookings newest first with a minimal tour projection.
func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	var out []domain.Booking
	err := r.db.WithContext(ctx).
		Preload("Tour", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "slug", "title", "images")
		}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BookingRepository) List(ctx context.Context, f BookingListFilter) ([]domain.Booking, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Booking{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
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

	var out []domain.Booking
	err := q.Preload("Tour", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "slug", "title", "images")
	}).
		Order("created_at DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// UpdateStatus moves a booking from one status to another. The from status is part of
// the WHERE clause so a concurrent transition makes this a no-op (false).
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) (bool, error) {
	tx := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *BookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return countByStatus(ctx, r.db, "bookings")
}

type statusCount struct {
	Status string
	Total  int64
}

func countByStatus(ctx context.Context, db *gorm.DB, table string) (map[string]int64, error) {
	var rows []statusCount
	err := db.WithContext(ctx).
		Table(table).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Total
	}
	return out, nil
}
