package repository

import (
	"context"
	"strings"

	"tourbooking/internal/domain"

	"gorm.io/gorm"
)

type TourSort string

const (
	SortNewest    TourSort = "newest"
	SortPriceAsc  TourSort = "price_asc"
	SortPriceDesc TourSort = "price_desc"
	SortRating    TourSort = "rating"
)

// TourFilter narrows the public catalog. Zero values mean "no constraint";
// all set constraints are combined with AND.
type TourFilter struct {
	Query           string
	CategorySlug    string
	DestinationSlug string
	TagSlug         string
	Location        string
	MinPrice        *float64
	MaxPrice        *float64
	MinRating       *float64
	Sort            TourSort
	Limit           int
	Offset          int
}

type TourRepository struct {
	db *gorm.DB
}

func NewTourRepository(db *gorm.DB) *TourRepository {
	return &TourRepository{db: db}
}

// public is the base query for anything customer facing: inactive tours never leave it.
func (r *TourRepository) public(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&domain.Tour{}).
		Select("tours.*").
		Where("tours.status <> ?", domain.TourInactive).
		Preload("Category").
		Preload("Destination").
		Preload("Tags")
}

// Search returns public tours matching every constraint set in f.
func (r *TourRepository) Search(ctx context.Context, f TourFilter) ([]domain.Tour, error) {
	q := r.public(ctx)

	if f.CategorySlug != "" {
		q = q.Joins("JOIN categories ON categories.id = tours.category_id").
			Where("categories.slug = ?", f.CategorySlug)
	}
	if f.DestinationSlug != "" {
		q = q.Joins("JOIN destinations ON destinations.id = tours.destination_id").
			Where("destinations.slug = ?", f.DestinationSlug)
	}
	if f.TagSlug != "" {
		q = q.Joins("JOIN tour_tags ON tour_tags.tour_id = tours.id").
			Joins("JOIN tags ON tags.id = tour_tags.tag_id").
			Where("tags.slug = ?", f.TagSlug)
	}
	if text := strings.TrimSpace(f.Query); text != "" {
		pattern := "%" + strings.ToLower(text) + "%"
		q = q.Where("(LOWER(tours.title) LIKE ? OR LOWER(tours.description) LIKE ?)", pattern, pattern)
	}
	if loc := strings.TrimSpace(f.Location); loc != "" {
		q = q.Where("LOWER(tours.location) LIKE ?", "%"+strings.ToLower(loc)+"%")
	}
	if f.MinPrice != nil {
		q = q.Where("tours.price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("tours.price <= ?", *f.MaxPrice)
	}
	if f.MinRating != nil {
		q = q.Where("tours.rating >= ?", *f.MinRating)
	}

	switch f.Sort {
	case SortPriceAsc:
		q = q.Order("tours.price ASC")
	case SortPriceDesc:
		q = q.Order("tours.price DESC")
	case SortRating:
		q = q.Order("tours.rating DESC").Order("tours.review_count DESC")
	default:
		q = q.Order("tours.created_at DESC")
	}
	q = q.Order("tours.id ASC")

	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var tours []domain.Tour
	if err := q.Find(&tours).Error; err != nil {
		return nil, err
	}
	return tours, nil
}

// Featured returns public featured tours in explicit display order.
func (r *TourRepository) Featured(ctx context.Context) ([]domain.Tour, error) {
	var tours []domain.Tour
	err := r.public(ctx).
		Where("tours.featured = ?", true).
		Order("tours.featured_order ASC").
		Order("tours.id ASC").
		Find(&tours).Error
	if err != nil {
		return nil, err
	}
	return tours, nil
}

// GetBySlug fetches a public tour; inactive tours are reported as not found.
func (r *TourRepository) GetBySlug(ctx context.Context, slug string) (*domain.Tour, error) {
	var t domain.Tour
	if err := r.public(ctx).Where("tours.slug = ?", slug).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// GetByID fetches a tour regardless of status.
func (r *TourRepository) GetByID(ctx context.Context, id string) (*domain.Tour, error) {
	var t domain.Tour
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// Create validates and inserts a tour together with its tag links.
func (r *TourRepository) Create(ctx context.Context, t *domain.Tour) error {
	if err := t.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TourRepository) SetStatus(ctx context.Context, id string, status domain.TourStatus) error {
	tx := r.db.WithContext(ctx).
		Model(&domain.Tour{}).
		Where("id = ?", id).
		Update("status", status)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateRatingStats stores the aggregate of approved reviews on the tour row.
func (r *TourRepository) UpdateRatingStats(ctx context.Context, id string, rating float64, count int64) error {
	return updateRatingStats(r.db.WithContext(ctx), id, rating, count)
}

func updateRatingStats(db *gorm.DB, id string, rating float64, count int64) error {
	return db.
		Model(&domain.Tour{}).
		Where("id = ?", id).
		Updates(map[string]any{"rating": rating, "review_count": count}).Error
}
