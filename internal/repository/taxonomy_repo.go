package repository

import (
	"context"

	"tourbooking/internal/domain"

	"gorm.io/gorm"
)

const (
	categoryCountSQL    = "(SELECT COUNT(*) FROM tours WHERE tours.category_id = categories.id AND tours.status <> ?) AS tour_count"
	destinationCountSQL = "(SELECT COUNT(*) FROM tours WHERE tours.destination_id = destinations.id AND tours.status <> ?) AS tour_count"
	tagCountSQL         = "(SELECT COUNT(*) FROM tour_tags JOIN tours ON tours.id = tour_tags.tour_id WHERE tour_tags.tag_id = tags.id AND tours.status <> ?) AS tour_count"
)

// TaxonomyRepository reads the category, destination and tag dimensions
// with their derived tour counts.
type TaxonomyRepository struct {
	db *gorm.DB
}

func NewTaxonomyRepository(db *gorm.DB) *TaxonomyRepository {
	return &TaxonomyRepository{db: db}
}

func (r *TaxonomyRepository) counted(ctx context.Context, table, countSQL string) *gorm.DB {
	return r.db.WithContext(ctx).
		Table(table).
		Select(table+".*, "+countSQL, domain.TourInactive)
}

func (r *TaxonomyRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	err := r.counted(ctx, "categories", categoryCountSQL).Order("categories.name ASC").Find(&out).Error
	return out, err
}

func (r *TaxonomyRepository) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	var c domain.Category
	err := r.counted(ctx, "categories", categoryCountSQL).Where("categories.slug = ?", slug).Take(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *TaxonomyRepository) ListDestinations(ctx context.Context) ([]domain.Destination, error) {
	var out []domain.Destination
	err := r.counted(ctx, "destinations", destinationCountSQL).Order("destinations.name ASC").Find(&out).Error
	return out, err
}

func (r *TaxonomyRepository) GetDestinationBySlug(ctx context.Context, slug string) (*domain.Destination, error) {
	var d domain.Destination
	err := r.counted(ctx, "destinations", destinationCountSQL).Where("destinations.slug = ?", slug).Take(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *TaxonomyRepository) ListTags(ctx context.Context) ([]domain.Tag, error) {
	var out []domain.Tag
	err := r.counted(ctx, "tags", tagCountSQL).Order("tags.name ASC").Find(&out).Error
	return out, err
}

func (r *TaxonomyRepository) GetTagBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	var t domain.Tag
	err := r.counted(ctx, "tags", tagCountSQL).Where("tags.slug = ?", slug).Take(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaxonomyRepository) CreateCategory(ctx context.Context, c *domain.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *TaxonomyRepository) CreateDestination(ctx context.Context, d *domain.Destination) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *TaxonomyRepository) CreateTag(ctx context.Context, t *domain.Tag) error {
	return r.db.WithContext(ctx).Create(t).Error
}
