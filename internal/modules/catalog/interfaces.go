package catalog

import (
	"context"

	"tourbooking/internal/domain"
	"tourbooking/internal/repository"
)

type TourReader interface {
	Search(ctx context.Context, f repository.TourFilter) ([]domain.Tour, error)
	Featured(ctx context.Context) ([]domain.Tour, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Tour, error)
}

type TaxonomyReader interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error)
	ListDestinations(ctx context.Context) ([]domain.Destination, error)
	GetDestinationBySlug(ctx context.Context, slug string) (*domain.Destination, error)
	ListTags(ctx context.Context) ([]domain.Tag, error)
	GetTagBySlug(ctx context.Context, slug string) (*domain.Tag, error)
}
