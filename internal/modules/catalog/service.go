package catalog

import (
	"context"
	"fmt"
	"math"
	"strings"

	"tourbooking/internal/domain"
	"tourbooking/internal/pkg/utils"
	"tourbooking/internal/repository"

	"github.com/rs/zerolog"
)

const (
	FallbackTourID    = "fallback-1"
	FallbackTourSlug  = "fallback-featured-tour"
	FallbackTourPrice = 99.99
)

// FallbackFeaturedTours is served when the featured query fails.
func FallbackFeaturedTours() []domain.Tour {
	return []domain.Tour{{
		ID:     FallbackTourID,
		Slug:   FallbackTourSlug,
		Title:  "Featured Tour",
		Price:  FallbackTourPrice,
		Status: domain.TourActive,
	}}
}

type Service struct {
	tours    TourReader
	taxonomy TaxonomyReader
	log      zerolog.Logger
}

func NewService(tours TourReader, taxonomy TaxonomyReader, log zerolog.Logger) *Service {
	return &Service{tours: tours, taxonomy: taxonomy, log: log}
}

/* ---------- TOURS ---------- */

func (s *Service) GetAllTours(ctx context.Context) ([]domain.Tour, error) {
	return s.search(ctx, repository.TourFilter{})
}

func (s *Service) GetToursByCategory(ctx context.Context, slug string) ([]domain.Tour, error) {
	return s.search(ctx, repository.TourFilter{CategorySlug: slug})
}

func (s *Service) GetToursByDestination(ctx context.Context, slug string) ([]domain.Tour, error) {
	return s.search(ctx, repository.TourFilter{DestinationSlug: slug})
}

func (s *Service) GetToursByTag(ctx context.Context, slug string) ([]domain.Tour, error) {
	return s.search(ctx, repository.TourFilter{TagSlug: slug})
}

func (s *Service) GetTourBySlug(ctx context.Context, slug string) (*domain.Tour, error) {
	t, err := s.tours.GetBySlug(ctx, slug)
	if err != nil {
		return nil, readErr(err)
	}
	return t, nil
}

// SearchTours applies every set constraint with AND semantics and paginates the result.
func (s *Service) SearchTours(ctx context.Context, p SearchParams) (*SearchResult, error) {
	sort, err := parseSort(p.Sort)
	if err != nil {
		return nil, err
	}
	for name, v := range map[string]*float64{"min_price": p.MinPrice, "max_price": p.MaxPrice, "min_rating": p.MinRating} {
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
			return nil, fmt.Errorf("%w: %s must be a finite number", ErrValidation, name)
		}
	}
	if p.MinPrice != nil && p.MaxPrice != nil && *p.MinPrice > *p.MaxPrice {
		return nil, fmt.Errorf("%w: min_price exceeds max_price", ErrValidation)
	}
	if p.MinRating != nil && (*p.MinRating < 0 || *p.MinRating > 5) {
		return nil, fmt.Errorf("%w: min_rating must be within 0..5", ErrValidation)
	}
	if p.Limit <= 0 {
		p.Limit = utils.DefaultPageSize
	}
	if p.Limit > utils.MaxPageSize {
		p.Limit = utils.MaxPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}

	tours, err := s.search(ctx, p.filter(sort))
	if err != nil {
		return nil, err
	}
	return &SearchResult{Tours: NewTourViews(tours), Limit: p.Limit, Offset: p.Offset}, nil
}

// GetFeaturedTours never fails: store errors are logged and the fixed fallback is returned.
func (s *Service) GetFeaturedTours(ctx context.Context) []domain.Tour {
	return s.FeaturedTours(ctx).Tours
}

func (s *Service) FeaturedTours(ctx context.Context) FeaturedResult {
	tours, err := s.tours.Featured(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("featured tours query failed, serving fallback")
		return FeaturedResult{Tours: FallbackFeaturedTours(), Degraded: true, Err: err}
	}
	if tours == nil {
		tours = []domain.Tour{}
	}
	return FeaturedResult{Tours: tours}
}

func (s *Service) search(ctx context.Context, f repository.TourFilter) ([]domain.Tour, error) {
	tours, err := s.tours.Search(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreRead, err)
	}
	if tours == nil {
		tours = []domain.Tour{}
	}
	return tours, nil
}

/* ---------- TAXONOMY ---------- */

func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	out, err := s.taxonomy.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreRead, err)
	}
	return out, nil
}

func (s *Service) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	c, err := s.taxonomy.GetCategoryBySlug(ctx, slug)
	if err != nil {
		return nil, readErr(err)
	}
	return c, nil
}

func (s *Service) ListDestinations(ctx context.Context) ([]domain.Destination, error) {
	out, err := s.taxonomy.ListDestinations(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreRead, err)
	}
	return out, nil
}

func (s *Service) GetDestinationBySlug(ctx context.Context, slug string) (*domain.Destination, error) {
	d, err := s.taxonomy.GetDestinationBySlug(ctx, slug)
	if err != nil {
		return nil, readErr(err)
	}
	return d, nil
}

func (s *Service) ListTags(ctx context.Context) ([]domain.Tag, error) {
	out, err := s.taxonomy.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreRead, err)
	}
	return out, nil
}

func (s *Service) GetTagBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	t, err := s.taxonomy.GetTagBySlug(ctx, slug)
	if err != nil {
		return nil, readErr(err)
	}
	return t, nil
}

func readErr(err error) error {
	if repository.IsNotFound(err) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %v", ErrStoreRead, err)
}

func parseSort(s string) (repository.TourSort, error) {
	switch sort := repository.TourSort(strings.ToLower(strings.TrimSpace(s))); sort {
	case "":
		return repository.SortNewest, nil
	case repository.SortNewest, repository.SortPriceAsc, repository.SortPriceDesc, repository.SortRating:
		return sort, nil
	default:
		return "", fmt.Errorf("%w: unknown sort %q", ErrValidation, s)
	}
}
