package catalog

import (
	"tourbooking/internal/domain"
	"tourbooking/internal/repository"
)

// SearchParams are the raw catalog search inputs before normalization.
type SearchParams struct {
	Query           string
	CategorySlug    string
	DestinationSlug string
	TagSlug         string
	Location        string
	MinPrice        *float64
	MaxPrice        *float64
	MinRating       *float64
	Sort            string
	Limit           int
	Offset          int
}

// TourView is a tour as served to clients, with the price to charge resolved.
type TourView struct {
	domain.Tour
	EffectivePrice float64 `json:"effective_price"`
}

func NewTourView(t domain.Tour) TourView {
	return TourView{Tour: t, EffectivePrice: t.EffectivePrice()}
}

func NewTourViews(tours []domain.Tour) []TourView {
	out := make([]TourView, 0, len(tours))
	for _, t := range tours {
		out = append(out, NewTourView(t))
	}
	return out
}

type SearchResult struct {
	Tours  []TourView `json:"tours"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}

// FeaturedResult carries the featured tours and, when the store failed,
// the error that caused the fallback to be served.
type FeaturedResult struct {
	Tours    []domain.Tour
	Degraded bool
	Err      error
}

func (p SearchParams) filter(sort repository.TourSort) repository.TourFilter {
	return repository.TourFilter{
		Query:           p.Query,
		CategorySlug:    p.CategorySlug,
		DestinationSlug: p.DestinationSlug,
		TagSlug:         p.TagSlug,
		Location:        p.Location,
		MinPrice:        p.MinPrice,
		MaxPrice:        p.MaxPrice,
		MinRating:       p.MinRating,
		Sort:            sort,
		Limit:           p.Limit,
		Offset:          p.Offset,
	}
}
