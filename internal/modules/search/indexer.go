package search

import (
	"context"
	"errors"

	"tourbooking/internal/domain"
	"tourbooking/internal/repository"
)

var ErrSyncFailed = errors.New("search sync failed")

// SyncResult summarises one indexing run.
type SyncResult struct {
	Indexer string `json:"indexer"`
	Indexed int    `json:"indexed"`
	Batches int    `json:"batches"`
}

// Indexer pushes tours to an external search engine.
type Indexer interface {
	Name() string
	SyncTours(ctx context.Context, tours []domain.Tour) (SyncResult, error)
}

// NoopIndexer accepts every batch without contacting anything. It stands in
// until a real search engine is configured.
type NoopIndexer struct{}

func (NoopIndexer) Name() string { return "noop" }

func (NoopIndexer) SyncTours(_ context.Context, tours []domain.Tour) (SyncResult, error) {
	return SyncResult{Indexer: "noop", Indexed: len(tours), Batches: 1}, nil
}

// TourSource lists the public catalog.
type TourSource interface {
	Search(ctx context.Context, f repository.TourFilter) ([]domain.Tour, error)
}
