package search

import (
	"context"
	"fmt"

	"tourbooking/internal/repository"

	"github.com/rs/zerolog"
)

const syncBatchSize = 100

type SyncService struct {
	tours   TourSource
	indexer Indexer
	log     zerolog.Logger
}

func NewSyncService(tours TourSource, indexer Indexer, log zerolog.Logger) *SyncService {
	if indexer == nil {
		indexer = NoopIndexer{}
	}
	return &SyncService{tours: tours, indexer: indexer, log: log}
}

// SyncAll pages through every public tour and hands each page to the indexer.
func (s *SyncService) SyncAll(ctx context.Context) (SyncResult, error) {
	total := SyncResult{Indexer: s.indexer.Name()}

	for offset := 0; ; offset += syncBatchSize {
		page, err := s.tours.Search(ctx, repository.TourFilter{
			Sort:   repository.SortNewest,
			Limit:  syncBatchSize,
			Offset: offset,
		})
		if err != nil {
			return total, fmt.Errorf("%w: load tours: %v", ErrSyncFailed, err)
		}
		if len(page) == 0 {
			break
		}

		res, err := s.indexer.SyncTours(ctx, page)
		if err != nil {
			return total, fmt.Errorf("%w: %v", ErrSyncFailed, err)
		}
		total.Indexed += res.Indexed
		total.Batches++

		if len(page) < syncBatchSize {
			break
		}
	}

	s.log.Info().
		Str("indexer", total.Indexer).
		Int("indexed", total.Indexed).
		Int("batches", total.Batches).
		Msg("search sync finished")
	return total, nil
}
