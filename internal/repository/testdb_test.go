package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tourbooking/internal/database"
	"tourbooking/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Connect(fmt.Sprintf("file:%s?mode=memory&cache=shared", name), zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

type catalogFixture struct {
	hiking  *domain.Category
	boat    *domain.Category
	alps    *domain.Destination
	coast   *domain.Destination
	family  *domain.Tag
	sunset  *domain.Tag
	tours   map[string]*domain.Tour
	created time.Time
}

func ptr[T any](v T) *T { return &v }

// seedCatalog creates two categories, two destinations, two tags and five tours,
// one of which (hidden-lake) is inactive.
func seedCatalog(t *testing.T, db *gorm.DB) catalogFixture {
	t.Helper()
	ctx := context.Background()
	tax := NewTaxonomyRepository(db)
	tours := NewTourRepository(db)

	f := catalogFixture{
		hiking: &domain.Category{Name: "Hiking"},
		boat:   &domain.Category{Name: "Boat Trips"},
		alps:   &domain.Destination{Name: "Alps"},
		coast:  &domain.Destination{Name: "Amalfi Coast"},
		family: &domain.Tag{Name: "Family"},
		sunset: &domain.Tag{Name: "Sunset"},
		tours:  map[string]*domain.Tour{},
	}
	require.NoError(t, tax.CreateCategory(ctx, f.hiking))
	require.NoError(t, tax.CreateCategory(ctx, f.boat))
	require.NoError(t, tax.CreateDestination(ctx, f.alps))
	require.NoError(t, tax.CreateDestination(ctx, f.coast))
	require.NoError(t, tax.CreateTag(ctx, f.family))
	require.NoError(t, tax.CreateTag(ctx, f.sunset))

	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	add := func(i int, tour *domain.Tour) {
		tour.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, tours.Create(ctx, tour))
		f.tours[tour.Slug] = tour
	}

	add(0, &domain.Tour{
		Slug: "glacier-walk", Title: "Glacier Walk", Description: "Guided walk on the ice",
		CategoryID: &f.hiking.ID, DestinationID: &f.alps.ID, Location: "Chamonix, France",
		Price: 120, Rating: 4.8, Tags: []domain.Tag{*f.family},
		Features: []domain.Feature{{Icon: "Clock", Label: "6 hours"}},
		Featured: true, FeaturedOrder: 2,
	})
	add(1, &domain.Tour{
		Slug: "summit-sunrise", Title: "Summit Sunrise", Description: "Early climb",
		CategoryID: &f.hiking.ID, DestinationID: &f.alps.ID, Location: "Zermatt, Switzerland",
		Price: 60, Rating: 4.1, Tags: []domain.Tag{*f.sunset},
		Featured: true, FeaturedOrder: 1,
	})
	add(2, &domain.Tour{
		Slug: "hidden-lake", Title: "Hidden Lake Hike", Description: "Secret glacier lake",
		CategoryID: &f.hiking.ID, DestinationID: &f.alps.ID, Location: "Chamonix, France",
		Price: 90, Rating: 5, Tags: []domain.Tag{*f.family},
		Featured: true, FeaturedOrder: 0,
	})
	add(3, &domain.Tour{
		Slug: "coast-cruise", Title: "Coast Cruise", Description: "Sail past the cliffs at sunset",
		CategoryID: &f.boat.ID, DestinationID: &f.coast.ID, Location: "Positano, Italy",
		Price: 150, DiscountPrice: ptr(130.0), Rating: 4.5, Tags: []domain.Tag{*f.sunset, *f.family},
	})
	add(4, &domain.Tour{
		Slug: "harbour-taster", Title: "Harbour Taster", Description: "Street food by the water",
		DestinationID: &f.coast.ID, Location: "Amalfi, Italy", Price: 45, Rating: 3.9,
	})

	require.NoError(t, tours.SetStatus(ctx, f.tours["hidden-lake"].ID, domain.TourInactive))
	return f
}

func slugs(tours []domain.Tour) []string {
	out := make([]string, 0, len(tours))
	for _, t := range tours {
		out = append(out, t.Slug)
	}
	return out
}
