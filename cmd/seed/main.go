package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"tourbooking/internal/database"
	"tourbooking/internal/domain"
	"tourbooking/internal/pkg/logger"
	"tourbooking/internal/repository"
)

func ptr[T any](v T) *T { return &v }

func main() {
	_ = godotenv.Load()
	log := logger.New(os.Getenv("LOG_LEVEL"), true)

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "tours.db"
	}

	db, err := database.Connect(dsn, log)
	if err != nil {
		log.Fatal().Err(err).Msg("DB connection failed")
	}

	log.Info().Msg("running migrations")
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Info().Msg("cleaning old data")
	for _, table := range []string{"reviews", "bookings", "auth_codes", "sessions", "users", "tour_tags", "tours", "tags", "destinations", "categories"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatal().Err(err).Str("table", table).Msg("cleanup failed")
		}
	}

	ctx := context.Background()
	tax := repository.NewTaxonomyRepository(db)
	tours := repository.NewTourRepository(db)
	users := repository.NewUserRepository(db)
	reviews := repository.NewReviewRepository(db)

	// ================== USERS ==================
	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin12345"), bcrypt.DefaultCost)
	must(log, users.Create(ctx, &domain.User{
		Email:        "admin@tours.local",
		PasswordHash: string(adminHash),
		Name:         "Operations",
		Role:         domain.RoleAdmin,
	}), "admin user")
	log.Info().Msg("admin created: admin@tours.local / admin12345")

	// ================== TAXONOMY ==================
	categories := map[string]*domain.Category{}
	for _, name := range []string{"Hiking", "Boat Trips", "Food & Wine", "City Walks"} {
		c := &domain.Category{Name: name, Description: name + " experiences"}
		must(log, tax.CreateCategory(ctx, c), "category "+name)
		categories[c.Slug] = c
	}

	destinations := map[string]*domain.Destination{}
	for _, name := range []string{"Alps", "Amalfi Coast", "Lisbon"} {
		d := &domain.Destination{Name: name}
		must(log, tax.CreateDestination(ctx, d), "destination "+name)
		destinations[d.Slug] = d
	}

	tags := map[string]domain.Tag{}
	for _, name := range []string{"Family", "Sunset", "Small Group", "Wheelchair Friendly"} {
		t := &domain.Tag{Name: name}
		must(log, tax.CreateTag(ctx, t), "tag "+name)
		tags[t.Slug] = *t
	}

	// ================== TOURS ==================
	type seedTour struct {
		tour    domain.Tour
		reviews []int // ratings; the last one stays pending
	}

	items := []seedTour{
		{
			tour: domain.Tour{
				Slug:                  "glacier-walk",
				Title:                 "Glacier Walk",
				Description:           "Guided walk across the Aletsch glacier with crampons provided.",
				CategoryID:            &categories["hiking"].ID,
				DestinationID:         &destinations["alps"].ID,
				Location:              "Fiesch, Switzerland",
				Duration:              domain.Duration{Hours: ptr(6)},
				Price:                 120,
				Featured:              true,
				FeaturedOrder:         1,
				Images:                []string{"/img/glacier-1.jpg", "/img/glacier-2.jpg"},
				MaxGroupSize:          ptr(12),
				MinBookingNoticeHours: ptr(48),
				Features: []domain.Feature{
					{Icon: "Clock", Label: "6 hours"},
					{Icon: "Users", Label: "Max 12 people"},
					{Icon: "Shield", Label: "Certified guide"},
				},
				Tags: []domain.Tag{tags["small-group"]},
			},
			reviews: []int{5, 5, 4, 3},
		},
		{
			tour: domain.Tour{
				Slug:          "coast-cruise",
				Title:         "Amalfi Coast Sunset Cruise",
				Description:   "Sail from Positano past the Li Galli islands at golden hour.",
				CategoryID:    &categories["boat-trips"].ID,
				DestinationID: &destinations["amalfi-coast"].ID,
				Location:      "Positano, Italy",
				Duration:      domain.Duration{Hours: ptr(3), Minutes: ptr(30)},
				Price:         150,
				DiscountPrice: ptr(129.0),
				Featured:      true,
				FeaturedOrder: 2,
				Images:        []string{"/img/cruise-1.jpg"},
				Features: []domain.Feature{
					{Icon: "ship", Label: "Private boat"},
					{Icon: "sun", Label: "Sunset timing"},
					{Icon: "utensils", Label: "Aperitivo on board"},
				},
				Tags: []domain.Tag{tags["sunset"], tags["family"]},
			},
			reviews: []int{5, 4, 4},
		},
		{
			tour: domain.Tour{
				Slug:          "lisbon-food-tour",
				Title:         "Lisbon Food & Wine Tour",
				Description:   "Pasteis, petiscos and vinho verde through Alfama and Mouraria.",
				CategoryID:    &categories["food-wine"].ID,
				DestinationID: &destinations["lisbon"].ID,
				Location:      "Lisbon, Portugal",
				Duration:      domain.Duration{Hours: ptr(4)},
				Price:         75,
				Images:        []string{"/img/lisbon-food.jpg"},
				Features: []domain.Feature{
					{Icon: "utensils", Label: "8 tastings"},
					{Icon: "map_pin", Label: "Starts at Praca do Comercio"},
				},
				Tags: []domain.Tag{tags["small-group"]},
			},
			reviews: []int{4, 5},
		},
		{
			tour: domain.Tour{
				Slug:          "lisbon-old-town",
				Title:         "Lisbon Old Town Walk",
				Description:   "Two hours of viewpoints, trams and tiled facades.",
				CategoryID:    &categories["city-walks"].ID,
				DestinationID: &destinations["lisbon"].ID,
				Location:      "Lisbon, Portugal",
				Duration:      domain.Duration{Hours: ptr(2)},
				Price:         25,
				Tags:          []domain.Tag{tags["family"], tags["wheelchair-friendly"]},
			},
		},
		{
			tour: domain.Tour{
				Slug:          "winter-summit",
				Title:         "Winter Summit Expedition",
				Description:   "Seasonal tour, currently not offered.",
				CategoryID:    &categories["hiking"].ID,
				DestinationID: &destinations["alps"].ID,
				Duration:      domain.Duration{Days: ptr(3)},
				Price:         890,
				Status:        domain.TourInactive,
			},
		},
	}

	authors := []string{"Mia", "Jonas", "Lucia", "Tom", "Aiko"}
	day := 24 * time.Hour
	for i := range items {
		t := &items[i].tour
		must(log, tours.Create(ctx, t), "tour "+t.Slug)

		for j, rating := range items[i].reviews {
			status := domain.ReviewApproved
			if j == len(items[i].reviews)-1 {
				status = domain.ReviewPending
			}
			must(log, reviews.Create(ctx, &domain.Review{
				TourID:     t.ID,
				AuthorName: authors[j%len(authors)],
				Rating:     rating,
				Title:      "Trip report",
				Comment:    "Seeded review for " + t.Title,
				Date:       time.Now().UTC().Add(-time.Duration(j+1) * day),
				Status:     status,
			}), "review")
		}

		if len(items[i].reviews) > 0 {
			avg, count, err := reviews.ApprovedStats(ctx, t.ID)
			must(log, err, "review stats")
			must(log, tours.UpdateRatingStats(ctx, t.ID, domain.RoundRating(avg), count), "rating stats")
		}
		log.Info().Str("slug", t.Slug).Str("status", string(t.Status)).Msg("tour created")
	}

	log.Info().Int("tours", len(items)).Msg("seed completed")
}

func must(log zerolog.Logger, err error, what string) {
	if err != nil {
		log.Fatal().Err(err).Str("step", what).Msg("seed failed")
	}
}
