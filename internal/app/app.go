package app

import (
	"context"
	"net/http"
	"time"

	"tourbooking/internal/config"
	"tourbooking/internal/middleware"
	"tourbooking/internal/modules/admin"
	"tourbooking/internal/modules/auth"
	"tourbooking/internal/modules/booking"
	"tourbooking/internal/modules/catalog"
	"tourbooking/internal/modules/review"
	"tourbooking/internal/modules/search"
	"tourbooking/internal/notification"
	jwtsvc "tourbooking/internal/pkg/jwt"
	"tourbooking/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Options carries the process level dependencies. Redis and Events are optional.
type Options struct {
	Config *config.AppConfig
	Cache  config.CacheConfig
	DB     *gorm.DB
	Redis  *redis.Client
	Events notification.Publisher
	Log    zerolog.Logger
}

type App struct {
	Router *gin.Engine
	Hub    *admin.Hub
}

// New wires repositories, services and handlers into one gin engine.
func New(opts Options) *App {
	cfg := opts.Config
	log := opts.Log

	// repositories
	tourRepo := repository.NewTourRepository(opts.DB)
	taxonomyRepo := repository.NewTaxonomyRepository(opts.DB)
	bookingRepo := repository.NewBookingRepository(opts.DB)
	reviewRepo := repository.NewReviewRepository(opts.DB)
	userRepo := repository.NewUserRepository(opts.DB)
	sessionRepo := repository.NewSessionRepository(opts.DB)

	// events go to the broker (when configured) and the admin live feed
	hub := admin.NewHub(cfg.AllowedOrigins, log)
	events := notification.Fanout{hub}
	if opts.Events != nil {
		events = append(events, opts.Events)
	}

	jwt := jwtsvc.New(cfg.JWTSecret, cfg.SessionTTL)

	// services
	authService := auth.NewService(userRepo, sessionRepo, jwt, cfg.SessionTTL, cfg.AuthCodeTTL)
	catalogService := catalog.NewService(tourRepo, taxonomyRepo, log)
	bookingService := booking.NewService(bookingRepo, tourRepo, events, log,
		booking.WithVoucherSecret(cfg.JWTSecret))
	reviewService := review.NewService(reviewRepo, tourRepo, events, log)
	syncService := search.NewSyncService(tourRepo, search.NoopIndexer{}, log)
	adminService := admin.NewService(bookingService, reviewService, tourRepo, bookingRepo, reviewRepo, hub)

	// middleware
	authn := middleware.NewAuthenticator(jwt, authService)
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.ErrorLogger(log),
		middleware.CORS(cfg.AllowedOrigins),
	)

	r.GET("/health", healthHandler(opts.DB))

	api := r.Group("/api")
	{
		catalog.NewHandler(catalogService, config.EnvPresence()).
			RegisterRoutes(api, middleware.ResponseCache(opts.Cache, opts.Redis))
		booking.NewHandler(bookingService).
			RegisterRoutes(api, authn.OptionalAuth(), limiter.Limit())
		review.NewHandler(reviewService).
			RegisterRoutes(api, limiter.Limit())
		auth.NewHandler(authService).
			RegisterRoutes(api, authn.RequireAuth(), limiter.Limit())
		search.NewHandler(syncService).
			RegisterRoutes(api, middleware.SyncKeyAuth(cfg.SearchSyncKey, log))
		admin.NewHandler(adminService, hub).
			RegisterRoutes(api, authn.RequireAuth(), middleware.AdminOnly())
	}

	return &App{Router: r, Hub: hub}
}

func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status, dbState := http.StatusOK, "up"
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			status, dbState = http.StatusServiceUnavailable, "down"
		}
		c.JSON(status, gin.H{"status": http.StatusText(status), "database": dbState})
	}
}
