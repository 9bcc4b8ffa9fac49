package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"

	"tourbooking/internal/database"
	"tourbooking/internal/pkg/logger"
	"tourbooking/internal/repository"
)

// revokedRetention keeps revoked sessions around for audit before they are purged.
const revokedRetention = 30 * 24 * time.Hour

func main() {
	_ = godotenv.Load()
	log := logger.New(os.Getenv("LOG_LEVEL"), false)

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal().Msg("DATABASE_URL is required")
	}

	db, err := database.Connect(databaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	now := time.Now()
	sessions, codes, err := repository.NewSessionRepository(db).PurgeExpired(ctx, now, now.Add(-revokedRetention))
	if err != nil {
		log.Fatal().Err(err).Msg("auth cleanup failed")
	}

	log.Info().Int64("sessions", sessions).Int64("auth_codes", codes).Msg("auth cleanup completed")
}
