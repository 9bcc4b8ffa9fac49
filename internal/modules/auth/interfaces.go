package auth

import (
	"context"
	"time"

	"tourbooking/internal/domain"
)

// UserRepositoryInterface lists only the user methods the auth service uses.
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// SessionRepositoryInterface stores sessions and one-time codes.
type SessionRepositoryInterface interface {
	Create(ctx context.Context, s *domain.Session) error
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	Revoke(ctx context.Context, id string) error
	CreateCode(ctx context.Context, c *domain.AuthCode) error
	ConsumeCode(ctx context.Context, code string, now time.Time) (string, error)
}

type jwtService interface {
	GenerateToken(sessionID, userID, role string) (string, error)
}
