package auth

import (
	"time"

	"tourbooking/internal/domain"
)

type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ExchangeRequest struct {
	Code string `json:"code" validate:"required"`
}

type UserPublic struct {
	ID    string `json:"id"`
	Role  string `json:"role"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func toPublic(u *domain.User) UserPublic {
	return UserPublic{ID: u.ID, Role: string(u.Role), Name: u.Name, Email: u.Email}
}

// SessionResult is returned by every call that opens a session.
type SessionResult struct {
	User        UserPublic `json:"user"`
	AccessToken string     `json:"access_token"`
	ExpiresAt   time.Time  `json:"expires_at"`
}

type SessionInfo struct {
	User      UserPublic `json:"user"`
	SessionID string     `json:"session_id"`
	ExpiresAt time.Time  `json:"expires_at"`
}

type CodeResult struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}
