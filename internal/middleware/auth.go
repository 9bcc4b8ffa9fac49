package middleware

import (
	"context"
	"net/http"
	"strings"

	"tourbooking/internal/pkg/jwt"
	"tourbooking/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middleware.
const (
	ContextUserID    = "user_id"
	ContextRole      = "role"
	ContextSessionID = "session_id"
)

// SessionChecker reports whether a persisted session is still usable
// (exists, not revoked, not expired).
type SessionChecker interface {
	SessionActive(ctx context.Context, sessionID string) (bool, error)
}

type Authenticator struct {
	jwt      *jwt.Service
	sessions SessionChecker
}

func NewAuthenticator(jwtService *jwt.Service, sessions SessionChecker) *Authenticator {
	return &Authenticator{jwt: jwtService, sessions: sessions}
}

// RequireAuth rejects requests without a valid token bound to an active session.
func (a *Authenticator) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
			c.Abort()
			return
		}

		token, ok := bearerToken(authHeader)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
			c.Abort()
			return
		}

		claims, err := a.authenticate(c.Request.Context(), token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired session")
			c.Abort()
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuth attaches the identity when a valid session token is present and
// continues anonymously otherwise. It never rejects.
func (a *Authenticator) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if claims, err := a.authenticate(c.Request.Context(), token); err == nil {
				setIdentity(c, claims)
			}
		}
		c.Next()
	}
}

func (a *Authenticator) authenticate(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := a.jwt.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	if a.sessions == nil {
		return claims, nil
	}
	active, err := a.sessions.SessionActive(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, jwt.ErrInvalidToken
	}
	return claims, nil
}

func setIdentity(c *gin.Context, claims *jwt.Claims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextRole, claims.Role)
	c.Set(ContextSessionID, claims.SessionID)
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// UserID returns the authenticated user id, or "" for anonymous requests.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// Role returns the role claim of the authenticated user, or "".
func Role(c *gin.Context) string {
	return c.GetString(ContextRole)
}
