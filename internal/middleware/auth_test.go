package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"tourbooking/internal/pkg/jwt"
)

type fakeSessions map[string]bool

func (f fakeSessions) SessionActive(_ context.Context, id string) (bool, error) {
	return f[id], nil
}

func identityRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(mw)
	router.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": UserID(c),
			"role":    c.GetString(ContextRole),
		})
	})
	return router
}

func TestRequireAuth_ValidToken(t *testing.T) {
	// Arrange
	jwtService := jwt.New("test-secret-123", 1*time.Hour)
	validToken, _ := jwtService.GenerateToken("sess-1", "user-42", "customer")
	auth := NewAuthenticator(jwtService, fakeSessions{"sess-1": true})

	router := identityRouter(auth.RequireAuth())

	// Act
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+validToken)
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-42")
	assert.Contains(t, w.Body.String(), "customer")
}

func TestRequireAuth_RevokedSession(t *testing.T) {
	jwtService := jwt.New("secret", 1*time.Hour)
	token, _ := jwtService.GenerateToken("sess-1", "user-42", "customer")
	auth := NewAuthenticator(jwtService, fakeSessions{"sess-1": false})

	router := identityRouter(auth.RequireAuth())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	auth := NewAuthenticator(jwt.New("wrong-secret", 1*time.Hour), fakeSessions{})

	router := identityRouter(auth.RequireAuth())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer invalid-jwt-here")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
}

func TestRequireAuth_NoToken(t *testing.T) {
	auth := NewAuthenticator(jwt.New("secret", 1*time.Hour), fakeSessions{})

	router := identityRouter(auth.RequireAuth())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_HEADER_MISSING")
}

func TestRequireAuth_WrongFormat(t *testing.T) {
	auth := NewAuthenticator(jwt.New("secret", 1*time.Hour), fakeSessions{})

	router := identityRouter(auth.RequireAuth())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Basic dGVzdA==")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_AUTH_FORMAT")
}

func TestOptionalAuth_AnonymousPassesThrough(t *testing.T) {
	auth := NewAuthenticator(jwt.New("secret", 1*time.Hour), fakeSessions{})

	router := identityRouter(auth.OptionalAuth())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"","role":""}`, w.Body.String())
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(ContextRole, c.GetHeader("X-Test-Role"))
		c.Next()
	})
	router.Use(AdminOnly())
	router.GET("/admin", func(c *gin.Context) { c.Status(http.StatusOK) })

	cases := map[string]int{
		"":         http.StatusUnauthorized,
		"customer": http.StatusForbidden,
		"admin":    http.StatusOK,
	}
	for role, want := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/admin", nil)
		req.Header.Set("X-Test-Role", role)
		router.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, "role=%q", role)
	}
}
