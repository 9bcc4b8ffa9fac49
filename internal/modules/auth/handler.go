package auth

import (
	"errors"
	"net/http"

	"tourbooking/internal/middleware"
	"tourbooking/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts /auth. requireAuth guards the session bound calls and
// limit throttles the credential endpoints.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup, requireAuth gin.HandlerFunc, limit ...gin.HandlerFunc) {
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/signup", withGuards(limit, h.Signup)...)
		authGroup.POST("/signin", withGuards(limit, h.Signin)...)
		authGroup.POST("/exchange", withGuards(limit, h.Exchange)...)

		authGroup.GET("/session", requireAuth, h.Session)
		authGroup.POST("/signout", requireAuth, h.Signout)
		authGroup.POST("/code", requireAuth, h.IssueCode)
	}
}

func withGuards(guards []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(guards)+1)
	return append(append(out, guards...), h)
}

// Signup handles POST /api/auth/signup
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidBody(c)
		return
	}

	result, err := h.service.Signup(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, result)
}

// Signin handles POST /api/auth/signin
func (h *Handler) Signin(c *gin.Context) {
	var req SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidBody(c)
		return
	}

	result, err := h.service.Signin(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// Session handles GET /api/auth/session
func (h *Handler) Session(c *gin.Context) {
	info, err := h.service.Session(c.Request.Context(), c.GetString(middleware.ContextSessionID), middleware.UserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, info)
}

// Signout handles POST /api/auth/signout
func (h *Handler) Signout(c *gin.Context) {
	if err := h.service.Signout(c.Request.Context(), c.GetString(middleware.ContextSessionID)); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Signed out"})
}

// IssueCode handles POST /api/auth/code
func (h *Handler) IssueCode(c *gin.Context) {
	result, err := h.service.IssueCode(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, result)
}

// Exchange handles POST /api/auth/exchange
func (h *Handler) Exchange(c *gin.Context) {
	var req ExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidBody(c)
		return
	}

	result, err := h.service.Exchange(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrEmailAlreadyExists):
		response.Error(c, http.StatusConflict, "EMAIL_EXISTS", "This email is already registered")
	case errors.Is(err, ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
	case errors.Is(err, ErrInvalidCode):
		response.Error(c, http.StatusUnauthorized, "INVALID_CODE", "Invalid or expired code")
	case errors.Is(err, ErrUnauthorized):
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Session is not active")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal error")
	}
}
