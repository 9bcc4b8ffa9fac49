package review

import (
	"errors"
	"net/http"

	"tourbooking/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the public review endpoints; submit guards the write
// endpoints (rate limiting).
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, submit ...gin.HandlerFunc) {
	rg.GET("/tours/:id/reviews", h.GetByTour)
	rg.POST("/reviews", chain(submit, h.Submit)...)
	rg.POST("/reviews/:id/vote", chain(submit, h.Vote)...)
}

// GetByTour handles GET /api/tours/:id/reviews
func (h *Handler) GetByTour(c *gin.Context) {
	items, err := h.svc.GetReviewsByTourID(c.Request.Context(), c.Param("id"))
	if err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

// Submit handles POST /api/reviews
func (h *Handler) Submit(c *gin.Context) {
	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidBody(c)
		return
	}

	rv, err := h.svc.SubmitReview(c.Request.Context(), req)
	if err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, rv)
}

// Vote handles POST /api/reviews/:id/vote with {"helpful": bool}
func (h *Handler) Vote(c *gin.Context) {
	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Helpful == nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Body must be {\"helpful\": true|false}")
		return
	}

	if err := h.svc.VoteReview(c.Request.Context(), c.Param("id"), *req.Helpful); err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": c.Param("id"), "helpful": *req.Helpful})
}

// WriteError maps review errors onto the response envelope.
func WriteError(c *gin.Context, err error) {
	var fields FieldErrors
	switch {
	case errors.As(err, &fields):
		response.ValidationFailed(c, fields)
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Review not found")
	case errors.Is(err, ErrTourNotFound):
		response.Error(c, http.StatusNotFound, "TOUR_NOT_FOUND", "Tour not found")
	case errors.Is(err, ErrInvalidTransition):
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal error")
	}
}

func chain(mw []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(mw)+1)
	return append(append(out, mw...), h)
}
