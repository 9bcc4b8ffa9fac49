package admin

import (
	"errors"
	"net/http"

	"tourbooking/internal/domain"
	"tourbooking/internal/middleware"
	"tourbooking/internal/modules/booking"
	"tourbooking/internal/modules/review"
	"tourbooking/internal/pkg/response"
	"tourbooking/internal/pkg/utils"
	"tourbooking/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	hub     *Hub
}

func NewHandler(service *Service, hub *Hub) *Handler {
	return &Handler{service: service, hub: hub}
}

// RegisterRoutes mounts /admin behind guards (auth + admin role). The live feed
// also accepts the token as ?token= because browsers cannot set headers on
// WebSocket requests.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup, guards ...gin.HandlerFunc) {
	ws := make([]gin.HandlerFunc, 0, len(guards)+2)
	ws = append(ws, QueryToken())
	ws = append(ws, guards...)
	api.GET("/admin/ws", append(ws, h.Live)...)

	admin := api.Group("/admin", guards...)
	{
		admin.GET("/bookings", h.GetBookings)
		admin.PATCH("/bookings/:id/status", h.UpdateBookingStatus)

		admin.GET("/reviews", h.GetReviews)
		admin.PATCH("/reviews/:id/status", h.UpdateReviewStatus)

		admin.PATCH("/tours/:id/status", h.UpdateTourStatus)

		admin.GET("/stats", h.GetStats)
	}
}

// QueryToken promotes ?token= to a bearer Authorization header when none is set.
func QueryToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			if token := c.Query("token"); token != "" {
				c.Request.Header.Set("Authorization", "Bearer "+token)
			}
		}
		c.Next()
	}
}

// GetBookings handles GET /api/admin/bookings?status=&page=&limit=
func (h *Handler) GetBookings(c *gin.Context) {
	limit, offset := utils.Pagination(c.Query("page"), c.Query("limit"))
	list, err := h.service.ListBookings(c.Request.Context(), c.Query("status"), limit, offset)
	if err != nil {
		booking.WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

// UpdateBookingStatus handles PATCH /api/admin/bookings/:id/status
func (h *Handler) UpdateBookingStatus(c *gin.Context) {
	var req booking.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidBody(c)
		return
	}
	if errs := validator.Validate(req); errs != nil {
		booking.WriteError(c, booking.FieldErrors(errs))
		return
	}

	b, err := h.service.UpdateBookingStatus(c.Request.Context(), c.Param("id"), domain.BookingStatus(req.Status))
	if err != nil {
		booking.WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

// GetReviews handles GET /api/admin/reviews?status=&page=&limit=
func (h *Handler) GetReviews(c *gin.Context) {
	limit, offset := utils.Pagination(c.Query("page"), c.Query("limit"))
	list, err := h.service.ListReviews(c.Request.Context(), c.Query("status"), limit, offset)
	if err != nil {
		review.WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

// UpdateReviewStatus handles PATCH /api/admin/reviews/:id/status
func (h *Handler) UpdateReviewStatus(c *gin.Context) {
	var req review.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidBody(c)
		return
	}
	if errs := validator.Validate(req); errs != nil {
		review.WriteError(c, review.FieldErrors(errs))
		return
	}

	rv, err := h.service.UpdateReviewStatus(c.Request.Context(), c.Param("id"), domain.ReviewStatus(req.Status))
	if err != nil {
		review.WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rv)
}

// UpdateTourStatus handles PATCH /api/admin/tours/:id/status
func (h *Handler) UpdateTourStatus(c *gin.Context) {
	var req UpdateTourStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidBody(c)
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationFailed(c, errs)
		return
	}

	id := c.Param("id")
	status := domain.TourStatus(req.Status)
	err := h.service.UpdateTourStatus(c.Request.Context(), id, status)
	switch {
	case err == nil:
		response.Success(c, http.StatusOK, gin.H{"id": id, "status": status})
	case errors.Is(err, ErrTourNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Tour not found")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update tour")
	}
}

// GetStats handles GET /api/admin/stats
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load stats")
		return
	}
	response.Success(c, http.StatusOK, stats)
}

// Live handles GET /api/admin/ws
func (h *Handler) Live(c *gin.Context) {
	if h.hub == nil {
		response.Error(c, http.StatusServiceUnavailable, "FEED_DISABLED", "Live feed is not enabled")
		return
	}
	if err := h.hub.ServeWS(c.Writer, c.Request, middleware.UserID(c)); err != nil {
		// the upgrader has already written the HTTP error
		_ = c.Error(err)
	}
}
