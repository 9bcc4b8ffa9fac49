package booking

import (
	"errors"
	"net/http"

	"tourbooking/internal/domain"
	"tourbooking/internal/middleware"
	"tourbooking/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the public booking endpoints. optionalAuth attaches the
// session when present and decides who may read a booking; submit guards the
// create endpoint (rate limiting).
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, optionalAuth gin.HandlerFunc, submit ...gin.HandlerFunc) {
	create := append([]gin.HandlerFunc{optionalAuth}, submit...)
	create = append(create, h.CreateBooking)

	rg.POST("/bookings", create...)
	rg.GET("/bookings/me", optionalAuth, h.GetMyBookings)
	rg.GET("/bookings/:id", optionalAuth, h.GetBooking)
	rg.GET("/bookings/:id/voucher", optionalAuth, h.GetVoucher)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidBody(c)
		return
	}

	var userID *string
	if id := middleware.UserID(c); id != "" {
		userID = &id
	}

	b, err := h.service.CreateBooking(c.Request.Context(), userID, req)
	if err != nil {
		WriteError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, b)
}

// GetMyBookings returns an empty list for anonymous callers.
func (h *Handler) GetMyBookings(c *gin.Context) {
	items, err := h.service.GetUserBookings(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) GetBooking(c *gin.Context) {
	b, err := h.service.GetBookingFor(c.Request.Context(), c.Param("id"), viewer(c))
	if err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) GetVoucher(c *gin.Context) {
	id := c.Param("id")
	pdf, err := h.service.RenderVoucher(c.Request.Context(), id, viewer(c))
	if err != nil {
		WriteError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=voucher-"+id+".pdf")
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func viewer(c *gin.Context) Viewer {
	return Viewer{
		UserID: middleware.UserID(c),
		Admin:  middleware.Role(c) == string(domain.RoleAdmin),
	}
}

// WriteError maps booking errors onto the response envelope.
func WriteError(c *gin.Context, err error) {
	var fields FieldErrors
	switch {
	case errors.As(err, &fields):
		response.ValidationFailed(c, fields)
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrTourUnavailable):
		response.Error(c, http.StatusUnprocessableEntity, "TOUR_UNAVAILABLE", "Tour is not available for booking")
	case errors.Is(err, ErrInvalidTransition):
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", err.Error())
	case errors.Is(err, ErrNoVoucher):
		response.Error(c, http.StatusConflict, "BOOKING_CANCELLED", "Cancelled bookings have no voucher")
	case errors.Is(err, ErrStoreWrite):
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to save booking")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load booking")
	}
}
