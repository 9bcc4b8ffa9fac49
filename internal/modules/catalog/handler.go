package catalog

import (
	"errors"
	"fmt"
	"net/http"

	"tourbooking/internal/middleware"
	"tourbooking/internal/pkg/response"
	"tourbooking/internal/pkg/utils"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	env     map[string]bool
}

// NewHandler takes the env presence map reported by the legacy diagnostic endpoint.
func NewHandler(service *Service, env map[string]bool) *Handler {
	return &Handler{service: service, env: env}
}

// RegisterRoutes mounts the catalog under /catalog (behind mw, typically the
// response cache) and the two legacy endpoints at the api root.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup, mw ...gin.HandlerFunc) {
	api.GET("/tours", h.Diagnostic)
	api.GET("/featured-tours", h.LegacyFeaturedTours)

	g := api.Group("/catalog", mw...)
	{
		g.GET("/tours", h.SearchTours)
		g.GET("/tours/:slug", h.GetTour)
		g.GET("/featured", h.GetFeatured)

		g.GET("/categories", h.ListCategories)
		g.GET("/categories/:slug", h.GetCategory)
		g.GET("/categories/:slug/tours", h.GetCategoryTours)

		g.GET("/destinations", h.ListDestinations)
		g.GET("/destinations/:slug", h.GetDestination)
		g.GET("/destinations/:slug/tours", h.GetDestinationTours)

		g.GET("/tags", h.ListTags)
		g.GET("/tags/:slug", h.GetTag)
		g.GET("/tags/:slug/tours", h.GetTagTours)
	}
}

/* ---------- LEGACY ---------- */

// Diagnostic handles GET /api/tours. It reports which secrets are configured
// and returns static sample rows; it does not read the catalog.
func (h *Handler) Diagnostic(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"env":    h.env,
		"sample": []gin.H{
			{"id": "sample-1", "slug": "sample-city-walk", "title": "Sample City Walk", "price": 49.0},
			{"id": "sample-2", "slug": "sample-sunset-cruise", "title": "Sample Sunset Cruise", "price": 89.0},
		},
	})
}

// LegacyFeaturedTours handles GET /api/featured-tours with its historical payload shape.
func (h *Handler) LegacyFeaturedTours(c *gin.Context) {
	res := h.service.FeaturedTours(c.Request.Context())
	if res.Degraded {
		middleware.SkipCache(c)
		c.JSON(http.StatusOK, gin.H{
			"status":  "error",
			"message": "Failed to fetch featured tours",
			"error":   errString(res.Err),
			"fallbackData": gin.H{
				"count": len(res.Tours),
				"tours": NewTourViews(res.Tours),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"count":  len(res.Tours),
		"tours":  NewTourViews(res.Tours),
	})
}

/* ---------- TOURS ---------- */

// SearchTours handles GET /api/catalog/tours
func (h *Handler) SearchTours(c *gin.Context) {
	limit, offset := utils.Pagination(c.Query("page"), c.Query("limit"))
	params := SearchParams{
		Query:           c.Query("q"),
		CategorySlug:    c.Query("category"),
		DestinationSlug: c.Query("destination"),
		TagSlug:         c.Query("tag"),
		Location:        c.Query("location"),
		Sort:            c.Query("sort"),
		Limit:           limit,
		Offset:          offset,
	}
	for name, dst := range map[string]**float64{
		"min_price":  &params.MinPrice,
		"max_price":  &params.MaxPrice,
		"min_rating": &params.MinRating,
	} {
		v, err := utils.OptionalFloat(c.Query(name))
		if err != nil {
			h.fail(c, fmt.Errorf("%w: %s %v", ErrValidation, name, err), "Tour")
			return
		}
		*dst = v
	}

	res, err := h.service.SearchTours(c.Request.Context(), params)
	if err != nil {
		h.fail(c, err, "Tour")
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) GetTour(c *gin.Context) {
	t, err := h.service.GetTourBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.fail(c, err, "Tour")
		return
	}
	response.Success(c, http.StatusOK, NewTourView(*t))
}

// GetFeatured always answers 200; fallback tours are not cached.
func (h *Handler) GetFeatured(c *gin.Context) {
	res := h.service.FeaturedTours(c.Request.Context())
	if res.Degraded {
		middleware.SkipCache(c)
	}
	response.Success(c, http.StatusOK, NewTourViews(res.Tours))
}

/* ---------- TAXONOMY ---------- */

func (h *Handler) ListCategories(c *gin.Context) {
	items, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Category")
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) GetCategory(c *gin.Context) {
	item, err := h.service.GetCategoryBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.fail(c, err, "Category")
		return
	}
	response.Success(c, http.StatusOK, item)
}

func (h *Handler) GetCategoryTours(c *gin.Context) {
	tours, err := h.service.GetToursByCategory(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.fail(c, err, "Category")
		return
	}
	response.Success(c, http.StatusOK, NewTourViews(tours))
}

func (h *Handler) ListDestinations(c *gin.Context) {
	items, err := h.service.ListDestinations(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Destination")
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) GetDestination(c *gin.Context) {
	item, err := h.service.GetDestinationBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.fail(c, err, "Destination")
		return
	}
	response.Success(c, http.StatusOK, item)
}

func (h *Handler) GetDestinationTours(c *gin.Context) {
	tours, err := h.service.GetToursByDestination(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.fail(c, err, "Destination")
		return
	}
	response.Success(c, http.StatusOK, NewTourViews(tours))
}

func (h *Handler) ListTags(c *gin.Context) {
	items, err := h.service.ListTags(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Tag")
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) GetTag(c *gin.Context) {
	item, err := h.service.GetTagBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.fail(c, err, "Tag")
		return
	}
	response.Success(c, http.StatusOK, item)
}

func (h *Handler) GetTagTours(c *gin.Context) {
	tours, err := h.service.GetToursByTag(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.fail(c, err, "Tag")
		return
	}
	response.Success(c, http.StatusOK, NewTourViews(tours))
}

func (h *Handler) fail(c *gin.Context, err error, entity string) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", entity+" not found")
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load catalog")
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
