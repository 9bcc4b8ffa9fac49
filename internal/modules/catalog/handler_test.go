package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tourbooking/internal/config"
	"tourbooking/internal/domain"
	"tourbooking/internal/middleware"
	"tourbooking/internal/repository"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc, map[string]bool{"DATABASE_URL": true, "JWT_SECRET": false, "SEARCH_SYNC_KEY": true}).
		RegisterRoutes(r.Group("/api"))
	return r
}

func TestHandler_Diagnostic(t *testing.T) {
	svc, _, _ := newTestService()
	r := newTestRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tours", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Status string          `json:"status"`
		Env    map[string]bool `json:"env"`
		Sample []any           `json:"sample"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, map[string]bool{"DATABASE_URL": true, "JWT_SECRET": false, "SEARCH_SYNC_KEY": true}, body.Env)
	assert.NotEmpty(t, body.Sample)
}

func TestHandler_LegacyFeaturedTours(t *testing.T) {
	svc, tours, _ := newTestService()
	tours.On("Featured", mock.Anything).Return([]domain.Tour{{ID: "t-1", Slug: "glacier-walk", Price: 10}}, nil).Once()
	tours.On("Featured", mock.Anything).Return(nil, errors.New("db down")).Once()
	r := newTestRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/featured-tours", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"success"`)
	assert.Contains(t, w.Body.String(), `"count":1`)
	assert.Contains(t, w.Body.String(), `glacier-walk`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/featured-tours", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"error"`)
	assert.Contains(t, w.Body.String(), `"fallbackData"`)
	assert.Contains(t, w.Body.String(), `fallback-featured-tour`)
	assert.Contains(t, w.Body.String(), `db down`)
}

func TestHandler_GetTour_NotFound(t *testing.T) {
	svc, tours, _ := newTestService()
	tours.On("GetBySlug", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)
	r := newTestRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/catalog/tours/ghost", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}

func TestHandler_SearchTours_ParsesQuery(t *testing.T) {
	svc, tours, _ := newTestService()
	tours.On("Search", mock.Anything, mock.AnythingOfType("repository.TourFilter")).
		Return([]domain.Tour{{ID: "t-1", Slug: "coast-cruise", Price: 150}}, nil)
	r := newTestRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/catalog/tours?q=coast&category=boat&min_price=10&max_price=200&sort=rating&limit=5&page=3", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"limit":5`)
	assert.Contains(t, w.Body.String(), `"offset":10`)
	assert.Contains(t, w.Body.String(), `"effective_price":150`)

	require.Len(t, tours.Calls, 1)
	f := tours.Calls[0].Arguments.Get(1).(repository.TourFilter)
	assert.Equal(t, "coast", f.Query)
	assert.Equal(t, "boat", f.CategorySlug)
	assert.Equal(t, repository.SortRating, f.Sort)
	require.NotNil(t, f.MinPrice)
	require.NotNil(t, f.MaxPrice)
	assert.Equal(t, 10.0, *f.MinPrice)
	assert.Equal(t, 200.0, *f.MaxPrice)
	assert.Nil(t, f.MinRating)
}

func TestHandler_SearchTours_BadSort(t *testing.T) {
	svc, _, _ := newTestService()
	r := newTestRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/catalog/tours?sort=random", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestHandler_SearchTours_MalformedNumbers(t *testing.T) {
	cases := []string{
		"min_price=cheap",
		"max_price=NaN",
		"min_rating=Inf",
		"min_price=1e400",
	}
	for _, query := range cases {
		t.Run(query, func(t *testing.T) {
			svc, tours, _ := newTestService()
			r := newTestRouter(svc)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/catalog/tours?"+query, nil))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
			tours.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_GetFeatured_FallbackIsNotCached(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	svc, tours, _ := newTestService()
	tours.On("Featured", mock.Anything).Return(nil, errors.New("db down")).Once()
	tours.On("Featured", mock.Anything).Return([]domain.Tour{{ID: "t-1", Slug: "glacier-walk", Price: 120}}, nil).Once()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	cache := middleware.ResponseCache(config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "test", MaxBodyBytes: 1 << 20}, rdb)
	NewHandler(svc, nil).RegisterRoutes(r.Group("/api"), cache)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/catalog/featured", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "fallback-featured-tour")
	assert.Empty(t, mr.Keys())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/catalog/featured", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Contains(t, w.Body.String(), "glacier-walk")
	assert.Len(t, mr.Keys(), 1)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/catalog/featured", nil))
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	assert.Contains(t, w.Body.String(), "glacier-walk")
	tours.AssertExpectations(t)
}
