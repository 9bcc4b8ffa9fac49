package review

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"tourbooking/internal/domain"
)

func newTestRouter(svc *Service, guards ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api"), guards...)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_GetByTour(t *testing.T) {
	svc, reviews, _, _ := newTestService()
	reviews.On("ListApprovedByTour", mock.Anything, "tour-1").
		Return([]domain.Review{{ID: "r1", AuthorName: "Mia", AuthorEmail: "mia@example.com", Status: domain.ReviewApproved}}, nil)

	w := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tours/tour-1/reviews", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"author_name":"Mia"`)
	assert.NotContains(t, w.Body.String(), "mia@example.com")
}

func TestHandler_Submit(t *testing.T) {
	svc, reviews, tours, events := newTestService()
	tours.On("GetByID", mock.Anything, "tour-1").Return(&domain.Tour{ID: "tour-1"}, nil)
	reviews.On("Create", mock.Anything, mock.Anything).Return(nil)
	events.On("Publish", mock.Anything, mock.Anything).Return(nil)

	w := postJSON(newTestRouter(svc), "/api/reviews",
		`{"tour_id":"tour-1","author_name":"Mia","rating":4,"comment":"Great","status":"approved","helpful_votes":9}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"pending"`)
	assert.Contains(t, w.Body.String(), `"helpful_votes":0`)
}

func TestHandler_Submit_Errors(t *testing.T) {
	svc, _, tours, _ := newTestService()
	r := newTestRouter(svc)

	w := postJSON(r, "/api/reviews", `{"tour_id":"tour-1","author_name":"Mia","rating":9,"comment":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"rating":"lte"`)

	w = postJSON(r, "/api/reviews", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_REQUEST")
	tours.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestHandler_Vote(t *testing.T) {
	svc, reviews, _, _ := newTestService()
	reviews.On("IncrementVote", mock.Anything, "review-1", false).Return(true, nil)
	reviews.On("IncrementVote", mock.Anything, "missing", true).Return(false, nil)
	r := newTestRouter(svc)

	w := postJSON(r, "/api/reviews/review-1/vote", `{"helpful":false}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = postJSON(r, "/api/reviews/missing/vote", `{"helpful":true}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = postJSON(r, "/api/reviews/review-1/vote", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	reviews.AssertNumberOfCalls(t, "IncrementVote", 2)
}

func TestHandler_WriteGuardsRunOnWrites(t *testing.T) {
	svc, reviews, _, _ := newTestService()
	reviews.On("ListApprovedByTour", mock.Anything, "tour-1").Return([]domain.Review{}, nil)
	blocked := func(c *gin.Context) { c.AbortWithStatus(http.StatusTooManyRequests) }
	r := newTestRouter(svc, blocked)

	w := postJSON(r, "/api/reviews/review-1/vote", `{"helpful":true}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tours/tour-1/reviews", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
