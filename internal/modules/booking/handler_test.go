package booking

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"tourbooking/internal/domain"
	"tourbooking/internal/middleware"
)

func newTestRouter(svc *Service, userID string) *gin.Engine {
	return newRoleRouter(svc, userID, domain.RoleCustomer)
}

func newRoleRouter(svc *Service, userID string, role domain.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	fakeAuth := func(c *gin.Context) {
		if userID != "" {
			c.Set(middleware.ContextUserID, userID)
			c.Set(middleware.ContextRole, string(role))
		}
		c.Next()
	}
	NewHandler(svc).RegisterRoutes(r.Group("/api"), fakeAuth)
	return r
}

func TestHandler_CreateBooking(t *testing.T) {
	svc, bookings, tours, events := newTestService()
	tours.On("GetByID", mock.Anything, "tour-1").Return(activeTour(), nil)
	bookings.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.UserID != nil && *b.UserID == "user-1"
	})).Return(nil)
	events.On("Publish", mock.Anything, mock.Anything).Return(nil)

	body := `{"tour_id":"tour-1","booking_date":"2026-06-20","adults":2,"contact_name":"Ana","contact_email":"ana@example.com","contact_phone":"+3460000","status":"confirmed"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	newTestRouter(svc, "user-1").ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"pending"`)
	assert.Contains(t, w.Body.String(), `"payment_status":"unpaid"`)
}

func TestHandler_CreateBooking_ValidationDetails(t *testing.T) {
	svc, _, _, _ := newTestService()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewBufferString(`{"tour_id":"tour-1"}`))
	req.Header.Set("Content-Type", "application/json")
	newTestRouter(svc, "").ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	assert.Contains(t, w.Body.String(), `"contact_email":"required"`)
}

func TestHandler_CreateBooking_MalformedBody(t *testing.T) {
	svc, _, _, _ := newTestService()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewBufferString(`{`))
	req.Header.Set("Content-Type", "application/json")
	newTestRouter(svc, "").ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_REQUEST")
}

func TestHandler_MyBookings_Anonymous(t *testing.T) {
	svc, bookings, _, _ := newTestService()

	w := httptest.NewRecorder()
	newTestRouter(svc, "").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/bookings/me", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":[]}`, w.Body.String())
	bookings.AssertNotCalled(t, "ListByUser", mock.Anything, mock.Anything)
}

func TestHandler_GetVoucher(t *testing.T) {
	svc, bookings, _, _ := newTestService()
	bookings.On("GetByID", mock.Anything, "b-1").Return(voucherBooking(domain.BookingPending), nil)

	w := httptest.NewRecorder()
	newTestRouter(svc, "").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/bookings/b-1/voucher", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "voucher-b-1.pdf")
}

func TestHandler_AccountBookingOnlyVisibleToOwnerAndAdmin(t *testing.T) {
	svc, bookings, _, _ := newTestService()
	owned := voucherBooking(domain.BookingConfirmed)
	owner := "user-1"
	owned.UserID = &owner
	owned.ContactEmail = "jose@example.com"
	bookings.On("GetByID", mock.Anything, "b-1").Return(owned, nil)

	cases := []struct {
		name   string
		router *gin.Engine
		want   int
	}{
		{"anonymous", newTestRouter(svc, ""), http.StatusNotFound},
		{"other user", newTestRouter(svc, "user-2"), http.StatusNotFound},
		{"owner", newTestRouter(svc, "user-1"), http.StatusOK},
		{"admin", newRoleRouter(svc, "ops", domain.RoleAdmin), http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for _, path := range []string{"/api/bookings/b-1", "/api/bookings/b-1/voucher"} {
				w := httptest.NewRecorder()
				tc.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

				assert.Equal(t, tc.want, w.Code, path)
				if tc.want == http.StatusNotFound {
					assert.NotContains(t, w.Body.String(), "jose@example.com")
				}
			}
		})
	}
}

func TestHandler_GuestBookingReadableByID(t *testing.T) {
	svc, bookings, _, _ := newTestService()
	bookings.On("GetByID", mock.Anything, "b-1").Return(voucherBooking(domain.BookingPending), nil)

	w := httptest.NewRecorder()
	newTestRouter(svc, "").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/bookings/b-1", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"b-1"`)
}
