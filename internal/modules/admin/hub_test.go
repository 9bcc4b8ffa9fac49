package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourbooking/internal/middleware"
	"tourbooking/internal/notification"
)

func TestHub_PushesEventsToDashboards(t *testing.T) {
	hub := NewHub(nil, zerolog.Nop())
	svc, _ := newTestService()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	var seenAuth string
	fakeAdmin := func(c *gin.Context) {
		seenAuth = c.GetHeader("Authorization")
		c.Set(middleware.ContextUserID, "admin-1")
		c.Next()
	}
	NewHandler(svc, hub).RegisterRoutes(r.Group("/api"), fakeAdmin)

	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/admin/ws?token=abc"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.OnlineCount() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "Bearer abc", seenAuth)

	ev := notification.NewEvent(notification.TypeBookingCreated, "b1", "tour-1", map[string]any{"guests": 3})
	require.NoError(t, hub.Publish(context.Background(), ev))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var got notification.Event
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, notification.TypeBookingCreated, got.Type)
	assert.Equal(t, "b1", got.EntityID)

	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	require.Eventually(t, func() bool { return hub.OnlineCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_RejectsUnknownOrigin(t *testing.T) {
	hub := NewHub([]string{"https://admin.example.com"}, zerolog.Nop())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.ServeWS(w, r, "admin-1")
	}))
	defer srv.Close()

	header := http.Header{"Origin": []string{"https://evil.example.com"}}
	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), header)

	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Zero(t, hub.OnlineCount())
}

func TestHub_PublishWithoutClients(t *testing.T) {
	hub := NewHub(nil, zerolog.Nop())
	assert.NoError(t, hub.Publish(context.Background(), notification.NewEvent(notification.TypeReviewSubmitted, "r1", "", nil)))
}
