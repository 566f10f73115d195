package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaqqye/authorsite_backend/internal/middleware"
)

var authCfg = middleware.AuthConfig{Secret: "ws-test-secret"}

func startFeed(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	go hub.Run(ctx)

	r := gin.New()
	r.GET("/events", middleware.AuthMiddleware(authCfg), Handler(hub))
	srv := httptest.NewServer(r)

	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return hub, srv
}

func adminToken(t *testing.T) string {
	t.Helper()
	claims := middleware.Claims{
		UserID: "u-1",
		Role:   "admin",
		Email:  "admin@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(authCfg.Secret))
	require.NoError(t, err)
	return tok
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/events"
}

func TestFeedRejectsAnonymous(t *testing.T) {
	_, srv := startFeed(t)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestFeedDeliversPublishedEvents(t *testing.T) {
	hub, srv := startFeed(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv)+"?token="+adminToken(t), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Connected() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Publish("blog", "published", "b-42")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev Event
	require.NoError(t, json.Unmarshal(data, &ev))
	assert.Equal(t, "blog.published", ev.Type)
	assert.Equal(t, "blog", ev.Resource)
	assert.Equal(t, "b-42", ev.ID)
	assert.False(t, ev.At.IsZero())
}

func TestFeedUnregistersOnClose(t *testing.T) {
	hub, srv := startFeed(t)

	header := http.Header{}
	header.Set("Authorization", "Bearer "+adminToken(t))
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), header)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.Connected() == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Connected() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestPublishOnNilHubIsNoop(t *testing.T) {
	var hub *Hub
	hub.Publish("content", "created", "x")
	assert.Equal(t, 0, hub.Connected())
}

func TestPublishNeverBlocks(t *testing.T) {
	hub := NewHub()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			hub.Publish("menu", "updated", "m")
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked without a running hub")
	}
}
