package ws

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/zaqqye/authorsite_backend/internal/middleware"
	"github.com/zaqqye/authorsite_backend/internal/response"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS does not cover websocket handshakes; the bearer token does.
		return true
	},
}

// Handler upgrades an authenticated admin to the activity feed. It must run
// behind middleware.AuthMiddleware.
func Handler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := middleware.CurrentIdentity(c)
		if !ok {
			response.Unauthorized(c, "Access token required")
			return
		}
		if hub == nil {
			response.Error(c, http.StatusServiceUnavailable, "Activity feed unavailable")
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Warn().Err(err).Str("request_id", c.GetString("request_id")).Msg("ws: upgrade failed")
			return
		}
		cl := newClient(hub, conn, id.UserID)
		if !hub.add(cl) {
			conn.Close()
			return
		}

		go cl.writePump()
		cl.readPump()
	}
}
