package websocket

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// the feed is read-only public data
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Handler struct {
	hub    *Hub
	logger *slog.Logger
}

func NewHandler(hub *Hub, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{hub: hub, logger: logger}
}

// ServeWS upgrades the request and subscribes it to tally updates.
// GET /ws
func (h *Handler) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("ws_upgrade_failed", "error", err)
		return
	}

	client := NewClient(uuid.NewString(), conn, h.hub)

	// queued before registering so the hub is the only one closing SendChannel
	welcome := &Message{Type: TypeWelcome, At: time.Now().UTC()}
	if data, err := welcome.ToJSON(); err == nil {
		client.SendChannel <- data
	}
	if !h.hub.join(client) {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "feed stopped"),
			time.Now().Add(WriteWait))
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
