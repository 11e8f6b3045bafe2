package system

import (
	"github.com/gofiber/contrib/websocket"
)

type WebSocketController struct {
	Hub *Hub
}

func NewWebSocketController(hub *Hub) *WebSocketController {
	return &WebSocketController{Hub: hub}
}

// HandleWebSocket keeps the connection registered with the hub until
// the client goes away. Incoming messages are ignored, the feed is
// one-way.
func (h *WebSocketController) HandleWebSocket(c *websocket.Conn) {
	h.Hub.Register(c)
	defer h.Hub.Unregister(c)

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}
