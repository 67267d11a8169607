package ws

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/halofit/halo-be/internal/api/middleware"
	"github.com/halofit/halo-be/internal/chat"
	"github.com/halofit/halo-be/internal/conversation"
	"github.com/halofit/halo-be/internal/profile"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now
	},
}

// historyLimit bounds the per-connection transcript kept for context.
const historyLimit = 20

// messagesPerMinute caps inbound chat messages per connection.
const messagesPerMinute = 30

// ChatHandler handles WebSocket chat connections. Each connection keeps its
// own transcript so follow-up questions see prior turns.
type ChatHandler struct {
	engine *chat.Engine
}

// NewChatHandler creates a new WebSocket chat handler.
func NewChatHandler(engine *chat.Engine) *ChatHandler {
	return &ChatHandler{engine: engine}
}

// IncomingMessage represents a message from the client.
type IncomingMessage struct {
	Content string              `json:"content"`
	Context map[string]any      `json:"context"`
	Profile profile.UserProfile `json:"profile"`
}

// HandleChat upgrades the connection and serves the chat loop.
func (h *ChatHandler) HandleChat(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("WebSocket connected: %s", c.ClientIP())

	limiter := middleware.NewWebSocketLimiter(messagesPerMinute)
	var history []conversation.Turn

	for {
		var msg IncomingMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		if !limiter.Allow() {
			conn.WriteJSON(gin.H{"type": "error", "message": "Rate limit exceeded. Please slow down."})
			continue
		}
		if msg.Content == "" {
			conn.WriteJSON(gin.H{"type": "error", "message": "Empty message"})
			continue
		}

		resp := h.engine.ProcessMessage(c.Request.Context(), chat.ProcessRequest{
			Message: msg.Content,
			Profile: msg.Profile,
			History: history,
			Context: msg.Context,
		})

		history = append(history,
			conversation.Turn{Role: "user", Content: msg.Content},
			conversation.Turn{Role: "assistant", Content: resp.Message},
		)
		if len(history) > historyLimit {
			history = history[len(history)-historyLimit:]
		}

		if err := conn.WriteJSON(resp); err != nil {
			log.Printf("WebSocket write error: %v", err)
			break
		}
	}
}
