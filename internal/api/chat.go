package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/halofit/halo-be/internal/chat"
	"github.com/halofit/halo-be/internal/conversation"
	"github.com/halofit/halo-be/internal/profile"
)

// ChatHandler exposes the chat engine over HTTP.
type ChatHandler struct {
	engine *chat.Engine
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(engine *chat.Engine) *ChatHandler {
	return &ChatHandler{engine: engine}
}

// ChatRequest is the inbound chat payload.
type ChatRequest struct {
	Message string              `json:"message" binding:"required"`
	Context map[string]any      `json:"context"`
	History []conversation.Turn `json:"conversation_history"`
	Profile profile.UserProfile `json:"user_profile"`
}

// Chat handles POST /api/chat.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp := h.engine.ProcessMessage(c.Request.Context(), chat.ProcessRequest{
		Message: req.Message,
		Profile: req.Profile,
		History: req.History,
		Context: req.Context,
	})
	c.JSON(http.StatusOK, resp)
}
