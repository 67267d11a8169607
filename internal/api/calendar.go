package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/halofit/halo-be/pkg/gcal"
)

// CalendarHandler forwards events to Google Calendar.
type CalendarHandler struct {
	gcal *gcal.Client
}

// NewCalendarHandler creates a new calendar handler.
func NewCalendarHandler(client *gcal.Client) *CalendarHandler {
	return &CalendarHandler{gcal: client}
}

// AddEvent handles POST /api/calendar/add. The caller supplies its own
// Google OAuth token in the Authorization header.
func (h *CalendarHandler) AddEvent(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing authorization token"})
		return
	}

	var event gcal.Event
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := event.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.gcal.AddEvent(c.Request.Context(), token, event)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to add event to calendar"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"eventId": result.EventID,
		"link":    result.HTMLLink,
	})
}
