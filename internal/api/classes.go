package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/halofit/halo-be/internal/schedule"
	"github.com/halofit/halo-be/internal/suggest"
	"github.com/halofit/halo-be/internal/timeparse"
)

// ClassesHandler lists club classes through the schedule matcher.
type ClassesHandler struct {
	generator *suggest.Generator
}

// NewClassesHandler creates a new classes handler.
func NewClassesHandler(generator *suggest.Generator) *ClassesHandler {
	return &ClassesHandler{generator: generator}
}

// List handles GET /api/classes?date&location&type&when. Results are in
// chronological order; unparseable filters are ignored rather than rejected.
func (h *ClassesHandler) List(c *gin.Context) {
	q := schedule.Query{
		Location: c.Query("location"),
		Type:     c.Query("type"),
	}

	if dateStr := c.Query("date"); dateStr != "" {
		if d, ok := timeparse.ParseDate(dateStr, time.Now()); ok {
			q.Dates = []time.Time{d}
		}
	}
	if when := c.Query("when"); when != "" {
		if w, ok := timeparse.ParseWindow(when); ok {
			q.Window = &w
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"classes": h.generator.ListClasses(q),
	})
}
