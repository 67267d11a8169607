package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/halofit/halo-be/internal/store"
)

// WorkoutsHandler logs workouts and serves weekly summaries.
type WorkoutsHandler struct {
	store store.Store
}

// NewWorkoutsHandler creates a new workouts handler.
func NewWorkoutsHandler(s store.Store) *WorkoutsHandler {
	return &WorkoutsHandler{store: s}
}

// LogWorkoutRequest is the inbound workout-log payload.
type LogWorkoutRequest struct {
	Title          string `json:"title" binding:"required"`
	Duration       int    `json:"duration" binding:"required"`
	CaloriesBurned int    `json:"caloriesBurned"`
}

// Log handles POST /api/workouts/log.
func (h *WorkoutsHandler) Log(c *gin.Context) {
	var req LogWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry := &store.WorkoutEntry{
		UserID:   defaultUserID,
		Activity: req.Title,
		Minutes:  req.Duration,
		Calories: req.CaloriesBurned,
	}
	if err := h.store.LogWorkout(c.Request.Context(), entry); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log workout"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"workout": entry,
	})
}

// Summary handles GET /api/workouts/summary, aggregating the trailing week.
func (h *WorkoutsHandler) Summary(c *gin.Context) {
	since := time.Now().AddDate(0, 0, -7)

	summary, err := h.store.WeeklySummary(c.Request.Context(), defaultUserID, since)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build summary"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"weekStart":           since.Format("2006-01-02"),
		"weekEnd":             time.Now().Format("2006-01-02"),
		"totalWorkouts":       summary.Workouts,
		"totalDuration":       summary.TotalMinutes,
		"totalCaloriesBurned": summary.TotalCalories,
		"byActivity":          summary.ByActivity,
	})
}
