package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/halofit/halo-be/internal/store"
)

// defaultUserID stands in until an auth layer supplies real identities.
const defaultUserID = "default-user"

// PlannerHandler persists and retrieves daily plans.
type PlannerHandler struct {
	store store.Store
}

// NewPlannerHandler creates a new planner handler.
func NewPlannerHandler(s store.Store) *PlannerHandler {
	return &PlannerHandler{store: s}
}

// SavePlanRequest is the inbound plan payload.
type SavePlanRequest struct {
	Date     string          `json:"date" binding:"required"`
	PlanJSON json.RawMessage `json:"planJson" binding:"required"`
}

// Save handles POST /api/planner/save.
func (h *PlannerHandler) Save(c *gin.Context) {
	var req SavePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan := &store.Plan{
		UserID: defaultUserID,
		Date:   req.Date,
		Data:   req.PlanJSON,
	}
	if err := h.store.SavePlan(c.Request.Context(), plan); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save plan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Daily plan saved successfully",
		"plan":    plan,
	})
}

// Get handles GET /api/planner/:date. A date with no saved plan returns an
// empty, unsaved plan rather than 404 so the client can render a blank day.
func (h *PlannerHandler) Get(c *gin.Context) {
	date := c.Param("date")

	plan, err := h.store.GetPlan(c.Request.Context(), defaultUserID, date)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusOK, gin.H{
			"date":     date,
			"planJson": gin.H{"workouts": []any{}, "meals": []any{}, "classes": []any{}},
			"isSaved":  false,
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get plan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":     plan.Date,
		"planJson": plan.Data,
		"isSaved":  true,
	})
}

// Email handles POST /api/planner/email. Delivery is a logged stub until an
// email provider is wired up.
func (h *PlannerHandler) Email(c *gin.Context) {
	var req SavePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	log.Printf("Plan email requested for %s (date %s)", defaultUserID, req.Date)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Daily plan emailed successfully",
	})
}
