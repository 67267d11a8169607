package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/halofit/halo-be/pkg/gemini"
)

// maxImageBytes caps uploaded meal photos at 8 MB.
const maxImageBytes = 8 << 20

// CalorieHandler estimates meal nutrition from uploaded photos.
type CalorieHandler struct {
	estimator gemini.Client
}

// NewCalorieHandler creates a new calorie handler.
func NewCalorieHandler(estimator gemini.Client) *CalorieHandler {
	return &CalorieHandler{estimator: estimator}
}

// Estimate handles POST /api/calorie/estimate with a multipart "file" field.
func (h *CalorieHandler) Estimate(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file upload"})
		return
	}
	if fileHeader.Size > maxImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Image too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read upload"})
		return
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read upload"})
		return
	}

	estimate, err := h.estimator.EstimateMeal(c.Request.Context(), image, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to estimate meal"})
		return
	}

	c.JSON(http.StatusOK, estimate)
}
