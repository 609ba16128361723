package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JanVogt06/dfb-spesen-generator/internal/models"
)

const version = "1.1.1"

type HealthHandler struct {
	outputDir string
}

func NewHealthHandler(outputDir string) *HealthHandler {
	return &HealthHandler{outputDir: outputDir}
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "online",
		Service:   "TFV Spesen Generator API",
		Version:   version,
		OutputDir: h.outputDir,
	})
}
