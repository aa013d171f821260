package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gradeufla/planner-api/internal/service"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	catalog *service.CatalogService
}

// NewHealthHandler builds a new handler.
func NewHealthHandler(catalog *service.CatalogService) *HealthHandler {
	return &HealthHandler{catalog: catalog}
}

// Health godoc
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready godoc
// @Summary Readiness probe, checks catalog storage
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	if err := h.catalog.Ready(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
