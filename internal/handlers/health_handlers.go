package handlers

import (
	"net/http"

	"github.com/epeers/marketpulse/internal/models"
	"github.com/gin-gonic/gin"
)

// Ping handles GET /ping
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} models.PingResponse
// @Router /ping [get]
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, models.PingResponse{OK: true})
}

// Health handles GET /health
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
