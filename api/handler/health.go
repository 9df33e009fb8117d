package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nostalgiatan/see/engine"
	"github.com/nostalgiatan/see/models"
)

// version is reported by the health and version endpoints.
const version = "0.1.0"

// Health returns the handler for GET /health.
//
// The endpoint sits outside auth so monitoring probes always work. Status
// degrades when every registered engine is cooling down.
func Health(reg *engine.Registry, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		available, total := reg.Counts()

		status := "healthy"
		if total > 0 && available == 0 {
			status = "degraded"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:           status,
			Uptime:           time.Since(startTime).Round(time.Second).String(),
			Version:          version,
			EnginesAvailable: available,
			EnginesTotal:     total,
		})
	}
}

// Version returns the handler for GET /api/v1/version.
func Version(reg *engine.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":    "see",
			"version": version,
			"engines": reg.Names(),
		})
	}
}
