package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nostalgiatan/see/engine"
)

// Engines returns the handler for GET /api/v1/engines: the registry listing
// with per-engine health state.
func Engines(reg *engine.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		list := reg.List()
		c.JSON(http.StatusOK, gin.H{
			"engines": list,
			"total":   len(list),
		})
	}
}
