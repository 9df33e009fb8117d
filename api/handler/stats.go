package handler

import (
	"math"
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"

	"github.com/nostalgiatan/see/cache"
	"github.com/nostalgiatan/see/engine"
	"github.com/nostalgiatan/see/models"
)

// Metrics aggregates process-lifetime API counters for the stats endpoint.
type Metrics struct {
	TotalSearches atomic.Uint64
}

// Stats returns the handler for GET /api/v1/stats.
func Stats(reg *engine.Registry, cc *cache.Cache, metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		hits, misses, entries := cc.Stats()

		hitRate := 0.0
		if total := hits + misses; total > 0 {
			hitRate = math.Round(float64(hits)/float64(total)*10000) / 10000
		}

		c.JSON(http.StatusOK, models.StatsResponse{
			TotalSearches:  metrics.TotalSearches.Load(),
			CacheHits:      hits,
			CacheMisses:    misses,
			CacheHitRate:   hitRate,
			CacheEntries:   entries,
			EngineFailures: reg.TotalFailures(),
		})
	}
}

// CacheClear returns the handler for POST /api/v1/cache/clear.
func CacheClear(cc *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"cleared": cc.Clear(),
		})
	}
}
