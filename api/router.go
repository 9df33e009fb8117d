package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nostalgiatan/see/api/handler"
	"github.com/nostalgiatan/see/api/middleware"
	"github.com/nostalgiatan/see/cache"
	"github.com/nostalgiatan/see/config"
	"github.com/nostalgiatan/see/content"
	"github.com/nostalgiatan/see/engine"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health endpoint is intentionally outside auth so monitoring probes always
// work.
func NewRouter(reg *engine.Registry, ex *content.Extractor, cc *cache.Cache, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	metrics := &handler.Metrics{}

	// Health stays outside auth.
	r.GET("/health", handler.Health(reg, startTime))

	// Protected group: auth then rate limit.
	protected := r.Group("/api/v1")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	// Search
	protected.GET("/search", handler.Search(reg, cc, metrics))
	protected.POST("/search", handler.Search(reg, cc, metrics))

	// Engines
	protected.GET("/engines", handler.Engines(reg))

	// Full-text page extraction
	protected.POST("/fulltext", handler.Fulltext(ex))

	// Operations
	protected.GET("/stats", handler.Stats(reg, cc, metrics))
	protected.POST("/cache/clear", handler.CacheClear(cc))
	protected.GET("/version", handler.Version(reg))

	return r
}
