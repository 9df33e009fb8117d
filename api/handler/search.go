package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nostalgiatan/see/cache"
	"github.com/nostalgiatan/see/engine"
	"github.com/nostalgiatan/see/models"
)

// Search returns the handler for GET and POST /api/v1/search.
//
// Orchestration flow:
//  1. Bind and validate the request, apply defaults.
//  2. Cache lookup unless no_cache is set (hits flip the cached flag).
//  3. Resolve the engine from the registry (unknown or cooling down fails).
//  4. Run the search under the engine's own timeout.
//  5. Record the outcome on the registry health state and store the
//     response in the cache.
//
// Errors keep the fixed response shape: items stays an empty array and the
// error field carries the reason.
func Search(reg *engine.Registry, cc *cache.Cache, metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SearchRequest
		var err error
		if c.Request.Method == http.MethodGet {
			err = c.ShouldBindQuery(&req)
		} else {
			err = c.ShouldBindJSON(&req)
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, models.NewSearchFailure(req.Engine, "invalid request: "+err.Error()))
			return
		}
		req.Defaults()
		metrics.TotalSearches.Add(1)

		key := cache.Key(req.Engine, req.Query, req.Page, req.MaxResults)
		if !req.NoCache && cc != nil {
			if hit, ok := cc.Get(key); ok {
				resp := *hit
				resp.Cached = true
				c.JSON(http.StatusOK, &resp)
				return
			}
		}

		eng, err := reg.Get(req.Engine)
		if err != nil {
			respondSearchError(c, req.Engine, err)
			return
		}

		ctx := c.Request.Context()
		if timeout := eng.Info().Timeout; timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		start := time.Now()
		resp, err := eng.Search(ctx, req.ToQuery())
		if err != nil {
			reg.RecordFailure(req.Engine, err)
			respondSearchError(c, req.Engine, err)
			return
		}
		reg.RecordSuccess(req.Engine, time.Since(start), resp.TotalCount)

		if !req.NoCache && cc != nil && resp.TotalCount > 0 {
			cc.Set(key, resp)
		}
		c.JSON(http.StatusOK, resp)
	}
}

// respondSearchError writes a failure in the fixed search response shape
// with the HTTP status derived from the error code.
func respondSearchError(c *gin.Context, engineName string, err error) {
	searchErr := asSearchError(err)
	c.JSON(mapErrorToStatus(searchErr), models.NewSearchFailure(engineName, searchErr.Error()))
}
