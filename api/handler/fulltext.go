package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nostalgiatan/see/content"
	"github.com/nostalgiatan/see/models"
)

// Fulltext returns the handler for POST /api/v1/fulltext: fetch one page
// and return its article content in the requested format.
func Fulltext(ex *content.Extractor) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		var req models.FulltextRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.FulltextResponse{
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		resp, err := ex.Extract(c.Request.Context(), req)
		if err != nil {
			searchErr := asSearchError(err)
			c.JSON(mapErrorToStatus(searchErr), models.FulltextResponse{
				URL:     req.URL,
				TotalMs: time.Since(start).Milliseconds(),
				Error:   searchErr.ToDetail(),
			})
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}
