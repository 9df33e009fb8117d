package handler

import (
	"errors"
	"net/http"

	"github.com/nostalgiatan/see/models"
)

// asSearchError normalizes any error into a SearchError so responses always
// carry a code.
func asSearchError(err error) *models.SearchError {
	var searchErr *models.SearchError
	if errors.As(err, &searchErr) {
		return searchErr
	}
	return models.NewSearchError(models.ErrCodeInternal, err.Error(), nil)
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.SearchError) int {
	switch e.Code {
	case models.ErrCodeTimeout:
		return http.StatusGatewayTimeout // 504
	case models.ErrCodeNavigation, models.ErrCodeFetch:
		return http.StatusBadGateway // 502
	case models.ErrCodeEngineUnknown:
		return http.StatusNotFound // 404
	case models.ErrCodeEngineDisabled:
		return http.StatusServiceUnavailable // 503
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	default:
		return http.StatusInternalServerError // 500
	}
}
