package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/nostalgiatan/see/models"
)

// Callback is the tool-style entry point to an engine: a loosely typed
// parameter map in, a complete response out. A Callback never returns a Go
// error and never panics; failures are reported inside the response so the
// caller always receives the same shape.
//
// Recognized parameters:
//
//	query         string, required
//	max_results   number
//	page          number, 1-based
//	time_range    string (day, week, month, year)
//	wait_times_ms list of numbers, milliseconds per render-wait stage
type Callback func(params map[string]any) *models.SearchResponse

// NewCallback adapts an engine's typed Search to the Callback contract.
// The timeout bounds each invocation; zero falls back to the engine's own
// Info().Timeout, and if that is also zero the search is unbounded.
func NewCallback(e Engine, timeout time.Duration) Callback {
	if timeout <= 0 {
		timeout = e.Info().Timeout
	}

	return func(params map[string]any) (resp *models.SearchResponse) {
		name := e.Info().Name
		defer func() {
			if r := recover(); r != nil {
				slog.Error("search callback panic",
					"engine", name,
					"panic", r,
				)
				resp = models.NewSearchFailure(name, fmt.Sprintf("internal error: %v", r))
			}
		}()

		query := strings.TrimSpace(paramString(params, "query"))
		if query == "" {
			return models.NewSearchFailure(name, "Missing query parameter")
		}

		q := models.SearchQuery{
			Query:      query,
			MaxResults: paramInt(params, "max_results"),
			Page:       paramInt(params, "page"),
			TimeRange:  paramString(params, "time_range"),
			WaitTimes:  paramMillis(params, "wait_times_ms"),
		}

		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		result, err := e.Search(ctx, q)
		if err != nil {
			return models.NewSearchFailure(name, err.Error())
		}
		return result
	}
}

// paramString reads a string parameter, tolerating absence and wrong types.
func paramString(params map[string]any, key string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	return ""
}

// paramInt reads a numeric parameter. JSON decoding yields float64, but
// direct callers may pass int values, so both are accepted. Returns 0 when
// absent or unusable.
func paramInt(params map[string]any, key string) int {
	switch v := params[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 0
}

// paramMillis reads a list of millisecond values as durations. Returns nil
// when absent or empty so the engine applies its default wait schedule.
func paramMillis(params map[string]any, key string) []time.Duration {
	raw, ok := params[key].([]any)
	if !ok {
		return nil
	}

	out := make([]time.Duration, 0, len(raw))
	for _, item := range raw {
		var ms int
		switch v := item.(type) {
		case float64:
			ms = int(v)
		case int:
			ms = v
		case int64:
			ms = int(v)
		default:
			continue
		}
		if ms > 0 {
			out = append(out, time.Duration(ms)*time.Millisecond)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
