package models

import "time"

// SearchRequest is the payload for GET/POST /api/v1/search.
type SearchRequest struct {
	// Query is the search phrase. Required.
	Query string `json:"query" form:"query" binding:"required"`

	// Engine selects the search engine to run. Default: "quark".
	Engine string `json:"engine,omitempty" form:"engine"`

	// MaxResults caps the number of returned items. Default: 10. Max: 50.
	MaxResults int `json:"max_results,omitempty" form:"max_results" binding:"omitempty,min=1,max=50"`

	// Page is the 1-based result page for engines that paginate.
	Page int `json:"page,omitempty" form:"page" binding:"omitempty,min=1"`

	// TimeRange restricts results by age for engines that support it.
	TimeRange string `json:"time_range,omitempty" form:"time_range" binding:"omitempty,oneof=day week month year"`

	// WaitTimesMs overrides the staged render-wait schedule in milliseconds.
	// Only browser-driven engines consult it.
	WaitTimesMs []int `json:"wait_times_ms,omitempty" form:"wait_times_ms"`

	// NoCache bypasses the query cache for this request.
	NoCache bool `json:"no_cache,omitempty" form:"no_cache"`
}

// Defaults applies default values to unset fields.
func (r *SearchRequest) Defaults() {
	if r.Engine == "" {
		r.Engine = "quark"
	}
	if r.MaxResults == 0 {
		r.MaxResults = 10
	}
	if r.Page == 0 {
		r.Page = 1
	}
}

// ToQuery converts the API request into the engine-facing query.
func (r *SearchRequest) ToQuery() SearchQuery {
	q := SearchQuery{
		Query:      r.Query,
		MaxResults: r.MaxResults,
		Page:       r.Page,
		TimeRange:  r.TimeRange,
	}
	for _, ms := range r.WaitTimesMs {
		if ms > 0 {
			q.WaitTimes = append(q.WaitTimes, time.Duration(ms)*time.Millisecond)
		}
	}
	return q
}

// SearchQuery is the engine-facing search input.
type SearchQuery struct {
	Query      string
	MaxResults int
	Page       int
	TimeRange  string

	// WaitTimes is the staged render-wait schedule for browser engines.
	// Empty means the engine default.
	WaitTimes []time.Duration
}

// SearchResultItem is one extracted search record.
type SearchResultItem struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Snippet string  `json:"snippet"`
	Score   float64 `json:"score"`
}

// SearchResponse is the fixed-shape search result envelope. Every engine
// callback returns it, success or failure, and the API serves it verbatim.
type SearchResponse struct {
	Items       []SearchResultItem `json:"items"`
	TotalCount  int                `json:"total_count"`
	Engine      string             `json:"engine"`
	QueryTimeMs int64              `json:"query_time_ms"`
	Cached      bool               `json:"cached"`

	// Error is set only on failure; the rest of the shape is preserved.
	Error string `json:"error,omitempty"`
}

// NewSearchResponse builds a success envelope around extracted items.
func NewSearchResponse(engine string, items []SearchResultItem, elapsed time.Duration) *SearchResponse {
	if items == nil {
		items = []SearchResultItem{}
	}
	return &SearchResponse{
		Items:       items,
		TotalCount:  len(items),
		Engine:      engine,
		QueryTimeMs: elapsed.Milliseconds(),
	}
}

// NewSearchFailure builds a failure envelope that keeps the fixed shape.
func NewSearchFailure(engine, message string) *SearchResponse {
	return &SearchResponse{
		Items:  []SearchResultItem{},
		Engine: engine,
		Error:  message,
	}
}
