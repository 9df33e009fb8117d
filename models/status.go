package models

// EngineStatus describes one registered engine for GET /api/v1/engines.
type EngineStatus struct {
	Name         string   `json:"name"`
	Type         string   `json:"engine_type"`
	Description  string   `json:"description,omitempty"`
	Categories   []string `json:"categories,omitempty"`
	Capabilities []string `json:"capabilities,omitempty"`

	// Enabled is the administrative switch; Available additionally reflects
	// temporary health-based disablement.
	Enabled   bool `json:"enabled"`
	Available bool `json:"available"`

	ConsecutiveFailures int   `json:"consecutive_failures"`
	ZeroResultStreak    int   `json:"zero_result_streak"`
	AvgResponseMs       int64 `json:"avg_response_ms"`
}

// HealthResponse is the response for GET /health.
type HealthResponse struct {
	Status           string `json:"status"` // "healthy" or "degraded"
	Uptime           string `json:"uptime"`
	Version          string `json:"version"`
	EnginesAvailable int    `json:"engines_available"`
	EnginesTotal     int    `json:"engines_total"`
}

// StatsResponse is the response for GET /api/v1/stats.
type StatsResponse struct {
	TotalSearches  uint64  `json:"total_searches"`
	CacheHits      uint64  `json:"cache_hits"`
	CacheMisses    uint64  `json:"cache_misses"`
	CacheHitRate   float64 `json:"cache_hit_rate"`
	CacheEntries   int     `json:"cache_entries"`
	EngineFailures uint64  `json:"engine_failures"`
}
