package models

// FulltextRequest is the payload for POST /api/v1/fulltext.
type FulltextRequest struct {
	// URL is the page to fetch and extract. Required.
	URL string `json:"url" binding:"required,url"`

	// Format controls the content representation.
	// Allowed: "markdown" (default), "text", "html".
	Format string `json:"format,omitempty" binding:"omitempty,oneof=markdown text html"`

	// Timeout is the maximum fetch duration in seconds. Default: 20. Max: 120.
	Timeout int `json:"timeout,omitempty" binding:"omitempty,min=1,max=120"`
}

// Defaults applies default values to unset fields.
func (r *FulltextRequest) Defaults() {
	if r.Format == "" {
		r.Format = "markdown"
	}
	if r.Timeout == 0 {
		r.Timeout = 20
	}
}

// FulltextResponse is the response for POST /api/v1/fulltext.
type FulltextResponse struct {
	Success   bool   `json:"success"`
	URL       string `json:"url"`
	Title     string `json:"title"`
	Byline    string `json:"byline,omitempty"`
	Excerpt   string `json:"excerpt,omitempty"`
	SiteName  string `json:"site_name,omitempty"`
	Content   string `json:"content"`
	WordCount int    `json:"word_count"`
	TotalMs   int64  `json:"total_ms"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}
