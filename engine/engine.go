// Package engine defines the search engine contract, the loosely typed
// callback adapter used by tool-style callers, and the health-tracking
// registry that coordinates engines at runtime.
package engine

import (
	"context"
	"time"

	"github.com/nostalgiatan/see/models"
)

// Info describes an engine's identity and advertised capabilities.
type Info struct {
	// Name is the engine identifier (e.g. "quark", "sogou", "bing").
	Name string

	// Type is "browser" for engines that drive a headless browser and
	// "http" for engines that parse plain HTTP responses.
	Type string

	Description  string
	Categories   []string
	Capabilities []string

	// Timeout bounds one search on this engine. Zero means the caller's
	// context is the only limit.
	Timeout time.Duration
}

// Engine is implemented by every search engine.
type Engine interface {
	// Info returns static engine metadata.
	Info() Info

	// Search runs one query and returns the extracted results. A nil error
	// with zero items is a legitimate outcome on sparse or slow pages.
	Search(ctx context.Context, q models.SearchQuery) (*models.SearchResponse, error)
}
