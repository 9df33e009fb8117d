// Package quark implements the Quark AI search engine. Quark renders its
// result list client-side, so the engine drives a headless browser through
// the search interaction and extracts records from the live DOM.
package quark

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nostalgiatan/see/browser"
	"github.com/nostalgiatan/see/config"
	"github.com/nostalgiatan/see/engine"
	"github.com/nostalgiatan/see/extract"
	"github.com/nostalgiatan/see/fingerprint"
	"github.com/nostalgiatan/see/models"
)

const (
	// searchURL is the Quark AI landing page. The query is typed into the
	// search box rather than passed in the URL; direct query URLs render an
	// empty shell.
	searchURL = "https://ai.quark.cn/s"

	// postNavigateSettle lets the landing page finish its initial scripts
	// before we go looking for the search box.
	postNavigateSettle = 3 * time.Second

	// resultProbeTimeout bounds each selector in the fast-path probe that
	// runs right after the query is submitted.
	resultProbeTimeout = 2 * time.Second

	// driftDistance separates "same empty page as last time" from "the
	// layout changed". Hamming distance over 64-bit structure fingerprints.
	driftDistance = 8
)

// Selector lists in priority order. Quark's class names churn with frontend
// releases, so each list starts with the markup observed today and degrades
// toward generic structural guesses.
var (
	searchInputSelectors = []string{
		"textarea[placeholder*='搜索']",
		"input[placeholder*='搜索']",
		"textarea[placeholder*='search']",
		"input[placeholder*='search']",
		"input[type='search']",
		".search-input textarea",
		".search-input input",
		"[class*='search'] textarea",
		"[class*='search'] input",
	}

	resultSelectors = []string{
		".sgs-container",
		".sgs-container .search-box",
		".sgs-container .result-item",
		".sgs-container [class*='result']",
		".sgs-container [class*='item']",
		".sgs-container [class*='answer']",
		".sgs-container [class*='content']",
		".sgs-container div[class*='card']",
		".sgs-container article",
		".sgs-container section",
		"[class*='result']",
		".result-item",
		".search-result",
		"[class*='answer']",
		"[class*='content']",
		"div[class*='card']",
		"div[class*='item']",
		"article",
		"[data-testid*='result']",
	}

	titleSelectors = []string{
		"h1",
		"h2",
		"h3",
		"h4",
		"[class*='title']",
		"[class*='heading']",
		"strong",
		"b",
	}

	urlSelectors = []string{
		"a",
		"[href]",
		"[data-url]",
	}
)

// Engine is the Quark search engine. One instance owns one dedup scope: a
// URL seen in an earlier search on this instance will not be re-emitted by
// a later one.
type Engine struct {
	manager  *browser.Manager
	pipeline *extract.Pipeline
	cfg      config.SearchConfig
	log      *slog.Logger

	// mu serializes searches; the browser interaction and the dedup state
	// both assume one search at a time per instance.
	mu   sync.Mutex
	seen *extract.Validator

	// lastEmptyFP is the structure fingerprint of the most recent
	// zero-result page, 0 until the first empty run. Comparing consecutive
	// empty pages tells a recurring render failure apart from markup drift.
	lastEmptyFP uint64
}

// New builds a Quark engine on the shared browser manager.
func New(manager *browser.Manager, cfg config.SearchConfig) *Engine {
	p := extract.NewPipeline(extract.Config{
		Strategies: extract.Strategies{
			SearchInput: searchInputSelectors,
			Results:     resultSelectors,
			Titles:      titleSelectors,
			URLs:        urlSelectors,
		},
	}, slog.With("engine", "quark"))

	return &Engine{
		manager:  manager,
		pipeline: p,
		cfg:      cfg,
		log:      slog.With("engine", "quark"),
		seen:     p.NewValidator(),
	}
}

// Info implements engine.Engine.
func (e *Engine) Info() engine.Info {
	return engine.Info{
		Name:         "quark",
		Type:         "browser",
		Description:  "Quark AI search via headless browser rendering",
		Categories:   []string{"general", "ai", "zh"},
		Capabilities: []string{"javascript", "render-wait", "stealth"},
		Timeout:      e.cfg.Timeout,
	}
}

// Search drives one full interaction: open the landing page, type the
// query, submit, then hand the live DOM to the extraction pipeline.
func (e *Engine) Search(ctx context.Context, q models.SearchQuery) (*models.SearchResponse, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()

	maxResults := q.MaxResults
	if maxResults <= 0 {
		maxResults = e.cfg.DefaultMaxResults
	}
	waits := q.WaitTimes
	if len(waits) == 0 {
		waits = e.cfg.WaitTimes
	}

	session, err := e.manager.NewSession(ctx)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	if err := session.Navigate(ctx, searchURL); err != nil {
		return nil, err
	}
	if err := session.Sleep(ctx, postNavigateSettle); err != nil {
		return nil, models.NewSearchError(models.ErrCodeTimeout, "interrupted while page settled", err)
	}

	input, err := session.FindInput(ctx, searchInputSelectors)
	if err != nil {
		return nil, err
	}
	if err := session.Type(ctx, input, q.Query); err != nil {
		return nil, err
	}

	// Fast path: results often appear well before the first ladder stage.
	if !session.WaitAny(ctx, resultSelectors, resultProbeTimeout) {
		e.log.Debug("no result container matched the probe, relying on the wait ladder")
	}

	items := e.pipeline.Run(ctx, session.Root(ctx), e.seen, maxResults, waits)
	if len(items) == 0 {
		e.observeEmptyPage(ctx, session)
	}

	elapsed := time.Since(start)
	e.log.Info("search finished",
		"query", q.Query,
		"results", len(items),
		"elapsed", elapsed,
	)
	return models.NewSearchResponse("quark", items, elapsed), nil
}

// observeEmptyPage fingerprints the final DOM of a zero-result search and
// compares it with the previous one. A changed structure usually means the
// site shipped new result markup and the selector tables need attention; a
// matching structure points at rendering or blocking instead. Diagnostic
// only, extraction behavior is unaffected. Caller holds e.mu.
func (e *Engine) observeEmptyPage(ctx context.Context, session *browser.Session) {
	html, err := session.HTML(ctx)
	if err != nil {
		e.log.Debug("could not fingerprint empty result page", "error", err)
		return
	}
	fp := fingerprint.Structure(html)
	if fp == 0 {
		return
	}

	switch {
	case e.lastEmptyFP == 0:
		e.log.Debug("first zero-result page recorded", "fingerprint", fp)
	case fingerprint.Similar(fp, e.lastEmptyFP, driftDistance):
		e.log.Debug("zero-result page matches the previous empty run",
			"distance", fingerprint.Distance(fp, e.lastEmptyFP),
		)
	default:
		e.log.Warn("zero-result page structure changed, result markup may have drifted",
			"distance", fingerprint.Distance(fp, e.lastEmptyFP),
		)
	}
	e.lastEmptyFP = fp
}

// Callback returns the tool-style adapter bound to this engine.
func (e *Engine) Callback() engine.Callback {
	return engine.NewCallback(e, 0)
}
