package browser

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"github.com/nostalgiatan/see/config"
	"github.com/nostalgiatan/see/dom"
	"github.com/nostalgiatan/see/models"
)

const (
	viewportWidth  = 1440
	viewportHeight = 900

	// defaultUserAgent is a plain desktop Chrome identity, applied when the
	// config does not override it.
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// inputSelectorTimeout bounds each selector probe while locating the
	// search input.
	inputSelectorTimeout = 2 * time.Second

	// postTypeSettle gives the page a moment to react to the typed query
	// before Enter is sent.
	postTypeSettle = 500 * time.Millisecond
)

// Session is a single browser tab prepared for one search interaction.
// A session is not safe for concurrent use; engines serialize access.
type Session struct {
	page   *rod.Page
	cfg    config.BrowserConfig
	router *rod.HijackRouter
	closed atomic.Bool
}

// prepare applies the stealth script, user agent and viewport. It must run
// before the first navigation so the overrides affect the loaded page.
func (s *Session) prepare(ctx context.Context) error {
	p := s.page.Context(ctx)

	if s.cfg.Stealth {
		if _, err := p.EvalOnNewDocument(stealth.JS); err != nil {
			slog.Warn("stealth injection failed, proceeding without stealth",
				"error", err,
			)
		}
	}

	ua := s.cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	if err := p.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: ua}); err != nil {
		return models.NewSearchError(
			models.ErrCodeBrowserCrash,
			"failed to set user agent",
			err,
		)
	}

	if err := p.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             viewportWidth,
		Height:            viewportHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		return models.NewSearchError(
			models.ErrCodeBrowserCrash,
			"failed to set viewport",
			err,
		)
	}

	return nil
}

// Navigate loads the target URL and waits for DOMContentLoaded, bounded by
// the configured navigation timeout. A navigation error is terminal for the
// search; the caller must not retry.
func (s *Session) Navigate(ctx context.Context, target string) error {
	navCtx, cancel := context.WithTimeout(ctx, s.cfg.NavigationTimeout)
	defer cancel()

	p := s.page.Context(navCtx)

	if s.cfg.Stealth {
		s.setReferer(target)
	}

	// The listener must exist before Navigate or the event can be missed.
	wait := p.WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)
	if err := p.Navigate(target); err != nil {
		return categorizeError(err, "navigation to target URL failed")
	}
	wait()

	return nil
}

// setReferer makes the arrival look like an organic search click.
func (s *Session) setReferer(target string) {
	u, err := url.Parse(target)
	if err != nil {
		return
	}
	headers := map[string]string{
		"Referer": "https://www.google.com/search?q=" + url.QueryEscape(u.Hostname()),
	}
	_ = proto.NetworkSetExtraHTTPHeaders{
		Headers: toHeadersMap(headers),
	}.Call(s.page)
}

// FindInput locates the first visible element matching any of the selectors,
// probing each with a short timeout. Selector order is the priority order.
func (s *Session) FindInput(ctx context.Context, selectors []string) (*rod.Element, error) {
	for _, sel := range selectors {
		if ctx.Err() != nil {
			return nil, categorizeError(ctx.Err(), "input lookup aborted")
		}

		el, err := s.page.Context(ctx).Timeout(inputSelectorTimeout).Element(sel)
		if err != nil {
			continue
		}
		el = el.CancelTimeout()

		visible, err := el.Visible()
		if err != nil || !visible {
			continue
		}
		return el, nil
	}
	return nil, models.NewSearchError(
		models.ErrCodeSelector,
		"no visible search input matched any selector",
		nil,
	)
}

// Type fills the element with text, lets the page settle, then presses Enter
// to submit.
func (s *Session) Type(ctx context.Context, el *rod.Element, text string) error {
	if err := el.Input(text); err != nil {
		return categorizeError(err, "failed to type query")
	}
	if err := s.Sleep(ctx, postTypeSettle); err != nil {
		return categorizeError(err, "settle after typing interrupted")
	}
	if err := el.Type(input.Enter); err != nil {
		return categorizeError(err, "failed to submit query")
	}
	return nil
}

// WaitAny probes each selector with the given per-selector timeout and
// reports whether any matched at least one element. A false return is not an
// error; content may still appear during the staged wait ladder.
func (s *Session) WaitAny(ctx context.Context, selectors []string, perSelector time.Duration) bool {
	for _, sel := range selectors {
		if ctx.Err() != nil {
			return false
		}

		p := s.page.Context(ctx).Timeout(perSelector)
		if err := p.WaitElementsMoreThan(sel, 0); err == nil {
			return true
		}
	}
	return false
}

// Sleep blocks for d or until the context is done.
func (s *Session) Sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Root exposes the live page DOM for the extraction pipeline.
func (s *Session) Root(ctx context.Context) dom.Root {
	return dom.FromPage(s.page.Context(ctx))
}

// HTML returns the rendered document markup.
func (s *Session) HTML(ctx context.Context) (string, error) {
	html, err := s.page.Context(ctx).HTML()
	if err != nil {
		return "", categorizeError(err, "failed to extract page HTML")
	}
	return html, nil
}

// Close stops request interception and releases the page. Safe to call
// multiple times.
func (s *Session) Close() {
	if s.closed.Swap(true) {
		return
	}
	if s.router != nil {
		if err := s.router.Stop(); err != nil {
			slog.Debug("hijack router stop failed", "error", err)
		}
	}
	if err := s.page.Close(); err != nil {
		slog.Debug("page close failed", "error", err)
	}
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}

// categorizeError wraps raw errors into typed SearchErrors so callers can
// map them to API status codes.
func categorizeError(err error, msg string) *models.SearchError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewSearchError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewSearchError(models.ErrCodeTimeout, "request canceled", err)
	default:
		return models.NewSearchError(models.ErrCodeNavigation, msg, err)
	}
}
