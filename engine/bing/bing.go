// Package bing implements the Bing web search engine over plain HTTP.
//
// Bing serves a server-rendered result list, so the engine issues one GET
// per query and parses the markup with goquery. Result links are usually
// wrapped in a /ck/a tracking redirect carrying the real target as URL-safe
// base64; those are unwrapped locally without an extra request.
package bing

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/nostalgiatan/see/config"
	"github.com/nostalgiatan/see/engine"
	"github.com/nostalgiatan/see/extract"
	"github.com/nostalgiatan/see/models"
)

const (
	baseURL        = "https://www.bing.com/search"
	redirectPrefix = "https://www.bing.com/ck/a?"

	// noResultsMarker appears verbatim on the empty result page, which is
	// otherwise full of suggestion markup that must not be parsed as hits.
	noResultsMarker = "There are no results"
)

// timeRanges maps query time filters to Bing's ez filter codes.
var timeRanges = map[string]string{
	"day":   "1",
	"week":  "2",
	"month": "3",
	"year":  "4",
}

// cookieHeader pins the market and UI language so Bing stops guessing a
// locale from the exit IP and the selectors stay stable.
const cookieHeader = "_EDGE_CD=m=us&u=en; _EDGE_S=mkt=us&ui=en"

// Engine fetches and parses Bing result pages. It holds no per-query state,
// so one instance may serve concurrent searches.
type Engine struct {
	client *engine.Client
	cfg    config.SearchConfig
	log    *slog.Logger
}

// New builds a Bing engine on the shared HTTP client.
func New(client *engine.Client, cfg config.SearchConfig) *Engine {
	return &Engine{
		client: client,
		cfg:    cfg,
		log:    slog.With("engine", "bing"),
	}
}

func (e *Engine) Info() engine.Info {
	return engine.Info{
		Name:         "bing",
		Type:         "http",
		Description:  "Microsoft Bing web search, parsed from server-rendered result pages",
		Categories:   []string{"general", "web"},
		Capabilities: []string{"pagination", "time-range"},
		Timeout:      e.cfg.Timeout,
	}
}

// Search runs one query against Bing and returns the parsed records.
func (e *Engine) Search(ctx context.Context, q models.SearchQuery) (*models.SearchResponse, error) {
	start := time.Now()
	maxResults := q.MaxResults
	if maxResults <= 0 {
		maxResults = e.cfg.DefaultMaxResults
	}

	page, err := e.client.Fetch(ctx, searchURL(q), map[string]string{
		"Cookie": cookieHeader,
	})
	if err != nil {
		return nil, err
	}

	items := parseResults(page.HTML, maxResults)
	e.log.Info("search finished",
		"query", q.Query,
		"results", len(items),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return models.NewSearchResponse("bing", items, time.Since(start)), nil
}

// Callback exposes the engine through the loosely typed callback shape.
func (e *Engine) Callback() engine.Callback {
	return engine.NewCallback(e, 0)
}

// searchURL builds the result page URL for one query. pq repeats the query
// so paginated requests stay tied to the original one, and FORM tells Bing
// which pager control the request pretends to come from.
func searchURL(q models.SearchQuery) string {
	page := q.Page
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("q", q.Query)
	params.Set("pq", q.Query)
	if page > 1 {
		params.Set("first", strconv.Itoa((page-1)*10+1))
		params.Set("FORM", pageForm(page))
	}
	if code, ok := timeRanges[q.TimeRange]; ok {
		params.Set("filters", `ex1:"ez`+code+`"`)
	}
	return baseURL + "?" + params.Encode()
}

// pageForm returns the pager form code: PERE for page two, then PERE1,
// PERE2 and so on.
func pageForm(page int) string {
	switch {
	case page == 2:
		return "PERE"
	case page > 2:
		return "PERE" + strconv.Itoa(page-2)
	}
	return ""
}

// parseResults extracts result records from one Bing result page. Organic
// hits are the li.b_algo children of ol#b_results; ads and answer blocks
// use other classes and are skipped by the selector.
func parseResults(html string, maxResults int) []models.SearchResultItem {
	items := []models.SearchResultItem{}
	if html == "" || strings.Contains(html, noResultsMarker) {
		return items
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return items
	}

	seen := extract.NewValidator(1, 0, []string{})
	doc.Find("ol#b_results > li.b_algo").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		link := card.Find("h2 > a").First()
		if link.Length() == 0 {
			return true
		}

		title := strings.Join(strings.Fields(link.Text()), " ")
		href, _ := link.Attr("href")
		href = decodeRedirect(href)
		if title == "" || !strings.HasPrefix(href, "http") {
			return true
		}
		if !seen.Admit(title, href) {
			return true
		}

		snippet := snippetFrom(card)
		items = append(items, models.SearchResultItem{
			Title:   title,
			URL:     href,
			Content: snippet,
			Snippet: snippet,
			Score:   1.0,
		})
		return len(items) < maxResults
	})
	return items
}

// decodeRedirect unwraps Bing's /ck/a tracking links. The real target sits
// in the u parameter as URL-safe base64 behind a two-character version tag
// (currently a1), with the padding stripped. Anything that does not decode
// cleanly is returned as-is.
func decodeRedirect(href string) string {
	if !strings.HasPrefix(href, redirectPrefix) {
		return href
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}
	wrapped := parsed.Query().Get("u")
	if len(wrapped) <= 2 {
		return href
	}
	decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(wrapped[2:], "="))
	if err != nil || !utf8.Valid(decoded) {
		return href
	}
	return string(decoded)
}

// snippetFrom reads the card's summary text, preferring the caption block.
// Bare "Web" paragraphs are tab labels, not content.
func snippetFrom(card *goquery.Selection) string {
	paras := card.Find("div.b_caption p")
	if paras.Length() == 0 {
		paras = card.Find("p")
	}

	var raw string
	paras.EachWithBreak(func(_ int, p *goquery.Selection) bool {
		text := strings.TrimSpace(p.Text())
		if text != "" && text != "Web" {
			raw = text
			return false
		}
		return true
	})
	return extract.Snippet(extract.Normalize(raw), 0)
}
