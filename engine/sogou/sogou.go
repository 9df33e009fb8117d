// Package sogou implements the Sogou web search engine over plain HTTP.
//
// Sogou serves server-rendered result pages, so no browser is involved: the
// engine issues one GET per query and parses the returned markup with
// goquery. Redirect-wrapped result links (/link?url=...) are kept as
// absolute URLs against the Sogou origin instead of being followed.
package sogou

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/nostalgiatan/see/config"
	"github.com/nostalgiatan/see/engine"
	"github.com/nostalgiatan/see/extract"
	"github.com/nostalgiatan/see/models"
)

const (
	origin  = "https://www.sogou.com"
	baseURL = origin + "/web"
)

// timeRanges maps query time filters to Sogou's s_from parameter values.
// Filters outside this table are ignored rather than rejected.
var timeRanges = map[string]string{
	"day":   "inttime_day",
	"week":  "inttime_week",
	"month": "inttime_month",
	"year":  "inttime_year",
}

// Engine fetches and parses Sogou result pages. It holds no per-query
// state, so one instance may serve concurrent searches.
type Engine struct {
	client *engine.Client
	cfg    config.SearchConfig
	log    *slog.Logger
}

// New builds a Sogou engine on the shared HTTP client.
func New(client *engine.Client, cfg config.SearchConfig) *Engine {
	return &Engine{
		client: client,
		cfg:    cfg,
		log:    slog.With("engine", "sogou"),
	}
}

func (e *Engine) Info() engine.Info {
	return engine.Info{
		Name:         "sogou",
		Type:         "http",
		Description:  "Sogou web search, parsed from server-rendered result pages",
		Categories:   []string{"general", "zh"},
		Capabilities: []string{"pagination", "time-range"},
		Timeout:      e.cfg.Timeout,
	}
}

// Search runs one query against Sogou and returns the parsed records.
func (e *Engine) Search(ctx context.Context, q models.SearchQuery) (*models.SearchResponse, error) {
	start := time.Now()
	maxResults := q.MaxResults
	if maxResults <= 0 {
		maxResults = e.cfg.DefaultMaxResults
	}

	page, err := e.client.Fetch(ctx, searchURL(q), nil)
	if err != nil {
		return nil, err
	}

	items := parseResults(page.HTML, maxResults)
	e.log.Info("search finished",
		"query", q.Query,
		"results", len(items),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return models.NewSearchResponse("sogou", items, time.Since(start)), nil
}

// Callback exposes the engine through the loosely typed callback shape.
func (e *Engine) Callback() engine.Callback {
	return engine.NewCallback(e, 0)
}

// searchURL builds the result page URL for one query.
func searchURL(q models.SearchQuery) string {
	page := q.Page
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("query", q.Query)
	params.Set("page", strconv.Itoa(page))
	if from, ok := timeRanges[q.TimeRange]; ok {
		params.Set("s_from", from)
		params.Set("tsn", "1")
	}
	return baseURL + "?" + params.Encode()
}

// parseResults extracts result records from one Sogou result page. Cards
// live under div.vrwrap on the current layout and div.rb on the older one;
// a card without a linked heading is decoration, not a result.
func parseResults(html string, maxResults int) []models.SearchResultItem {
	items := []models.SearchResultItem{}
	if html == "" {
		return items
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return items
	}

	seen := extract.NewValidator(1, 0, []string{})
	doc.Find("div.vrwrap, div.rb").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		link := card.Find("h3.vr-title a").First()
		if link.Length() == 0 {
			link = card.Find("h3 a").First()
		}
		if link.Length() == 0 {
			return true
		}

		title := strings.Join(strings.Fields(link.Text()), " ")
		href, _ := link.Attr("href")
		href = resolveHref(href)
		if title == "" || href == "" {
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

// resolveHref turns a result link into an absolute URL. Sogou wraps most
// targets in a /link?url= redirect that still resolves when requested
// against the origin, so it is kept rather than dropped.
func resolveHref(href string) string {
	switch {
	case href == "":
		return ""
	case strings.HasPrefix(href, "/link?url="):
		return origin + href
	case strings.HasPrefix(href, "//"):
		return "https:" + href
	case strings.HasPrefix(href, "http"):
		return href
	}
	return ""
}

// snippetFrom reads the card's summary text. The wiki-style layout carries
// it in p.star-wiki, the plain layout in div.fz-mid.space-txt.
func snippetFrom(card *goquery.Selection) string {
	text := strings.TrimSpace(card.Find("div.text-layout p.star-wiki").First().Text())
	if text == "" {
		text = strings.TrimSpace(card.Find("div.fz-mid.space-txt").First().Text())
	}
	return extract.Snippet(extract.Normalize(text), 0)
}
