package extract

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nostalgiatan/see/dom"
	"github.com/nostalgiatan/see/models"
)

// minElementRunes skips result candidates whose raw text is too short to be
// a record.
const minElementRunes = 10

// Config is the immutable per-site extraction configuration.
type Config struct {
	Strategies  Strategies
	NavKeywords []string

	MinTitleRunes   int
	MaxTitleRunes   int
	MaxSnippetChars int
	MinElementRunes int

	// Sleep paces the render-wait ladder; nil means real sleeping.
	Sleep WaitFunc
}

// Pipeline runs the staged extraction loop: wait stage × result selector ×
// element × validation, with early exit at every level. It never fails hard:
// an exhausted run yields an empty result list.
type Pipeline struct {
	cfg   Config
	sleep WaitFunc
	log   *slog.Logger
}

// NewPipeline builds a pipeline. Zero thresholds fall back to defaults.
func NewPipeline(cfg Config, log *slog.Logger) *Pipeline {
	if cfg.MinTitleRunes <= 0 {
		cfg.MinTitleRunes = MinTitleRunes
	}
	if cfg.MaxTitleRunes <= 0 {
		cfg.MaxTitleRunes = MaxTitleRunes
	}
	if cfg.MaxSnippetChars <= 0 {
		cfg.MaxSnippetChars = MaxSnippetChars
	}
	if cfg.MinElementRunes <= 0 {
		cfg.MinElementRunes = minElementRunes
	}
	sleep := cfg.Sleep
	if sleep == nil {
		sleep = Sleep
	}
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{cfg: cfg, sleep: sleep, log: log}
}

// NewValidator builds a validator wired to this pipeline's bounds and
// keyword blocklist. The caller owns the returned dedup state and hands it
// back into Run, which ties dedup lifetime to the engine session rather
// than a single run.
func (p *Pipeline) NewValidator() *Validator {
	return NewValidator(p.cfg.MinTitleRunes, p.cfg.MaxTitleRunes, p.cfg.NavKeywords)
}

// Run extracts up to maxResults validated records from root. Each wait
// stage sleeps, then probes every result selector in order; the first
// selector yielding accepted records ends the run. Element-level failures
// skip that element only. The returned slice is never nil.
func (p *Pipeline) Run(ctx context.Context, root dom.Root, v *Validator, maxResults int, waits []time.Duration) []models.SearchResultItem {
	if maxResults <= 0 {
		maxResults = 10
	}
	if len(waits) == 0 {
		waits = DefaultWaitTimes
	}
	if v == nil {
		v = p.NewValidator()
	}

	var results []models.SearchResultItem
	for i, d := range waits {
		if err := p.sleep(ctx, d); err != nil {
			p.log.Debug("extraction wait aborted", "stage", i, "error", err)
			break
		}
		results = p.scan(ctx, root, v, maxResults)
		if len(results) > 0 {
			p.log.Debug("extraction succeeded", "stage", i, "results", len(results))
			break
		}
	}

	if results == nil {
		results = []models.SearchResultItem{}
	}
	return results
}

// scan is one extraction pass over the current DOM state.
func (p *Pipeline) scan(ctx context.Context, root dom.Root, v *Validator, maxResults int) []models.SearchResultItem {
	for _, sel := range p.cfg.Strategies.Results {
		if ctx.Err() != nil {
			return nil
		}

		els, err := root.QueryAll(sel)
		if err != nil {
			p.log.Debug("result selector failed", "selector", sel, "error", err)
			continue
		}
		if len(els) == 0 {
			continue
		}
		if len(els) > maxResults {
			els = els[:maxResults]
		}

		var results []models.SearchResultItem
		for _, el := range els {
			if ctx.Err() != nil {
				return results
			}
			item, ok := p.extractOne(el)
			if !ok {
				continue
			}
			if !v.Admit(item.Title, item.URL) {
				continue
			}
			results = append(results, item)
			if len(results) >= maxResults {
				break
			}
		}

		if len(results) > 0 {
			p.log.Debug("result selector yielded records", "selector", sel, "results", len(results))
			return results
		}
	}
	return nil
}

// extractOne turns a single candidate element into a record. Any failure
// along the way drops the element, never the pass.
func (p *Pipeline) extractOne(el dom.Element) (models.SearchResultItem, bool) {
	text, err := el.Text()
	if err != nil {
		p.log.Debug("element text unavailable", "error", err)
		return models.SearchResultItem{}, false
	}
	if utf8.RuneCountInString(strings.TrimSpace(text)) < p.cfg.MinElementRunes {
		return models.SearchResultItem{}, false
	}

	cleaned := Normalize(text)
	if cleaned == "" {
		return models.SearchResultItem{}, false
	}

	title := TitleFrom(el, p.cfg.Strategies.Titles, cleaned)
	url := URLFrom(el, p.cfg.Strategies.URLs)
	snippet := Snippet(cleaned, p.cfg.MaxSnippetChars)

	return models.SearchResultItem{
		Title:   title,
		URL:     url,
		Content: snippet,
		Snippet: snippet,
		Score:   1.0,
	}, true
}
