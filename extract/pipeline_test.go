package extract

import (
	"context"
	"testing"
	"time"
)

var testStrategies = Strategies{
	Results: []string{".primary-results .card", "div.card"},
	Titles:  []string{"h3", "[class*='title']", "strong"},
	URLs:    []string{"a", "[href]", "[data-url]"},
}

// threeCardsDoc has one valid card with a URL, one navigation card without
// a URL, and another valid card with a URL.
const threeCardsDoc = `<html><body><div class="results">
<div class="card">
	<h3>Quantum computing milestone reached in lab</h3>
	<a href="https://example.com/quantum">source</a>
	<p>Researchers demonstrated a new error correction scheme for quantum hardware today.</p>
</div>
<div class="card">
	<h3>首页</h3>
	<p>Assorted navigation filler content lives inside this block element.</p>
</div>
<div class="card">
	<h3>Machine learning systems in production</h3>
	<a href="https://example.com/ml">source</a>
	<p>Deploying models reliably requires monitoring, rollback plans and drift detection.</p>
</div>
</div></body></html>`

func instantSleep(calls *[]time.Duration) WaitFunc {
	return func(ctx context.Context, d time.Duration) error {
		*calls = append(*calls, d)
		return ctx.Err()
	}
}

func newTestPipeline(t *testing.T, calls *[]time.Duration) *Pipeline {
	t.Helper()
	return NewPipeline(Config{
		Strategies: testStrategies,
		Sleep:      instantSleep(calls),
	}, nil)
}

func TestPipeline_ThreeCardScenario(t *testing.T) {
	var calls []time.Duration
	p := newTestPipeline(t, &calls)
	root := mustParse(t, threeCardsDoc)

	items := p.Run(context.Background(), root, nil, 10, DefaultWaitTimes)

	if len(items) != 2 {
		t.Fatalf("expected exactly 2 accepted items, got %d: %+v", len(items), items)
	}
	if items[0].Title != "Quantum computing milestone reached in lab" {
		t.Errorf("first title = %q", items[0].Title)
	}
	if items[1].Title != "Machine learning systems in production" {
		t.Errorf("second title = %q", items[1].Title)
	}
	if items[0].URL != "https://example.com/quantum" || items[1].URL != "https://example.com/ml" {
		t.Errorf("urls = %q, %q", items[0].URL, items[1].URL)
	}
	for _, it := range items {
		if it.Snippet == "" || it.Content != it.Snippet {
			t.Errorf("item %q: content/snippet mismatch: %q vs %q", it.Title, it.Content, it.Snippet)
		}
		if it.Score != 1.0 {
			t.Errorf("item %q: score = %v, want 1.0", it.Title, it.Score)
		}
	}
}

func TestPipeline_WaitLadderEarlyExit(t *testing.T) {
	var calls []time.Duration
	p := newTestPipeline(t, &calls)
	root := mustParse(t, threeCardsDoc)

	waits := []time.Duration{2 * time.Second, 3 * time.Second, 5 * time.Second}
	items := p.Run(context.Background(), root, nil, 10, waits)

	if len(items) == 0 {
		t.Fatal("expected results")
	}
	if len(calls) != 1 {
		t.Fatalf("expected a single wait stage, got %d: %v", len(calls), calls)
	}
	if calls[0] != 2*time.Second {
		t.Errorf("first stage = %v, want 2s", calls[0])
	}
}

func TestPipeline_ExhaustsLadderOnEmptyPage(t *testing.T) {
	var calls []time.Duration
	p := newTestPipeline(t, &calls)
	root := mustParse(t, `<html><body><p>nothing to see</p></body></html>`)

	waits := []time.Duration{2 * time.Second, 3 * time.Second, 5 * time.Second}
	items := p.Run(context.Background(), root, nil, 10, waits)

	if items == nil {
		t.Fatal("result slice must not be nil")
	}
	if len(items) != 0 {
		t.Fatalf("expected no items, got %d", len(items))
	}
	if len(calls) != 3 {
		t.Errorf("expected all 3 wait stages, got %d: %v", len(calls), calls)
	}
}

func TestPipeline_URLUniquenessWithinRun(t *testing.T) {
	const doc = `<html><body>
	<div class="card"><h3>Original coverage of the story</h3><a href="https://example.com/same">x</a><p>First body text that is long enough to pass the element threshold.</p></div>
	<div class="card"><h3>Syndicated copy of the story</h3><a href="https://example.com/same">x</a><p>Second body text that is also long enough to pass the threshold.</p></div>
	</body></html>`

	var calls []time.Duration
	p := newTestPipeline(t, &calls)
	items := p.Run(context.Background(), mustParse(t, doc), nil, 10, nil)

	if len(items) != 1 {
		t.Fatalf("expected 1 item after URL dedup, got %d", len(items))
	}
	seen := map[string]bool{}
	for _, it := range items {
		if it.URL != "" && seen[it.URL] {
			t.Fatalf("duplicate URL emitted: %s", it.URL)
		}
		seen[it.URL] = true
	}
}

func TestPipeline_TitleHashDedupForURLLessCards(t *testing.T) {
	const doc = `<html><body>
	<div class="card"><h3>Identical headline for both cards</h3><p>First variant of the body content, long enough to matter.</p></div>
	<div class="card"><h3>Identical headline for both cards</h3><p>Second variant of the body content, also long enough.</p></div>
	</body></html>`

	var calls []time.Duration
	p := newTestPipeline(t, &calls)
	items := p.Run(context.Background(), mustParse(t, doc), nil, 10, nil)

	if len(items) != 1 {
		t.Fatalf("expected 1 item after title-hash dedup, got %d", len(items))
	}
	if items[0].URL != "" {
		t.Fatalf("fixture cards should be URL-less, got %q", items[0].URL)
	}
}

func TestPipeline_MaxResultsCap(t *testing.T) {
	doc := `<html><body>`
	for i := 0; i < 8; i++ {
		doc += `<div class="card"><h3>Distinct headline number ` + string(rune('A'+i)) + ` here</h3><a href="https://example.com/` + string(rune('a'+i)) + `">x</a><p>Body content long enough to pass the minimum element threshold.</p></div>`
	}
	doc += `</body></html>`

	var calls []time.Duration
	p := newTestPipeline(t, &calls)
	items := p.Run(context.Background(), mustParse(t, doc), nil, 3, nil)

	if len(items) != 3 {
		t.Fatalf("expected 3 items with maxResults=3, got %d", len(items))
	}
}

func TestPipeline_SelectorOrderEarlyExit(t *testing.T) {
	// Both selector strategies match, but the first one in the list must
	// win and the second never contribute.
	const doc = `<html><body>
	<div class="primary-results">
		<div class="card"><h3>Primary strategy result headline</h3><a href="https://example.com/p">x</a><p>Primary container body text long enough to extract.</p></div>
	</div>
	<div class="card"><h3>Stray secondary result headline</h3><a href="https://example.com/s">x</a><p>Secondary container body text long enough to extract.</p></div>
	</body></html>`

	var calls []time.Duration
	p := newTestPipeline(t, &calls)
	items := p.Run(context.Background(), mustParse(t, doc), nil, 10, nil)

	if len(items) != 1 {
		t.Fatalf("expected only the primary strategy's item, got %d", len(items))
	}
	if items[0].URL != "https://example.com/p" {
		t.Errorf("item URL = %q, want the primary container's", items[0].URL)
	}
}

func TestPipeline_SessionScopedDedupAcrossRuns(t *testing.T) {
	var calls []time.Duration
	p := newTestPipeline(t, &calls)
	root := mustParse(t, threeCardsDoc)

	v := p.NewValidator()
	first := p.Run(context.Background(), root, v, 10, nil)
	second := p.Run(context.Background(), root, v, 10, nil)

	if len(first) != 2 {
		t.Fatalf("first run: expected 2 items, got %d", len(first))
	}
	if len(second) != 0 {
		t.Errorf("second run with the same session dedup state should re-emit nothing, got %d", len(second))
	}
}

func TestPipeline_DeterministicAcrossFreshSessions(t *testing.T) {
	var calls []time.Duration
	p := newTestPipeline(t, &calls)

	run := func() []string {
		root := mustParse(t, threeCardsDoc)
		items := p.Run(context.Background(), root, p.NewValidator(), 10, nil)
		keys := make([]string, 0, len(items))
		for _, it := range items {
			keys = append(keys, it.Title+"|"+it.URL)
		}
		return keys
	}

	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("run sizes differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("run output differs at %d: %q vs %q", i, a[i], b[i])
		}
	}
}

func TestPipeline_CancelledContextStopsLadder(t *testing.T) {
	var calls []time.Duration
	p := newTestPipeline(t, &calls)
	root := mustParse(t, `<html><body></body></html>`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := p.Run(ctx, root, nil, 10, DefaultWaitTimes)
	if len(items) != 0 {
		t.Fatalf("expected no items, got %d", len(items))
	}
	if len(calls) > 1 {
		t.Errorf("cancelled context should stop after the first wait call, got %d", len(calls))
	}
}

func TestPipeline_SkipsThinElements(t *testing.T) {
	// The second card's text is under the 10-rune threshold.
	const doc = `<html><body>
	<div class="card"><h3>Meaningful result headline text</h3><a href="https://example.com/full">x</a><p>Substantial body content for the extractor to work with.</p></div>
	<div class="card">thin</div>
	</body></html>`

	var calls []time.Duration
	p := newTestPipeline(t, &calls)
	items := p.Run(context.Background(), mustParse(t, doc), nil, 10, nil)

	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
}
