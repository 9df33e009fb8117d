package extract

import (
	"strings"
	"testing"

	"github.com/nostalgiatan/see/dom"
)

func mustParse(t *testing.T, doc string) dom.Root {
	t.Helper()
	root, err := dom.ParseString(doc)
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return root
}

func TestFirstMatch_OrderWins(t *testing.T) {
	root := mustParse(t, `<html><body>
		<div class="secondary">beta</div>
		<div class="primary">alpha</div>
	</body></html>`)

	el, sel := FirstMatch(root, []string{".primary", ".secondary"}, false)
	if el == nil {
		t.Fatal("expected a match")
	}
	if sel != ".primary" {
		t.Errorf("matched selector = %q, want %q", sel, ".primary")
	}
	text, _ := el.Text()
	if strings.TrimSpace(text) != "alpha" {
		t.Errorf("matched element text = %q, want %q", text, "alpha")
	}
}

func TestFirstMatch_Deterministic(t *testing.T) {
	const doc = `<html><body>
		<div class="item">one</div>
		<div class="item">two</div>
		<div class="item">three</div>
	</body></html>`

	var texts []string
	for i := 0; i < 5; i++ {
		root := mustParse(t, doc)
		el, _ := FirstMatch(root, []string{".missing", ".item"}, false)
		if el == nil {
			t.Fatal("expected a match")
		}
		text, _ := el.Text()
		texts = append(texts, strings.TrimSpace(text))
	}
	for _, got := range texts {
		if got != "one" {
			t.Fatalf("selection not deterministic: %v", texts)
		}
	}
}

func TestFirstMatch_VisibilityForInteractiveRoles(t *testing.T) {
	root := mustParse(t, `<html><body>
		<input type="search" style="display:none" value="hidden-box">
		<textarea placeholder="搜索">visible-box</textarea>
	</body></html>`)

	selectors := []string{"input[type='search']", "textarea"}

	// Interactive lookup skips the hidden input and falls through to the
	// next selector.
	el, sel := FirstMatch(root, selectors, true)
	if el == nil {
		t.Fatal("expected a visible match")
	}
	if sel != "textarea" {
		t.Errorf("matched selector = %q, want %q", sel, "textarea")
	}

	// Non-interactive lookup takes the hidden input as-is.
	el, sel = FirstMatch(root, selectors, false)
	if el == nil || sel != "input[type='search']" {
		t.Errorf("non-interactive match = %q, want input[type='search']", sel)
	}
}

func TestFirstMatch_NothingFound(t *testing.T) {
	root := mustParse(t, `<html><body><p>content</p></body></html>`)
	el, sel := FirstMatch(root, []string{".a", ".b"}, false)
	if el != nil || sel != "" {
		t.Errorf("expected no match, got selector %q", sel)
	}
}

func TestTitleFrom_SelectorPriority(t *testing.T) {
	root := mustParse(t, `<html><body><div class="card">
		<h1>Top-level heading wins</h1>
		<h3>Lower heading loses</h3>
	</div></body></html>`)
	cards, _ := root.QueryAll(".card")

	got := TitleFrom(cards[0], []string{"h1", "h3"}, "fallback cleaned text")
	if got != "Top-level heading wins" {
		t.Errorf("TitleFrom = %q, want %q", got, "Top-level heading wins")
	}
}

func TestTitleFrom_SkipsEmptySelectorHit(t *testing.T) {
	root := mustParse(t, `<html><body><div class="card">
		<h1>   </h1>
		<strong>Strong text title</strong>
	</div></body></html>`)
	cards, _ := root.QueryAll(".card")

	got := TitleFrom(cards[0], []string{"h1", "strong"}, "")
	if got != "Strong text title" {
		t.Errorf("TitleFrom = %q, want %q", got, "Strong text title")
	}
}

func TestTitleFrom_FallsBackToFirstCleanedLine(t *testing.T) {
	root := mustParse(t, `<html><body><div class="card"><p>no headings here</p></div></body></html>`)
	cards, _ := root.QueryAll(".card")

	cleaned := "First cleaned line of text\nSecond cleaned line"
	got := TitleFrom(cards[0], []string{"h1", "h2"}, cleaned)
	if got != "First cleaned line of text" {
		t.Errorf("TitleFrom fallback = %q, want first cleaned line", got)
	}
}

func TestURLFrom_DirectAnchor(t *testing.T) {
	root := mustParse(t, `<html><body>
		<a class="hit" href="https://example.com/direct">anchor text</a>
	</body></html>`)
	els, _ := root.QueryAll(".hit")

	got := URLFrom(els[0], []string{"a", "[href]", "[data-url]"})
	if got != "https://example.com/direct" {
		t.Errorf("URLFrom = %q, want direct href", got)
	}
}

func TestURLFrom_DescendantAnchor(t *testing.T) {
	root := mustParse(t, `<html><body><div class="card">
		<h3>Some headline</h3>
		<span><a href="https://example.com/nested">read</a></span>
	</div></body></html>`)
	cards, _ := root.QueryAll(".card")

	got := URLFrom(cards[0], []string{"a", "[href]", "[data-url]"})
	if got != "https://example.com/nested" {
		t.Errorf("URLFrom = %q, want nested href", got)
	}
}

func TestURLFrom_AncestorWalk(t *testing.T) {
	// The anchor sits on the grandparent, two levels above the title node.
	root := mustParse(t, `<html><body>
		<a href="https://example.com/wrapped"><div class="wrap"><span class="leaf">deep text</span></div></a>
	</body></html>`)
	leaves, _ := root.QueryAll(".leaf")

	got := URLFrom(leaves[0], []string{"a", "[href]", "[data-url]"})
	if got != "https://example.com/wrapped" {
		t.Errorf("URLFrom = %q, want ancestor href", got)
	}
}

func TestURLFrom_StopsAfterThreeLevels(t *testing.T) {
	// Anchor is four levels up from the leaf: self, parent, grandparent
	// are all plain wrappers, so the walk must give up.
	root := mustParse(t, `<html><body>
		<a href="https://example.com/too-far"><div><div><div><span class="leaf">text</span></div></div></div></a>
	</body></html>`)
	leaves, _ := root.QueryAll(".leaf")

	if got := URLFrom(leaves[0], []string{"[data-url]"}); got != "" {
		t.Errorf("URLFrom = %q, want empty beyond 3 levels", got)
	}
}

func TestURLFrom_DataURLFallback(t *testing.T) {
	root := mustParse(t, `<html><body><div class="card">
		<div data-url="https://example.com/data">pseudo link</div>
	</div></body></html>`)
	cards, _ := root.QueryAll(".card")

	got := URLFrom(cards[0], []string{"a", "[href]", "[data-url]"})
	if got != "https://example.com/data" {
		t.Errorf("URLFrom = %q, want data-url value", got)
	}
}

func TestURLFrom_RejectsRelativeHrefs(t *testing.T) {
	root := mustParse(t, `<html><body><div class="card">
		<a href="/relative/path">relative</a>
	</div></body></html>`)
	cards, _ := root.QueryAll(".card")

	// A relative href is unusable; with nothing absolute in reach the
	// record is URL-less. The walk still runs its course upward.
	if got := URLFrom(cards[0], []string{"a"}); got != "" {
		t.Errorf("URLFrom = %q, want empty for relative href", got)
	}
}

func TestSnippet_SkipsShortLines(t *testing.T) {
	cleaned := "short one\nThis line is long enough to be a snippet\nok tiny"
	got := Snippet(cleaned, 300)
	if strings.Contains(got, "short one") || strings.Contains(got, "ok tiny") {
		t.Errorf("short lines leaked into snippet: %q", got)
	}
	if !strings.Contains(got, "long enough to be a snippet") {
		t.Errorf("snippet missing content: %q", got)
	}
}

func TestSnippet_TruncatesAtWordBoundary(t *testing.T) {
	long := strings.Repeat("word ", 80) // ~400 chars on one line
	got := Snippet(long, 300)

	if !strings.HasSuffix(got, "...") {
		t.Errorf("long snippet should end with ellipsis: %q", got)
	}
	body := strings.TrimSuffix(got, "...")
	if len([]rune(body)) > 300 {
		t.Errorf("snippet body exceeds budget: %d runes", len([]rune(body)))
	}
	if strings.HasSuffix(body, " ") {
		t.Errorf("truncation should cut at the word boundary, got trailing space: %q", body)
	}
}

func TestSnippet_Empty(t *testing.T) {
	if got := Snippet("", 300); got != "" {
		t.Errorf("Snippet(\"\") = %q, want empty", got)
	}
}
