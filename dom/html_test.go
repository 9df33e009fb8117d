package dom

import (
	"strings"
	"testing"
)

const fixtureDoc = `<html><body>
<div class="results">
	<div class="card"><h3 class="title">First result</h3><a href="https://example.com/1">link</a><p>Some snippet text here.</p></div>
	<div class="card"><h3 class="title">Second result</h3><a href="https://example.com/2">link</a></div>
	<div class="card" style="display: none"><h3>Hidden result</h3></div>
</div>
<input type="text" placeholder="搜索" class="search-input">
<script>var tracker = 1; console.log(tracker);</script>
</body></html>`

func TestParseString_QueryAll(t *testing.T) {
	root, err := ParseString(fixtureDoc)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}

	cards, err := root.QueryAll("div.card")
	if err != nil {
		t.Fatalf("QueryAll failed: %v", err)
	}
	if len(cards) != 3 {
		t.Fatalf("expected 3 cards, got %d", len(cards))
	}

	titles, err := cards[0].QueryAll("h3")
	if err != nil {
		t.Fatalf("scoped QueryAll failed: %v", err)
	}
	if len(titles) != 1 {
		t.Fatalf("expected 1 title in first card, got %d", len(titles))
	}
	text, _ := titles[0].Text()
	if strings.TrimSpace(text) != "First result" {
		t.Errorf("title text = %q, want %q", text, "First result")
	}
}

func TestQueryAll_NoMatchIsEmptyNotError(t *testing.T) {
	root, err := ParseString(`<html><body><p>hi</p></body></html>`)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}
	got, err := root.QueryAll(".does-not-exist")
	if err != nil {
		t.Fatalf("QueryAll returned error for no match: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty result, got %d elements", len(got))
	}
}

func TestQueryAll_BadSelector(t *testing.T) {
	root, _ := ParseString(`<html><body></body></html>`)
	if _, err := root.QueryAll("[[["); err == nil {
		t.Error("expected error for malformed selector")
	}
}

func TestText_IncludesScriptContent(t *testing.T) {
	root, _ := ParseString(fixtureDoc)
	body, err := root.QueryAll("body")
	if err != nil || len(body) != 1 {
		t.Fatalf("body query failed: %v (%d)", err, len(body))
	}
	text, err := body[0].Text()
	if err != nil {
		t.Fatalf("Text failed: %v", err)
	}
	if !strings.Contains(text, "var tracker = 1;") {
		t.Error("textContent semantics should include script bodies")
	}
	if !strings.Contains(text, "First result") {
		t.Error("text should include visible content")
	}
}

func TestAttribute(t *testing.T) {
	root, _ := ParseString(fixtureDoc)
	links, _ := root.QueryAll("a")
	if len(links) == 0 {
		t.Fatal("no links found")
	}

	href, err := links[0].Attribute("href")
	if err != nil {
		t.Fatalf("Attribute failed: %v", err)
	}
	if href != "https://example.com/1" {
		t.Errorf("href = %q, want %q", href, "https://example.com/1")
	}

	missing, err := links[0].Attribute("data-url")
	if err != nil {
		t.Fatalf("Attribute failed: %v", err)
	}
	if missing != "" {
		t.Errorf("absent attribute should be empty, got %q", missing)
	}
}

func TestVisible(t *testing.T) {
	tests := []struct {
		name    string
		html    string
		sel     string
		visible bool
	}{
		{"plain element", `<div><p id="x">hi</p></div>`, "#x", true},
		{"display none", `<div><p id="x" style="display: none">hi</p></div>`, "#x", false},
		{"visibility hidden", `<div><p id="x" style="visibility:hidden">hi</p></div>`, "#x", false},
		{"hidden attribute", `<div><p id="x" hidden>hi</p></div>`, "#x", false},
		{"hidden input", `<form><input id="x" type="hidden"></form>`, "#x", false},
		{"aria hidden", `<div><span id="x" aria-hidden="true">hi</span></div>`, "#x", false},
		{"text input", `<form><input id="x" type="text"></form>`, "#x", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := ParseString(tt.html)
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			els, err := root.QueryAll(tt.sel)
			if err != nil || len(els) != 1 {
				t.Fatalf("selector %q matched %d elements (err %v)", tt.sel, len(els), err)
			}
			got, err := els[0].Visible()
			if err != nil {
				t.Fatalf("Visible failed: %v", err)
			}
			if got != tt.visible {
				t.Errorf("Visible() = %v, want %v", got, tt.visible)
			}
		})
	}
}

func TestParentAndTag(t *testing.T) {
	root, _ := ParseString(`<html><body><div class="outer"><span><a id="x" href="https://example.com">t</a></span></div></body></html>`)
	els, _ := root.QueryAll("#x")
	if len(els) != 1 {
		t.Fatalf("expected anchor, got %d elements", len(els))
	}

	tag, _ := els[0].Tag()
	if tag != "a" {
		t.Errorf("Tag() = %q, want %q", tag, "a")
	}

	parent, err := els[0].Parent()
	if err != nil || parent == nil {
		t.Fatalf("Parent failed: %v", err)
	}
	if tag, _ := parent.Tag(); tag != "span" {
		t.Errorf("parent tag = %q, want %q", tag, "span")
	}

	grand, _ := parent.Parent()
	if grand == nil {
		t.Fatal("expected grandparent")
	}
	if tag, _ := grand.Tag(); tag != "div" {
		t.Errorf("grandparent tag = %q, want %q", tag, "div")
	}
}

func TestParent_StopsAtRoot(t *testing.T) {
	root, _ := ParseString(`<html><body></body></html>`)
	els, _ := root.QueryAll("html")
	if len(els) != 1 {
		t.Fatalf("expected html element, got %d", len(els))
	}
	parent, err := els[0].Parent()
	if err != nil {
		t.Fatalf("Parent failed: %v", err)
	}
	if parent != nil {
		t.Error("html element should have no element parent")
	}
}
