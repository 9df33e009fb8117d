package content

import (
	"strings"
	"testing"
)

const articlePage = `<!DOCTYPE html>
<html><head><title>Falcon 9 launch recap</title>
<style>body { color: red; }</style>
<script>var tracker = "noise";</script>
</head>
<body>
<nav><a href="/">Start</a><a href="/news">News</a></nav>
<article>
<h1>Falcon 9 completes another launch</h1>
<p>The rocket lifted off at dawn carrying sixty satellites into low orbit, marking the ninetieth flight of the booster family this year.</p>
<p>Recovery crews confirmed the first stage landed on the drone ship eight minutes after liftoff, ready for refurbishment and another mission.</p>
</article>
<footer>Copyright 2026</footer>
</body></html>`

const sourceURL = "https://news.example.com/falcon9"

func TestFromHTMLMarkdown(t *testing.T) {
	e := NewExtractor(nil)

	resp, err := e.FromHTML(articlePage, sourceURL, "markdown")
	if err != nil {
		t.Fatalf("FromHTML failed: %v", err)
	}

	if !resp.Success {
		t.Error("expected success")
	}
	if resp.Title == "" {
		t.Error("expected a title from readability")
	}
	if !strings.Contains(resp.Content, "rocket lifted off") {
		t.Errorf("article text missing from markdown output: %q", resp.Content)
	}
	if strings.Contains(resp.Content, "var tracker") || strings.Contains(resp.Content, "color: red") {
		t.Error("script or style text leaked into the output")
	}
	if strings.Contains(resp.Content, "<p>") {
		t.Error("markdown output still contains HTML tags")
	}
	if resp.WordCount < 20 {
		t.Errorf("word count suspiciously low: %d", resp.WordCount)
	}
}

func TestFromHTMLText(t *testing.T) {
	e := NewExtractor(nil)

	resp, err := e.FromHTML(articlePage, sourceURL, "text")
	if err != nil {
		t.Fatalf("FromHTML failed: %v", err)
	}

	if !strings.Contains(resp.Content, "rocket lifted off") {
		t.Errorf("article text missing from text output: %q", resp.Content)
	}
	if strings.Contains(resp.Content, "<p>") || strings.Contains(resp.Content, "<article>") {
		t.Error("text output contains markup")
	}
}

func TestFromHTMLHTML(t *testing.T) {
	e := NewExtractor(nil)

	resp, err := e.FromHTML(articlePage, sourceURL, "html")
	if err != nil {
		t.Fatalf("FromHTML failed: %v", err)
	}

	if !strings.Contains(resp.Content, "rocket lifted off") {
		t.Errorf("article text missing from html output: %q", resp.Content)
	}
	if !strings.Contains(resp.Content, "<p") {
		t.Error("html output lost its markup")
	}
}

func TestFromHTMLShortPageFallsBack(t *testing.T) {
	e := NewExtractor(nil)

	resp, err := e.FromHTML("<html><body><p>tiny</p></body></html>", sourceURL, "text")
	if err != nil {
		t.Fatalf("FromHTML failed: %v", err)
	}

	if !resp.Success {
		t.Error("fallback must still report success")
	}
	if resp.Content != "tiny" {
		t.Errorf("expected flattened page text, got %q", resp.Content)
	}
	if resp.WordCount != 1 {
		t.Errorf("word count = %d, want 1", resp.WordCount)
	}
}

func TestStripNoise(t *testing.T) {
	stripped := stripNoise(articlePage)

	for _, gone := range []string{"var tracker", "color: red", ">Start<"} {
		if strings.Contains(stripped, gone) {
			t.Errorf("noise %q survived stripping", gone)
		}
	}
	if !strings.Contains(stripped, "rocket lifted off") {
		t.Error("article text removed by noise stripping")
	}
}
