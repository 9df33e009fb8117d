package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/nostalgiatan/see/dom"
)

// Snippet and ancestor-walk bounds.
const (
	MaxSnippetChars   = 300
	ancestorLevels    = 3
	titleFallbackMax  = 50
	minSnippetLineLen = 10
)

// Strategies holds the ordered, role-specific selector lists for one target
// site. Lists are tried strictly in order; the first hit wins. Never mutated
// after construction.
type Strategies struct {
	// SearchInput locates the query input box. Interactive: candidates
	// must be visible.
	SearchInput []string

	// Results locates result-record containers.
	Results []string

	// Titles locates the title inside a result container.
	Titles []string

	// URLs locates link carriers inside or around a result container.
	URLs []string
}

// FirstMatch returns the first element matched by the selector list, in
// list order. When requireVisible is set, invisible candidates are passed
// over. Selection is deterministic for an unchanged DOM: same list, same
// document, same element. Returns nil when nothing matches.
func FirstMatch(root dom.Root, selectors []string, requireVisible bool) (dom.Element, string) {
	for _, sel := range selectors {
		els, err := root.QueryAll(sel)
		if err != nil || len(els) == 0 {
			continue
		}
		if !requireVisible {
			return els[0], sel
		}
		for _, el := range els {
			visible, err := el.Visible()
			if err != nil {
				continue
			}
			if visible {
				return el, sel
			}
		}
	}
	return nil, ""
}

// TitleFrom extracts a record title: the first title-selector hit with
// non-empty text wins, the first line of the cleaned body text is the
// fallback, then its leading runes.
func TitleFrom(el dom.Element, titleSelectors []string, cleaned string) string {
	for _, sel := range titleSelectors {
		matches, err := el.QueryAll(sel)
		if err != nil || len(matches) == 0 {
			continue
		}
		text, err := matches[0].Text()
		if err != nil {
			continue
		}
		if t := strings.TrimSpace(text); t != "" {
			return t
		}
	}

	if cleaned == "" {
		return ""
	}
	for _, line := range strings.Split(strings.TrimSpace(cleaned), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return truncateRunes(cleaned, titleFallbackMax)
}

// URLFrom hunts for a usable absolute URL, walking from the element through
// up to 3 node levels (self, parent, grandparent). Result cards are often
// wrapped in non-anchor containers, so each level checks the node itself and
// then its link-carrying descendants. Empty means the record has no URL.
func URLFrom(el dom.Element, urlSelectors []string) string {
	current := el
	for level := 0; level < ancestorLevels && current != nil; level++ {
		if tag, err := current.Tag(); err == nil && tag == "a" {
			if href := linkAttr(current); href != "" {
				return href
			}
		}

		for _, sel := range urlSelectors {
			matches, err := current.QueryAll(sel)
			if err != nil || len(matches) == 0 {
				continue
			}
			if href := linkAttr(matches[0]); href != "" {
				return href
			}
		}

		parent, err := current.Parent()
		if err != nil {
			break
		}
		current = parent
	}
	return ""
}

// linkAttr reads href first and data-url second, accepting only absolute
// http(s) values.
func linkAttr(el dom.Element) string {
	if href, err := el.Attribute("href"); err == nil && strings.HasPrefix(href, "http") {
		return href
	}
	if du, err := el.Attribute("data-url"); err == nil && strings.HasPrefix(du, "http") {
		return du
	}
	return ""
}

// Snippet builds a bounded excerpt from cleaned text: lines longer than 10
// runes are joined until the budget is exceeded, then the result is cut at
// a word boundary with an ellipsis.
func Snippet(cleaned string, maxChars int) string {
	if cleaned == "" {
		return ""
	}
	if maxChars <= 0 {
		maxChars = MaxSnippetChars
	}

	var picked []string
	total := 0
	for _, line := range strings.Split(cleaned, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || utf8.RuneCountInString(line) <= minSnippetLineLen {
			continue
		}
		picked = append(picked, line)
		total += utf8.RuneCountInString(line)
		if total+len(picked)-1 > maxChars {
			break
		}
	}

	snippet := strings.Join(picked, "\n")
	if utf8.RuneCountInString(snippet) > maxChars {
		runes := []rune(snippet)[:maxChars]
		if i := lastIndexRune(runes, ' '); i > 0 {
			runes = runes[:i]
		}
		snippet = string(runes) + "..."
	}
	return snippet
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func lastIndexRune(runes []rune, r rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == r {
			return i
		}
	}
	return -1
}
