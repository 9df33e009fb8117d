package extract

import (
	"hash/fnv"
	"strings"
	"unicode/utf8"
)

// Title length bounds in runes. Shorter titles are navigation debris,
// longer ones are header/footer text that leaked into a result card.
const (
	MinTitleRunes = 5
	MaxTitleRunes = 200
)

// DefaultNavigationKeywords flags titles that are site chrome rather than
// results. Matching is case-insensitive substring containment.
var DefaultNavigationKeywords = []string{
	"首页", "登录", "注册", "更多", "返回", "下一页", "上一页",
	"搜索", "设置", "菜单",
	"home", "login", "register", "more", "back", "next", "previous",
	"search", "settings", "menu",
}

// Validator filters candidate records and owns the dedup state. URLs and
// URL-less title hashes live in two separate sets; a record with a URL never
// touches the title set. The state spans the owning engine's session, so
// repeated extraction runs on one engine never re-emit a seen record.
type Validator struct {
	minTitle int
	maxTitle int
	keywords []string // lower-cased

	seenURLs   map[string]struct{}
	seenTitles map[uint64]struct{}
}

// NewValidator builds a validator with the given bounds and keyword
// blocklist. Zero bounds fall back to the defaults; a nil keyword list uses
// DefaultNavigationKeywords.
func NewValidator(minTitle, maxTitle int, keywords []string) *Validator {
	if minTitle <= 0 {
		minTitle = MinTitleRunes
	}
	if maxTitle <= 0 {
		maxTitle = MaxTitleRunes
	}
	if keywords == nil {
		keywords = DefaultNavigationKeywords
	}
	lowered := make([]string, len(keywords))
	for i, kw := range keywords {
		lowered[i] = strings.ToLower(kw)
	}
	return &Validator{
		minTitle:   minTitle,
		maxTitle:   maxTitle,
		keywords:   lowered,
		seenURLs:   make(map[string]struct{}),
		seenTitles: make(map[uint64]struct{}),
	}
}

// Admit reports whether the record passes validation, and on acceptance
// records its URL (or, when the URL is empty, its title hash) so duplicates
// are rejected afterwards. Rejection leaves the dedup state untouched.
func (v *Validator) Admit(title, url string) bool {
	trimmed := strings.TrimSpace(title)
	n := utf8.RuneCountInString(trimmed)
	if n < v.minTitle || n > v.maxTitle {
		return false
	}

	lower := strings.ToLower(trimmed)
	for _, kw := range v.keywords {
		if strings.Contains(lower, kw) {
			return false
		}
	}

	if url != "" {
		if _, dup := v.seenURLs[url]; dup {
			return false
		}
		v.seenURLs[url] = struct{}{}
		return true
	}

	h := titleHash(lower)
	if _, dup := v.seenTitles[h]; dup {
		return false
	}
	v.seenTitles[h] = struct{}{}
	return true
}

func titleHash(lowerTitle string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(lowerTitle))
	return h.Sum64()
}
