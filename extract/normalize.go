package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// minLineRunes drops trimmed lines at or below this length during cleanup.
const minLineRunes = 5

// noisePatterns are inline-script fragments that leak into textContent on
// JavaScript-rendered pages. Applied in declaration order, case-insensitive.
var noisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)window\._[^;]+;`),
	regexp.MustCompile(`(?i)Date\.now\(\)`),
	regexp.MustCompile(`(?i)window\.[^;]+;`),
	regexp.MustCompile(`C语言中文网`),
	regexp.MustCompile(`(?i)function\s+\w+\([^)]*\)\s*\{[^}]*\}`),
	regexp.MustCompile(`(?i)var\s+\w+\s*=`),
	regexp.MustCompile(`(?i)console\.[^(]+\([^)]*\);`),
	regexp.MustCompile(`(?i)try\s*\{[^}]*\}\s*catch\s*\([^)]*\)\s*\{[^}]*\}`),
	regexp.MustCompile(`(?i)var\s+\w+\s*=\s*[^;]+;`),
	regexp.MustCompile(`(?i)document\.[^;]+;`),
	regexp.MustCompile(`(?i)console\.[^;]+;`),
	regexp.MustCompile(`(?i)\.offset[^;]+;`),
	regexp.MustCompile(`(?i)\.client[^;]+;`),
	regexp.MustCompile(`(?i)\.scroll[^;]+;`),
	regexp.MustCompile(`(?i)function\s*\([^)]*\)\s*\{[^}]*\}`),
	regexp.MustCompile(`(?i)\{\s*[^}]*\}`),
	regexp.MustCompile(`(?i)tabs\.forEach[^;]+;`),
	regexp.MustCompile(`(?i)querySelector[^;]+;`),
	regexp.MustCompile(`(?i)dataset\.[^;]+;`),
}

// scriptKeywords mark lines that are still recognizably code after pattern
// removal; such lines are dropped wholesale.
var scriptKeywords = []string{
	"function", "var ", "const ", "let ", "document.", "console.", "queryselector",
}

var (
	spaceRuns   = regexp.MustCompile(`[^\S\n]+`)
	newlineRuns = regexp.MustCompile(`\n+`)
)

// Normalize cleans script-polluted text content in three ordered stages:
// noise-pattern removal, whitespace collapsing, and line-level dedup and
// filtering. The function is idempotent.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	for _, p := range noisePatterns {
		text = p.ReplaceAllString(text, "")
	}

	// Collapse whitespace runs but keep line structure intact so the line
	// stage still has lines to work with.
	text = spaceRuns.ReplaceAllString(text, " ")
	text = newlineRuns.ReplaceAllString(text, "\n")

	lines := strings.Split(text, "\n")
	unique := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || utf8.RuneCountInString(line) <= minLineRunes {
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		if looksLikeScript(line) {
			continue
		}
		unique = append(unique, line)
		seen[line] = struct{}{}
	}

	return strings.Join(unique, "\n")
}

func looksLikeScript(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range scriptKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
