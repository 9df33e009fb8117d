package extract

import "testing"

func TestValidator_TitleBounds(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  bool
	}{
		{"too short ascii", "abcd", false},
		{"minimum length", "abcde", true},
		{"too short runes", "人工智能", false},
		{"minimum runes", "人工智能技", true},
		{"padded short title", "   ab   ", false},
		{"too long", repeatRune('x', 201), false},
		{"at max", repeatRune('x', 200), true},
		{"empty", "", false},
		{"whitespace only", "   \t ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator(0, 0, nil)
			if got := v.Admit(tt.title, "https://example.com/x"); got != tt.want {
				t.Errorf("Admit(%q) = %v, want %v", tt.title, got, tt.want)
			}
		})
	}
}

func TestValidator_NavigationKeywords(t *testing.T) {
	tests := []struct {
		title string
		want  bool
	}{
		{"返回首页导航链接入口", false}, // contains 首页
		{"Click here to LOGIN now", false},
		{"下一页继续浏览结果", false},
		{"Ordinary technical article", true},
		{"Registering particles in detectors", false}, // contains "register"
		{"Quantum entanglement explained", true},
	}

	for _, tt := range tests {
		v := NewValidator(0, 0, nil)
		if got := v.Admit(tt.title, "https://example.com/y"); got != tt.want {
			t.Errorf("Admit(%q) = %v, want %v", tt.title, got, tt.want)
		}
	}
}

func TestValidator_URLDedup(t *testing.T) {
	v := NewValidator(0, 0, nil)

	if !v.Admit("First distinct article title", "https://example.com/a") {
		t.Fatal("first URL should be admitted")
	}
	if v.Admit("Second distinct article title", "https://example.com/a") {
		t.Error("duplicate URL should be rejected")
	}
	if !v.Admit("Second distinct article title", "https://example.com/b") {
		t.Error("new URL should be admitted")
	}
}

func TestValidator_TitleHashDedupForURLLessRecords(t *testing.T) {
	v := NewValidator(0, 0, nil)

	if !v.Admit("Identical cleaned title text", "") {
		t.Fatal("first URL-less record should be admitted")
	}
	if v.Admit("Identical cleaned title text", "") {
		t.Error("second URL-less record with same title should be rejected")
	}
	if v.Admit("identical CLEANED title TEXT", "") {
		t.Error("title-hash dedup should be case-insensitive")
	}
	if !v.Admit("A different title entirely", "") {
		t.Error("distinct URL-less title should be admitted")
	}
}

func TestValidator_URLRecordsDoNotTouchTitleSet(t *testing.T) {
	v := NewValidator(0, 0, nil)

	if !v.Admit("Shared headline wording", "https://example.com/1") {
		t.Fatal("URL record should be admitted")
	}
	// Same title, no URL: must not be blocked by the URL-bearing record.
	if !v.Admit("Shared headline wording", "") {
		t.Error("URL-less record should not collide with a URL record's title")
	}
	// And the URL set is equally untouched by the URL-less acceptance.
	if !v.Admit("Fresh unrelated wording here", "https://example.com/2") {
		t.Error("new URL should still be admitted")
	}
}

func TestValidator_RejectionRecordsNothing(t *testing.T) {
	v := NewValidator(0, 0, nil)

	// Rejected on keyword; the URL must remain usable.
	if v.Admit("回到首页的链接文字", "https://example.com/kw") {
		t.Fatal("keyword title should be rejected")
	}
	if !v.Admit("Acceptable headline wording", "https://example.com/kw") {
		t.Error("URL from a rejected record should not be marked seen")
	}
}

func TestValidator_CustomBoundsAndKeywords(t *testing.T) {
	v := NewValidator(3, 10, []string{"spam"})

	if !v.Admit("abc", "https://example.com/1") {
		t.Error("3-rune title should pass with custom min")
	}
	if v.Admit("this title is far too long", "https://example.com/2") {
		t.Error("title beyond custom max should fail")
	}
	if v.Admit("has spam!", "https://example.com/3") {
		t.Error("custom keyword should reject")
	}
}

func repeatRune(r rune, n int) string {
	runes := make([]rune, n)
	for i := range runes {
		runes[i] = r
	}
	return string(runes)
}
