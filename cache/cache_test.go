package cache

import (
	"testing"
	"time"

	"github.com/nostalgiatan/see/models"
)

func response(engine string) *models.SearchResponse {
	return models.NewSearchResponse(engine, []models.SearchResultItem{
		{Title: "cached record", URL: "https://example.com", Score: 1.0},
	}, 10*time.Millisecond)
}

func TestKeyShape(t *testing.T) {
	base := Key("quark", "golang", 1, 10)
	if len(base) != 64 {
		t.Fatalf("expected hex sha256 key, got %q", base)
	}

	variants := []string{
		Key("bing", "golang", 1, 10),
		Key("quark", "golang!", 1, 10),
		Key("quark", "golang", 2, 10),
		Key("quark", "golang", 1, 5),
	}
	for i, v := range variants {
		if v == base {
			t.Errorf("variant %d collides with base key", i)
		}
	}

	if Key("quark", "golang", 1, 10) != base {
		t.Error("key is not deterministic")
	}
}

func TestGetSet(t *testing.T) {
	c := New(10, time.Minute)
	key := Key("quark", "golang", 1, 10)

	if _, ok := c.Get(key); ok {
		t.Fatal("unexpected hit on empty cache")
	}

	want := response("quark")
	c.Set(key, want)

	got, ok := c.Get(key)
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if got != want {
		t.Error("cache returned a different response pointer")
	}

	hits, misses, entries := c.Stats()
	if hits != 1 || misses != 1 || entries != 1 {
		t.Errorf("stats = (%d hits, %d misses, %d entries), want (1, 1, 1)", hits, misses, entries)
	}
}

func TestExpiry(t *testing.T) {
	c := New(10, time.Millisecond)
	key := Key("quark", "golang", 1, 10)
	c.Set(key, response("quark"))

	time.Sleep(5 * time.Millisecond)

	if _, ok := c.Get(key); ok {
		t.Fatal("expected expired entry to miss")
	}
}

func TestCapacityEviction(t *testing.T) {
	c := New(2, time.Minute)
	c.Set(Key("quark", "a", 1, 10), response("quark"))
	c.Set(Key("quark", "b", 1, 10), response("quark"))
	c.Set(Key("quark", "c", 1, 10), response("quark"))

	if got := c.Len(); got != 2 {
		t.Fatalf("expected capacity to hold at 2 entries, got %d", got)
	}
}

func TestClear(t *testing.T) {
	c := New(10, time.Minute)
	c.Set(Key("quark", "a", 1, 10), response("quark"))
	c.Set(Key("quark", "b", 1, 10), response("quark"))

	if n := c.Clear(); n != 2 {
		t.Fatalf("Clear removed %d entries, want 2", n)
	}
	if c.Len() != 0 {
		t.Fatal("cache not empty after Clear")
	}
	if _, ok := c.Get(Key("quark", "a", 1, 10)); ok {
		t.Fatal("unexpected hit after Clear")
	}
}

func TestNilResponseNotStored(t *testing.T) {
	c := New(10, time.Minute)
	key := Key("quark", "golang", 1, 10)
	c.Set(key, nil)

	if c.Len() != 0 {
		t.Fatal("nil response must not be stored")
	}
}
