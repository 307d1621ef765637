package cache

import (
	"testing"
	"time"

	"github.com/spf13/afero"
)

type report struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

var (
	_ Cache[*report] = (*LRUCache[*report])(nil)
	_ Cache[*report] = (*FileCache[*report])(nil)
)

func TestLRUCache(t *testing.T) {
	cache := NewLRUCache[*report](2, time.Hour)

	if err := cache.Set("key1", &report{Valid: true}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, found, err := cache.Get("key1")
	if err != nil || !found {
		t.Fatalf("Get() = %v, %v, want found", got, err)
	}
	if !got.Valid {
		t.Errorf("Valid = %v, want true", got.Valid)
	}

	_, found, err = cache.Get("nonexistent")
	if err != nil {
		t.Errorf("Get(nonexistent) error = %v", err)
	}
	if found {
		t.Error("Get(nonexistent) found, want miss")
	}
}

func TestLRUEviction(t *testing.T) {
	cache := NewLRUCache[*report](2, time.Hour)

	_ = cache.Set("key1", &report{})
	_ = cache.Set("key2", &report{})
	_, _, _ = cache.Get("key1")      // key1 is now most recent
	_ = cache.Set("key3", &report{}) // evicts key2

	if _, found, _ := cache.Get("key2"); found {
		t.Error("key2 should be evicted")
	}
	if _, found, _ := cache.Get("key1"); !found {
		t.Error("key1 should exist")
	}
	if _, found, _ := cache.Get("key3"); !found {
		t.Error("key3 should exist")
	}
}

func TestLRUExpiration(t *testing.T) {
	cache := NewLRUCache[*report](10, 10*time.Millisecond)

	_ = cache.Set("key1", &report{})

	time.Sleep(20 * time.Millisecond)

	if _, found, _ := cache.Get("key1"); found {
		t.Error("key1 should be expired")
	}
	if n := cache.Stats().Entries; n != 0 {
		t.Errorf("Entries = %d, want 0 after expiry", n)
	}
}

func TestLRUNoTTL(t *testing.T) {
	cache := NewLRUCache[string](10, 0)
	_ = cache.Set("key1", "v")

	if got, found, _ := cache.Get("key1"); !found || got != "v" {
		t.Errorf("Get() = %q, %v, want v, true", got, found)
	}
}

func TestLRUClear(t *testing.T) {
	cache := NewLRUCache[*report](10, time.Hour)

	_ = cache.Set("key1", &report{})
	_ = cache.Set("key2", &report{})

	_ = cache.Clear()

	if n := cache.Stats().Entries; n != 0 {
		t.Errorf("Entries after Clear() = %d, want 0", n)
	}
}

func TestLRUStats(t *testing.T) {
	cache := NewLRUCache[*report](10, time.Hour)

	_ = cache.Set("key1", &report{})
	_, _, _ = cache.Get("key1")
	_, _, _ = cache.Get("missing")

	stats := cache.Stats()
	if stats.Hits != 1 {
		t.Errorf("Hits = %d, want 1", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Misses = %d, want 1", stats.Misses)
	}
	if rate := stats.HitRate(); rate != 0.5 {
		t.Errorf("HitRate() = %v, want 0.5", rate)
	}
}

func TestFileCache(t *testing.T) {
	cache, err := NewFileCache[*report](afero.NewMemMapFs(), "/cache", time.Hour)
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}

	want := &report{Errors: []string{"type-empty"}}
	if setErr := cache.Set("key1", want); setErr != nil {
		t.Fatalf("Set() error = %v", setErr)
	}

	got, found, getErr := cache.Get("key1")
	if getErr != nil || !found {
		t.Fatalf("Get() = %v, %v, want found", got, getErr)
	}
	if len(got.Errors) != 1 || got.Errors[0] != "type-empty" {
		t.Errorf("Errors = %v, want [type-empty]", got.Errors)
	}

	if err := cache.Delete("key1"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
	if err := cache.Delete("key1"); err != nil {
		t.Errorf("Delete() of missing key error = %v", err)
	}
}

func TestFileCacheExpiration(t *testing.T) {
	fsys := afero.NewMemMapFs()
	cache, err := NewFileCache[*report](fsys, "/cache", 10*time.Millisecond)
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}

	_ = cache.Set("key1", &report{})
	_ = cache.Set("key2", &report{})

	time.Sleep(20 * time.Millisecond)

	if _, found, _ := cache.Get("key1"); found {
		t.Error("key1 should be expired")
	}

	if err := cache.Cleanup(); err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}
	if n := cache.Stats().Entries; n != 0 {
		t.Errorf("Entries after Cleanup() = %d, want 0", n)
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	fsys := afero.NewMemMapFs()
	cache, _ := NewFileCache[*report](fsys, "/cache", time.Hour)

	_ = afero.WriteFile(fsys, "/cache/bad.json", []byte("{not json"), 0o600)

	_, found, err := cache.Get("bad")
	if err != nil || found {
		t.Errorf("Get(bad) = %v, %v, want miss without error", found, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	cache, err := NewFileCache[*report](afero.NewMemMapFs(), "/cache", time.Hour)
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}

	_ = cache.Set("key1", &report{})
	_ = cache.Set("key2", &report{})

	_ = cache.Clear()

	if n := cache.Stats().Entries; n != 0 {
		t.Errorf("Entries after Clear() = %d, want 0", n)
	}
}

func TestComputeKey(t *testing.T) {
	key1 := ComputeKey("fix: a", "conventional-ptbr", "pt-BR")
	key2 := ComputeKey("fix: a", "conventional-ptbr", "pt-BR")
	key3 := ComputeKey("fix: a", "conventional", "pt-BR")

	if key1 != key2 {
		t.Error("same parts should have same key")
	}
	if key1 == key3 {
		t.Error("different parts should have different keys")
	}
	if ComputeKey("ab", "c") == ComputeKey("a", "bc") {
		t.Error("part boundaries should affect the key")
	}

	if len(key1) != 64 {
		t.Errorf("key length = %d, want 64", len(key1))
	}
}
