package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/regulqa/internal/model"
)

func TestKey(t *testing.T) {
	a := Key("https://example.org/srs.pdf")
	b := Key("https://example.org/srs.pdf")
	c := Key("https://example.org/srs.html")

	if a != b {
		t.Error("Expected stable keys")
	}
	if a == c {
		t.Error("Expected distinct keys for distinct URLs")
	}
	if !strings.HasPrefix(a, "regulqa-v1-") || strings.ContainsAny(a, "/:") {
		t.Errorf("Unexpected key format: %s", a)
	}
}

func TestLayeredCache_Entry(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Hour)

	entry := &Entry{
		URL:         "https://example.org/iso26262.pdf",
		ContentType: "application/pdf",
		Body:        []byte("%PDF-1.7"),
		FetchedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	if err := PutEntry(c, entry, 0); err != nil {
		t.Fatalf("PutEntry failed: %v", err)
	}

	got, ok := GetEntry(c, entry.URL)
	if !ok {
		t.Fatal("Expected cache hit")
	}
	if string(got.Body) != "%PDF-1.7" || got.ContentType != "application/pdf" {
		t.Errorf("Unexpected entry: %+v", got)
	}

	// A fresh layered cache over the same dir hits the disk layer
	reopened := NewLayeredCache(time.Minute, dir, time.Hour)
	if _, ok := GetEntry(reopened, entry.URL); !ok {
		t.Error("Expected disk hit after reopening")
	}

	if _, ok := GetEntry(c, "https://example.org/other"); ok {
		t.Error("Expected miss for unknown URL")
	}
}

func TestGetEntry_NilCache(t *testing.T) {
	if _, ok := GetEntry(nil, "https://example.org"); ok {
		t.Error("Expected miss on nil cache")
	}
	if err := PutEntry(nil, &Entry{URL: "https://example.org"}, 0); err != nil {
		t.Errorf("Expected no error on nil cache, got %v", err)
	}
}

func TestDiskCache_ExpiryAndPrune(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	if err := c.Set("live", []byte("a"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := c.Set("stale", []byte("b"), -time.Second); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "junk"+diskSuffix), []byte("{"), 0o644); err != nil {
		t.Fatalf("write junk: %v", err)
	}

	removed, err := c.Prune()
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("Expected 2 pruned entries, got %d", removed)
	}
	if _, ok := c.Get("live"); !ok {
		t.Error("Expected live entry to survive")
	}

	if err := c.Delete("never-written"); err != nil {
		t.Errorf("Expected no error deleting a missing key, got %v", err)
	}
}

func TestFromConfig(t *testing.T) {
	if FromConfig(model.CacheConfig{Enabled: false}) != nil {
		t.Error("Expected nil cache when disabled")
	}

	c := FromConfig(model.CacheConfig{Enabled: true, MemoryTTL: time.Minute})
	if c == nil {
		t.Fatal("Expected memory-only cache")
	}
	if err := c.Set("k", []byte("v"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if v, ok := c.Get("k"); !ok || string(v) != "v" {
		t.Errorf("Expected memory hit, got %q %v", v, ok)
	}
}
