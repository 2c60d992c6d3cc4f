package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Cache stores raw bytes under string keys
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a filesystem-safe cache key from a source URL
func Key(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "regulqa-v1-" + hex.EncodeToString(hash[:])
}

// Entry is one downloaded source document
type Entry struct {
	URL         string    `json:"url"`
	ContentType string    `json:"content_type"`
	Body        []byte    `json:"body"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// GetEntry looks up the document cached for url. Corrupt entries are dropped.
func GetEntry(c Cache, url string) (*Entry, bool) {
	if c == nil {
		return nil, false
	}

	key := Key(url)
	data, ok := c.Get(key)
	if !ok {
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil || entry.URL != url {
		_ = c.Delete(key)
		return nil, false
	}
	return &entry, true
}

// PutEntry caches a downloaded document; a zero ttl uses the layer defaults
func PutEntry(c Cache, entry *Entry, ttl time.Duration) error {
	if c == nil {
		return nil
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	return c.Set(Key(entry.URL), data, ttl)
}
