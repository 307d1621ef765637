// Package cache stores lint reports so identical messages are not evaluated twice.
//
// Linting is a pure function of the message, the rule set and the locale, so
// a key derived from those three is enough to reuse a report.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Cache defines the interface for caching values by key.
type Cache[V any] interface {
	// Get retrieves a cached value.
	Get(key string) (V, bool, error)

	// Set stores a value in the cache.
	Set(key string, value V) error

	// Delete removes a single entry.
	Delete(key string) error

	// Clear removes all cached entries.
	Clear() error

	// Stats reports hit and miss counters.
	Stats() Stats
}

// Stats contains cache counters.
type Stats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Entries int   `json:"entries"`
}

// HitRate returns hits over lookups, or 0 before the first lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// ComputeKey hashes the parts into a hex SHA-256 key. Parts are separated by
// a NUL byte so ("ab", "c") and ("a", "bc") differ.
func ComputeKey(parts ...string) string {
	h := sha256.New()
	for i, p := range parts {
		if i > 0 {
			h.Write([]byte{0})
		}
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}
