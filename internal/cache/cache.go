// Package cache provides file-based caching for hebcal API responses.
//
// Entries are keyed by a hash of the endpoint and its query parameters and
// are validated against a caller-supplied TTL. The cache is best-effort:
// unreadable or stale entries are a miss, never an error.
package cache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const entryFile = "hebcal_%s.json" // keyed by hash

// Suggested TTLs per endpoint. Anchor times for an upcoming Shabbat can
// still be corrected by the upstream service, Rosh Chodesh dates cannot.
const (
	ShabbatTTL  = 12 * time.Hour
	ZmanimTTL   = 12 * time.Hour
	CalendarTTL = 30 * 24 * time.Hour
)

// Cache provides file-based caching for API responses.
type Cache struct {
	dir string
}

// entry stores one cached response along with the query that produced it.
type entry struct {
	Endpoint string          `json:"endpoint"`
	Params   string          `json:"params"`
	CachedAt time.Time       `json:"cached_at"`
	Payload  json.RawMessage `json:"payload"`
}

// New creates a Cache rooted at the given directory.
// If dir is empty, it defaults to ~/.cache/horaires-shabbat/.
func New(dir string) (*Cache, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".cache", "horaires-shabbat")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create cache directory %s: %w", dir, err)
	}

	return &Cache{dir: dir}, nil
}

// key builds a deterministic hash from the endpoint and its parameters.
// This ensures different queries get separate cache files.
func key(endpoint, params string) string {
	raw := endpoint + "|" + params
	h := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%x", h[:8]) // 16 hex chars is plenty for uniqueness
}

// Load attempts to read a cached response for the given query into out.
// It reports false when the entry is missing, stale, or unreadable.
// A ttl of zero or less means entries never expire.
func (c *Cache) Load(endpoint, params string, ttl time.Duration, out any) bool {
	path := filepath.Join(c.dir, fmt.Sprintf(entryFile, key(endpoint, params)))

	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return false
	}

	// Validate the query matches -- an entry for another query is useless.
	if e.Endpoint != endpoint || e.Params != params {
		return false
	}
	if ttl > 0 && time.Since(e.CachedAt) > ttl {
		return false
	}

	return json.Unmarshal(e.Payload, out) == nil
}

// Save writes a response payload to the cache.
func (c *Cache) Save(endpoint, params string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal cache payload: %w", err)
	}

	e := entry{
		Endpoint: endpoint,
		Params:   params,
		CachedAt: time.Now(),
		Payload:  raw,
	}

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	path := filepath.Join(c.dir, fmt.Sprintf(entryFile, key(endpoint, params)))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return nil
}
