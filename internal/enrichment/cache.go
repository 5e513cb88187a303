package enrichment

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/signalis/connector/internal/record"
)

const cacheTTL = 90 * 24 * time.Hour

// Cache stores enrichment results on disk so repeated runs against the same
// contacts do not burn provider credits. Entries expire after 90 days.
type Cache struct {
	mu      sync.Mutex
	path    string
	entries map[string]cacheEntry
	loaded  bool
}

type cacheEntry struct {
	Email     string    `json:"email"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	Title     string    `json:"title,omitempty"`
	Verified  bool      `json:"verified"`
	Source    string    `json:"source"`
	StoredAt  time.Time `json:"stored_at"`
}

// CacheStats summarizes the cache contents.
type CacheStats struct {
	Total    int
	Fresh    int
	Stale    int
	BySource map[string]int
	Path     string
}

// NewCache opens a cache at the given path. An empty path defaults to
// .connector/enrichment_cache.json in the user's home directory.
func NewCache(path string) *Cache {
	if strings.TrimSpace(path) == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		path = filepath.Join(home, ".connector", "enrichment_cache.json")
	}

	return &Cache{path: path, entries: make(map[string]cacheEntry)}
}

func cacheKey(rec *record.Record) string {
	domain := strings.ToLower(strings.TrimSpace(rec.Domain))
	name := strings.ToLower(strings.TrimSpace(rec.FullName))
	company := strings.ToLower(strings.TrimSpace(rec.Company))

	if domain != "" {
		return domain + "|" + name
	}
	return company + "|" + name
}

// Lookup returns a cached result for the record, skipping expired entries.
func (c *Cache) Lookup(rec *record.Record) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.load()

	entry, ok := c.entries[cacheKey(rec)]
	if !ok || time.Since(entry.StoredAt) > cacheTTL {
		return Result{}, false
	}

	return Result{
		Outcome:   OutcomeEnriched,
		Email:     entry.Email,
		FirstName: entry.FirstName,
		LastName:  entry.LastName,
		Title:     entry.Title,
		Verified:  entry.Verified,
		Source:    entry.Source,
	}, true
}

// Store persists a successful enrichment result for the record.
func (c *Cache) Store(rec *record.Record, result Result) {
	if result.Outcome != OutcomeEnriched || strings.TrimSpace(result.Email) == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.load()

	c.entries[cacheKey(rec)] = cacheEntry{
		Email:     result.Email,
		FirstName: result.FirstName,
		LastName:  result.LastName,
		Title:     result.Title,
		Verified:  result.Verified,
		Source:    result.Source,
		StoredAt:  time.Now(),
	}

	c.persist()
}

// Stats reports entry counts split by freshness and source.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.load()

	stats := CacheStats{
		Total:    len(c.entries),
		BySource: make(map[string]int),
		Path:     c.path,
	}

	for _, entry := range c.entries {
		if time.Since(entry.StoredAt) > cacheTTL {
			stats.Stale++
		} else {
			stats.Fresh++
		}
		stats.BySource[entry.Source]++
	}

	return stats
}

// Clear removes all entries and deletes the cache file.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]cacheEntry)
	c.loaded = true

	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing cache file: %w", err)
	}
	return nil
}

// load reads the cache file once. Callers must hold the mutex.
func (c *Cache) load() {
	if c.loaded {
		return
	}
	c.loaded = true

	data, err := os.ReadFile(c.path)
	if err != nil {
		return
	}

	var entries map[string]cacheEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return
	}
	c.entries = entries
}

// persist writes the cache file. Callers must hold the mutex.
func (c *Cache) persist() {
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return
	}
	_ = os.WriteFile(c.path, data, 0o600)
}
