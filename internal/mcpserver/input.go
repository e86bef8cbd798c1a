package mcpserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/markkovari/rmf-codegen/model"
)

// apiInput represents the two ways an API description can be provided to
// a tool. Exactly one of File or Content must be set.
type apiInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to an API description file on disk"`
	Content string `json:"content,omitempty" jsonschema:"Inline API description (YAML). Library uses must be inline."`
}

// cacheEntry holds a loaded API with LRU ordering and TTL expiry.
type cacheEntry struct {
	api       *model.API
	insertAt  time.Time
	expiresAt time.Time
}

// apiCacheStore provides a session-scoped cache for loaded descriptions.
// File inputs are keyed by (absolutePath, modTime), content inputs by a
// SHA-256 hash. Loaded APIs are read-only so entries are shared between
// tool calls.
type apiCacheStore struct {
	mu             sync.Mutex
	entries        map[string]*cacheEntry
	maxSize        int
	sweeperStarted atomic.Bool
}

var apiCache = &apiCacheStore{
	entries: make(map[string]*cacheEntry),
	maxSize: cfg.CacheMaxSize,
}

// get returns a cached API or nil. Expired entries are lazily removed.
func (c *apiCacheStore) get(key string) *model.API {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
			delete(c.entries, key)
			return nil
		}
		e.insertAt = time.Now()
		return e.api
	}
	return nil
}

// putWithTTL stores an API, evicting the least recently used entry if at capacity.
func (c *apiCacheStore) putWithTTL(key string, api *model.API, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	entry := &cacheEntry{api: api, insertAt: now, expiresAt: now.Add(ttl)}
	if _, ok := c.entries[key]; ok {
		c.entries[key] = entry
		return
	}
	if len(c.entries) >= c.maxSize {
		var oldestKey string
		var oldestTime time.Time
		for k, e := range c.entries {
			if oldestKey == "" || e.insertAt.Before(oldestTime) {
				oldestKey = k
				oldestTime = e.insertAt
			}
		}
		if oldestKey != "" {
			delete(c.entries, oldestKey)
		}
	}
	c.entries[key] = entry
}

// sweep removes all expired entries from the cache.
func (c *apiCacheStore) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for k, e := range c.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

// startSweeper launches a goroutine that periodically removes expired
// entries until ctx is cancelled. Only the first call spawns a sweeper.
func (c *apiCacheStore) startSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	if !c.sweeperStarted.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer c.sweeperStarted.Store(false)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}

// reset clears all cached entries. Used in tests.
func (c *apiCacheStore) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

func (c *apiCacheStore) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// makeCacheKey creates a cache key for the given input, or "" when the
// input cannot be cached.
func makeCacheKey(in apiInput) string {
	switch {
	case in.File != "":
		absPath, err := filepath.Abs(in.File)
		if err != nil {
			return ""
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return ""
		}
		return fmt.Sprintf("file:%s:%d", absPath, info.ModTime().UnixNano())
	case in.Content != "":
		h := sha256.Sum256([]byte(in.Content))
		return "content:" + hex.EncodeToString(h[:])
	default:
		return ""
	}
}

// load returns the API from whichever input was provided, using the cache.
func (in apiInput) load() (*model.API, error) {
	if (in.File == "") == (in.Content == "") {
		return nil, fmt.Errorf("exactly one of file or content must be provided")
	}
	if in.Content != "" && int64(len(in.Content)) > cfg.MaxInlineSize {
		return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set RMFCODEGEN_MCP_MAX_INLINE_SIZE to increase",
			len(in.Content), cfg.MaxInlineSize)
	}

	var key string
	ttl := cfg.CacheContentTTL
	if cfg.CacheEnabled {
		key = makeCacheKey(in)
		if in.File != "" {
			ttl = cfg.CacheFileTTL
		}
	}
	if key != "" {
		if cached := apiCache.get(key); cached != nil {
			return cached, nil
		}
	}

	var opt model.LoadOption
	if in.File != "" {
		opt = model.WithFilePath(in.File)
	} else {
		opt = model.WithBytes([]byte(in.Content))
	}
	api, err := model.LoadWithOptions(opt)
	if err != nil {
		return nil, err
	}
	if key != "" {
		apiCache.putWithTTL(key, api, ttl)
	}
	return api, nil
}
