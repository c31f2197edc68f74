package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/nodewee/scan-to-text/pkg/constants"
	"github.com/nodewee/scan-to-text/pkg/interfaces"
	"github.com/nodewee/scan-to-text/pkg/logger"
	"github.com/nodewee/scan-to-text/pkg/types"
	"github.com/nodewee/scan-to-text/pkg/utils"
)

const entrySuffix = ".json"

// ResultCache persists successful results so repeated runs skip recognition
// Directory structure: {cache_dir}/{sha256[:2]}/{sha256}.json
type ResultCache struct {
	baseDir string
	mu      sync.RWMutex
	logger  *logger.Logger
}

var (
	_ interfaces.ResultCache = (*ResultCache)(nil)
	_ interfaces.FileManager = (*ResultCache)(nil)
)

// Stats summarizes the cache contents
type Stats struct {
	Dir     string `json:"dir"`
	Entries int    `json:"entries"`
	Bytes   int64  `json:"bytes"`
}

// New creates a cache rooted at dir
func New(dir string, log *logger.Logger) *ResultCache {
	if log == nil {
		log = logger.Nop()
	}
	return &ResultCache{
		baseDir: utils.NormalizePath(dir),
		logger:  log.WithComponent("cache"),
	}
}

// Key derives the cache key from the document content hash and every
// setting that changes the result
func Key(contentHash, language string, threshold float64, dpi int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%.4f|%d", contentHash, language, threshold, dpi)))
	return hex.EncodeToString(sum[:])
}

// EnsureBaseDir ensures the base directory exists
func (c *ResultCache) EnsureBaseDir() error {
	return utils.EnsureDir(c.baseDir)
}

// GetBasePath returns the cache directory
func (c *ResultCache) GetBasePath() string {
	return c.baseDir
}

// GetPath returns a path under the cache directory
func (c *ResultCache) GetPath(relativePath string) string {
	return utils.NormalizePath(filepath.Join(c.baseDir, relativePath))
}

func (c *ResultCache) entryPath(key string) string {
	shard := key
	if len(key) > 2 {
		shard = key[:2]
	}
	return c.GetPath(filepath.Join(shard, key+entrySuffix))
}

// Get returns the cached result for key. Unreadable entries count as misses.
func (c *ResultCache) Get(key string) (*types.DocumentResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.entryPath(key))
	if err != nil {
		return nil, false
	}

	var result types.DocumentResult
	if err := json.Unmarshal(data, &result); err != nil {
		c.logger.Warn("Ignoring corrupt cache entry %s: %v", key, err)
		return nil, false
	}
	if !result.Success {
		return nil, false
	}

	c.logger.Debug("Cache hit: %s", key)
	return &result, true
}

// Put stores a successful result; failures are never cached
func (c *ResultCache) Put(key string, result *types.DocumentResult) error {
	if result == nil || !result.Success {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	path := c.entryPath(key)
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return utils.WrapError(err, utils.ErrorTypeIO, "failed to create cache directory")
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return utils.WrapError(err, utils.ErrorTypeSystem, "failed to encode cache entry")
	}

	// write then rename so a crash never leaves a half-written entry
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, constants.DefaultFilePermission); err != nil {
		return utils.NewIOError("failed to write cache entry", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return utils.NewIOError("failed to commit cache entry", err)
	}

	c.logger.Debug("Cached result: %s", key)
	return nil
}

// Stats counts the entries and their total size
func (c *ResultCache) Stats() (Stats, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := Stats{Dir: c.baseDir}
	err := c.walkEntries(func(path string, info os.FileInfo) error {
		stats.Entries++
		stats.Bytes += info.Size()
		return nil
	})
	return stats, err
}

// Clear removes every entry and returns how many were removed
func (c *ResultCache) Clear() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	err := c.walkEntries(func(path string, info os.FileInfo) error {
		if err := os.Remove(path); err != nil {
			return err
		}
		removed++
		return nil
	})
	if err != nil {
		return removed, utils.WrapError(err, utils.ErrorTypeIO, "failed to clear cache")
	}

	c.logger.Info("Removed %d cache entries from %s", removed, c.baseDir)
	return removed, nil
}

// Cleanup is a no-op; entries persist between runs
func (c *ResultCache) Cleanup() error {
	return nil
}

func (c *ResultCache) walkEntries(fn func(path string, info os.FileInfo) error) error {
	if _, err := os.Stat(c.baseDir); os.IsNotExist(err) {
		return nil
	}
	return filepath.Walk(c.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(info.Name(), entrySuffix) {
			return nil
		}
		return fn(path, info)
	})
}
