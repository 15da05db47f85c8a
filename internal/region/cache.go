package region

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const indexCacheFile = "catalog_index.json"

// Clock abstracts time for freshness decisions, keeping the cache testable
// without real filesystem timestamps.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }

// Cache is the on-disk store shared by the catalog index and the region
// extracts. Single-process, single-run access is assumed; concurrent runs
// against the same directory must be serialized externally.
type Cache struct {
	dir   string
	ttl   time.Duration
	clock Clock
}

// NewCache creates a cache rooted at dir with the given index freshness
// window. A nil clock uses the system clock.
func NewCache(dir string, ttl time.Duration, clock Clock) (*Cache, error) {
	if clock == nil {
		clock = SystemClock()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "region: create cache dir %s", dir)
	}
	return &Cache{dir: dir, ttl: ttl, clock: clock}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// cachedIndex wraps the raw catalog document with its fetch time, so
// freshness does not depend on file mtimes.
type cachedIndex struct {
	FetchedAt time.Time       `json:"fetched_at"`
	Index     json.RawMessage `json:"index"`
}

// LoadIndex returns the cached catalog document and whether it is still
// within the freshness window. ok is false when no cache exists.
func (c *Cache) LoadIndex() (data []byte, fresh bool, ok bool) {
	raw, err := os.ReadFile(filepath.Join(c.dir, indexCacheFile))
	if err != nil {
		return nil, false, false
	}
	var ci cachedIndex
	if err := json.Unmarshal(raw, &ci); err != nil {
		zap.L().Warn("region: corrupt index cache, ignoring", zap.Error(err))
		return nil, false, false
	}
	age := c.clock.Now().Sub(ci.FetchedAt)
	return ci.Index, age < c.ttl, true
}

// StoreIndex persists a freshly fetched catalog document.
func (c *Cache) StoreIndex(index []byte) error {
	ci := cachedIndex{FetchedAt: c.clock.Now(), Index: index}
	raw, err := json.Marshal(ci)
	if err != nil {
		return eris.Wrap(err, "region: marshal index cache")
	}
	path := filepath.Join(c.dir, indexCacheFile)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return eris.Wrapf(err, "region: write index cache %s", path)
	}
	return nil
}

// IndexAge returns the age of the cached index, or ok=false when absent.
func (c *Cache) IndexAge() (time.Duration, bool) {
	raw, err := os.ReadFile(filepath.Join(c.dir, indexCacheFile))
	if err != nil {
		return 0, false
	}
	var ci cachedIndex
	if err := json.Unmarshal(raw, &ci); err != nil {
		return 0, false
	}
	return c.clock.Now().Sub(ci.FetchedAt), true
}

// ExtractPath returns the cache path for an extract filename.
func (c *Cache) ExtractPath(filename string) string {
	return filepath.Join(c.dir, filename)
}

// HasExtract reports whether a non-empty extract file is already cached.
func (c *Cache) HasExtract(filename string) bool {
	info, err := os.Stat(c.ExtractPath(filename))
	return err == nil && info.Size() > 0
}

// CachedExtract describes one cached extract file.
type CachedExtract struct {
	Name      string
	SizeBytes int64
	ModTime   time.Time
}

// ListExtracts returns the cached extract files.
func (c *Cache) ListExtracts() ([]CachedExtract, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, eris.Wrapf(err, "region: read cache dir %s", c.dir)
	}
	var out []CachedExtract
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".osm.pbf") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, CachedExtract{
			Name:      e.Name(),
			SizeBytes: info.Size(),
			ModTime:   info.ModTime(),
		})
	}
	return out, nil
}

// ClearExtracts removes cached extracts older than the given age. Returns
// the number of files removed and the bytes freed.
func (c *Cache) ClearExtracts(olderThan time.Duration) (int, int64, error) {
	extracts, err := c.ListExtracts()
	if err != nil {
		return 0, 0, err
	}
	cutoff := c.clock.Now().Add(-olderThan)

	var removed int
	var freed int64
	for _, ex := range extracts {
		if !ex.ModTime.Before(cutoff) {
			continue
		}
		if err := os.Remove(c.ExtractPath(ex.Name)); err != nil {
			return removed, freed, eris.Wrapf(err, "region: remove %s", ex.Name)
		}
		removed++
		freed += ex.SizeBytes
		zap.L().Info("removed cached extract",
			zap.String("file", ex.Name),
			zap.Int64("size_bytes", ex.SizeBytes),
		)
	}
	return removed, freed, nil
}
