package region

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced clock for freshness tests.
type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) advance(d time.Duration) { f.now = f.now.Add(d) }

func newTestCache(t *testing.T, ttl time.Duration) (*Cache, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Now()}
	c, err := NewCache(t.TempDir(), ttl, clock)
	require.NoError(t, err)
	return c, clock
}

func TestIndexCacheFreshness(t *testing.T) {
	c, clock := newTestCache(t, 7*24*time.Hour)

	_, _, ok := c.LoadIndex()
	assert.False(t, ok)

	require.NoError(t, c.StoreIndex([]byte(`{"type":"FeatureCollection","features":[]}`)))

	data, fresh, ok := c.LoadIndex()
	assert.True(t, ok)
	assert.True(t, fresh)
	assert.JSONEq(t, `{"type":"FeatureCollection","features":[]}`, string(data))

	// Still fresh just inside the window.
	clock.advance(6 * 24 * time.Hour)
	_, fresh, ok = c.LoadIndex()
	assert.True(t, ok)
	assert.True(t, fresh)

	// Stale past the window, but still loadable.
	clock.advance(2 * 24 * time.Hour)
	data, fresh, ok = c.LoadIndex()
	assert.True(t, ok)
	assert.False(t, fresh)
	assert.NotEmpty(t, data)
}

func TestIndexAge(t *testing.T) {
	c, clock := newTestCache(t, time.Hour)

	_, ok := c.IndexAge()
	assert.False(t, ok)

	require.NoError(t, c.StoreIndex([]byte(`{}`)))
	clock.advance(30 * time.Minute)

	age, ok := c.IndexAge()
	assert.True(t, ok)
	assert.Equal(t, 30*time.Minute, age)
}

func TestCorruptIndexCacheIgnored(t *testing.T) {
	c, _ := newTestCache(t, time.Hour)
	require.NoError(t, os.WriteFile(c.ExtractPath(indexCacheFile), []byte("garbage"), 0o644))

	_, _, ok := c.LoadIndex()
	assert.False(t, ok)
}

func TestHasExtract(t *testing.T) {
	c, _ := newTestCache(t, time.Hour)

	assert.False(t, c.HasExtract("andorra-latest.osm.pbf"))

	// An empty file does not count as cached.
	require.NoError(t, os.WriteFile(c.ExtractPath("empty.osm.pbf"), nil, 0o644))
	assert.False(t, c.HasExtract("empty.osm.pbf"))

	require.NoError(t, os.WriteFile(c.ExtractPath("andorra-latest.osm.pbf"), []byte("pbf"), 0o644))
	assert.True(t, c.HasExtract("andorra-latest.osm.pbf"))
}

func TestListAndClearExtracts(t *testing.T) {
	c, clock := newTestCache(t, time.Hour)

	require.NoError(t, os.WriteFile(c.ExtractPath("a.osm.pbf"), []byte("aaaa"), 0o644))
	require.NoError(t, os.WriteFile(c.ExtractPath("b.osm.pbf"), []byte("bb"), 0o644))
	require.NoError(t, os.WriteFile(c.ExtractPath("notes.txt"), []byte("x"), 0o644))

	extracts, err := c.ListExtracts()
	require.NoError(t, err)
	assert.Len(t, extracts, 2)

	// Nothing is old enough yet relative to the fake clock horizon.
	clock.advance(-48 * time.Hour) // files look newer than "now"
	removed, _, err := c.ClearExtracts(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)

	// Move the clock far forward: everything is older than the cutoff.
	clock.advance(30 * 24 * time.Hour)
	removed, freed, err := c.ClearExtracts(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Equal(t, int64(6), freed)

	extracts, err = c.ListExtracts()
	require.NoError(t, err)
	assert.Empty(t, extracts)
}
