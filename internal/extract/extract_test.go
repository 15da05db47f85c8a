package extract

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velosafe/safety-cli/internal/model"
)

// sliceSource replays a fixed set of ways.
type sliceSource struct {
	ways []Way
}

func (s *sliceSource) Ways(_ context.Context, fn func(Way) error) error {
	for _, w := range s.ways {
		if err := fn(w); err != nil {
			return err
		}
	}
	return nil
}

var corridor = orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{1, 1}}

func insideLine() orb.LineString {
	return orb.LineString{{0.1, 0.1}, {0.2, 0.2}, {0.3, 0.3}}
}

func TestRoadsExtractsMatchingWays(t *testing.T) {
	src := &sliceSource{ways: []Way{
		{
			ID: 1,
			Tags: map[string]string{
				"highway":  "primary",
				"name":     "Main Street",
				"maxspeed": "90",
				"lanes":    "4",
				"surface":  "asphalt",
			},
			Line: insideLine(),
		},
	}}

	roads, stats, err := Roads(context.Background(), src, corridor)
	require.NoError(t, err)
	require.Len(t, roads, 1)

	r := roads[0]
	assert.Equal(t, int64(1), r.ID)
	assert.Equal(t, "Main Street", r.Name)
	assert.Equal(t, "primary", r.Highway)
	assert.Equal(t, "90", r.MaxSpeed)
	assert.Equal(t, "4", r.Lanes)
	assert.Equal(t, "asphalt", r.Surface)
	assert.Len(t, r.Geometry, 3)

	assert.Equal(t, Stats{Processed: 1, Filtered: 1, Matched: 1}, stats)
}

func TestRoadsSkipsExcludedAndUntagged(t *testing.T) {
	src := &sliceSource{ways: []Way{
		{ID: 1, Tags: map[string]string{"building": "yes"}, Line: insideLine()},
		{ID: 2, Tags: map[string]string{"highway": "footway"}, Line: insideLine()},
		{ID: 3, Tags: map[string]string{"highway": "cycleway"}, Line: insideLine()},
		{ID: 4, Tags: map[string]string{"highway": "service"}, Line: insideLine()},
		{ID: 5, Tags: map[string]string{"highway": "steps"}, Line: insideLine()},
		{ID: 6, Tags: map[string]string{"highway": "residential"}, Line: insideLine()},
	}}

	roads, stats, err := Roads(context.Background(), src, corridor)
	require.NoError(t, err)
	require.Len(t, roads, 1)
	assert.Equal(t, int64(6), roads[0].ID)
	// Excluded classes never reach the processed count.
	assert.Equal(t, 1, stats.Processed)
}

func TestRoadsSkipsDegenerateGeometry(t *testing.T) {
	src := &sliceSource{ways: []Way{
		{ID: 1, Tags: map[string]string{"highway": "primary"}, Line: orb.LineString{{0.5, 0.5}}},
		{ID: 2, Tags: map[string]string{"highway": "primary"}, Line: nil},
	}}

	roads, stats, err := Roads(context.Background(), src, corridor)
	require.NoError(t, err)
	assert.Empty(t, roads)
	// Degenerate ways still count as processed, never as filtered.
	assert.Equal(t, Stats{Processed: 2, Filtered: 0, Matched: 0}, stats)
}

func TestRoadsFiltersOutsideCorridor(t *testing.T) {
	src := &sliceSource{ways: []Way{
		{ID: 1, Tags: map[string]string{"highway": "primary"}, Line: insideLine()},
		{ID: 2, Tags: map[string]string{"highway": "primary"}, Line: orb.LineString{{5, 5}, {6, 6}}},
	}}

	roads, stats, err := Roads(context.Background(), src, corridor)
	require.NoError(t, err)
	require.Len(t, roads, 1)
	assert.Equal(t, int64(1), roads[0].ID)
	assert.Equal(t, Stats{Processed: 2, Filtered: 2, Matched: 1}, stats)
}

func TestRoadsDefaultsUnnamed(t *testing.T) {
	src := &sliceSource{ways: []Way{
		{ID: 1, Tags: map[string]string{"highway": "tertiary"}, Line: insideLine()},
	}}

	roads, _, err := Roads(context.Background(), src, corridor)
	require.NoError(t, err)
	require.Len(t, roads, 1)
	assert.Equal(t, model.UnnamedRoad, roads[0].Name)
}

func TestNewPBFSourceMissingFileFatal(t *testing.T) {
	_, err := NewPBFSource(filepath.Join(t.TempDir(), "absent.osm.pbf"), "highway")
	assert.Error(t, err)
}

func TestNewPBFSourceRejectsDirectory(t *testing.T) {
	_, err := NewPBFSource(t.TempDir(), "highway")
	assert.Error(t, err)
}
