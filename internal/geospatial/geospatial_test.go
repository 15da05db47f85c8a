package geospatial

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestLengthKm_OneDegreeOfLongitudeAtEquator(t *testing.T) {
	ls := orb.LineString{{0, 0}, {1, 0}}
	// Great-circle distance from (0,0) to (0,1) is ~111.19 km.
	assert.InDelta(t, 111.19, LengthKm(ls), 0.05)
}

func TestLengthKm_DegenerateLines(t *testing.T) {
	assert.Equal(t, 0.0, LengthKm(orb.LineString{}))
	assert.Equal(t, 0.0, LengthKm(orb.LineString{{10, 50}}))
}

func TestLengthKm_MultiSegmentSums(t *testing.T) {
	one := LengthKm(orb.LineString{{0, 0}, {1, 0}})
	two := LengthKm(orb.LineString{{0, 0}, {1, 0}, {2, 0}})
	assert.InDelta(t, 2*one, two, 0.001)
}

func TestRouteBound_ExpandsByBuffer(t *testing.T) {
	route := orb.LineString{{10.0, 50.0}, {10.5, 50.5}}
	b := RouteBound(route, 111.0) // exactly one degree

	assert.InDelta(t, 9.0, b.Min.Lon(), 1e-9)
	assert.InDelta(t, 49.0, b.Min.Lat(), 1e-9)
	assert.InDelta(t, 11.5, b.Max.Lon(), 1e-9)
	assert.InDelta(t, 51.5, b.Max.Lat(), 1e-9)
}

func TestSimplifyLine_DropsCollinearPoints(t *testing.T) {
	// A near-straight dense line collapses to its endpoints.
	dense := orb.LineString{
		{0, 0}, {0.1, 0.000001}, {0.2, 0}, {0.3, 0.000002}, {0.4, 0},
	}
	simplified := SimplifyLine(dense, 0.0001)

	assert.Less(t, len(simplified), len(dense))
	assert.Equal(t, dense[0], simplified[0])
	assert.Equal(t, dense[len(dense)-1], simplified[len(simplified)-1])
}

func TestSimplifyLine_KeepsRealCorners(t *testing.T) {
	corner := orb.LineString{{0, 0}, {1, 0}, {1, 1}}
	assert.Equal(t, corner, SimplifyLine(corner, 0.0001))
}

func TestSimplifyLine_DoesNotMutateInput(t *testing.T) {
	dense := orb.LineString{{0, 0}, {0.1, 0.000001}, {0.2, 0}}
	before := dense.Clone()
	_ = SimplifyLine(dense, 0.01)
	assert.Equal(t, before, dense)
}

func TestLineIntersectsBound(t *testing.T) {
	b := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{1, 1}}

	tests := []struct {
		name string
		line orb.LineString
		want bool
	}{
		{"inside", orb.LineString{{0.2, 0.2}, {0.8, 0.8}}, true},
		{"crossing", orb.LineString{{-1, 0.5}, {2, 0.5}}, true},
		{"outside", orb.LineString{{2, 2}, {3, 3}}, false},
		{"diagonal through box", orb.LineString{{-0.5, 1.6}, {1.6, -0.5}}, true},
		{"bbox overlap but geometry misses", orb.LineString{{-1, 0.5}, {0.5, 2}}, false},
		{"empty", orb.LineString{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LineIntersectsBound(tt.line, b))
		})
	}
}

func TestGeometryIntersectsBound(t *testing.T) {
	b := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{1, 1}}

	overlapping := orb.Polygon{{{0.5, 0.5}, {2, 0.5}, {2, 2}, {0.5, 2}, {0.5, 0.5}}}
	assert.True(t, GeometryIntersectsBound(overlapping, b))

	// Region fully containing the bound: no vertex inside, corners contained.
	containing := orb.Polygon{{{-5, -5}, {5, -5}, {5, 5}, {-5, 5}, {-5, -5}}}
	assert.True(t, GeometryIntersectsBound(containing, b))

	far := orb.Polygon{{{10, 10}, {11, 10}, {11, 11}, {10, 11}, {10, 10}}}
	assert.False(t, GeometryIntersectsBound(far, b))

	multi := orb.MultiPolygon{far, overlapping}
	assert.True(t, GeometryIntersectsBound(multi, b))

	// Unsupported geometry types report false.
	assert.False(t, GeometryIntersectsBound(orb.Point{0.5, 0.5}, b))
}
