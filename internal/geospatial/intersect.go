package geospatial

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// LineIntersectsBound reports whether any part of the line lies inside or
// crosses the bound. Unlike a bound-vs-bound overlap test, a long diagonal
// line whose bounding box overlaps the corridor but whose geometry misses it
// is correctly rejected.
func LineIntersectsBound(ls orb.LineString, b orb.Bound) bool {
	if len(ls) == 0 || !b.Intersects(ls.Bound()) {
		return false
	}
	for _, p := range ls {
		if b.Contains(p) {
			return true
		}
	}
	for i := 0; i < len(ls)-1; i++ {
		if segmentCrossesBound(ls[i], ls[i+1], b) {
			return true
		}
	}
	return false
}

// GeometryIntersectsBound tests a region boundary (Polygon or MultiPolygon)
// against a bounding box. Other geometry types report false.
func GeometryIntersectsBound(g orb.Geometry, b orb.Bound) bool {
	switch geom := g.(type) {
	case orb.Polygon:
		return polygonIntersectsBound(geom, b)
	case orb.MultiPolygon:
		for _, poly := range geom {
			if polygonIntersectsBound(poly, b) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func polygonIntersectsBound(poly orb.Polygon, b orb.Bound) bool {
	if len(poly) == 0 || len(poly[0]) == 0 {
		return false
	}
	if !b.Intersects(poly.Bound()) {
		return false
	}
	// Any outer-ring vertex inside the bound.
	for _, p := range poly[0] {
		if b.Contains(p) {
			return true
		}
	}
	// Any bound corner inside the polygon (bound fully within region).
	for _, c := range boundCorners(b) {
		if planar.PolygonContains(poly, c) {
			return true
		}
	}
	// Ring edge crossing a bound edge.
	ring := poly[0]
	for i := 0; i < len(ring)-1; i++ {
		if segmentCrossesBound(ring[i], ring[i+1], b) {
			return true
		}
	}
	return false
}

func boundCorners(b orb.Bound) [4]orb.Point {
	return [4]orb.Point{
		b.Min,
		{b.Max.Lon(), b.Min.Lat()},
		b.Max,
		{b.Min.Lon(), b.Max.Lat()},
	}
}

// segmentCrossesBound reports whether segment a-b intersects any of the four
// edges of the bound.
func segmentCrossesBound(a, b orb.Point, bound orb.Bound) bool {
	corners := boundCorners(bound)
	for i := range corners {
		if segmentsIntersect(a, b, corners[i], corners[(i+1)%4]) {
			return true
		}
	}
	return false
}

// segmentsIntersect is the standard orientation-based segment intersection
// test, including collinear overlap.
func segmentsIntersect(p1, p2, q1, q2 orb.Point) bool {
	d1 := cross(q1, q2, p1)
	d2 := cross(q1, q2, p2)
	d3 := cross(p1, p2, q1)
	d4 := cross(p1, p2, q2)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	switch {
	case d1 == 0 && onSegment(q1, q2, p1):
		return true
	case d2 == 0 && onSegment(q1, q2, p2):
		return true
	case d3 == 0 && onSegment(p1, p2, q1):
		return true
	case d4 == 0 && onSegment(p1, p2, q2):
		return true
	}
	return false
}

func cross(a, b, c orb.Point) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

func onSegment(a, b, p orb.Point) bool {
	return min(a[0], b[0]) <= p[0] && p[0] <= max(a[0], b[0]) &&
		min(a[1], b[1]) <= p[1] && p[1] <= max(a[1], b[1])
}
