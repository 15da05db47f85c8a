// Package geospatial holds the corridor math shared across the analysis
// pipeline: route buffering, great-circle distances, and the line/polygon
// intersection tests used to clip road data to a route corridor.
//
// All calculations are done directly in geographic (lat/lon) space. For the
// corridor sizes this tool works with (tens to hundreds of km) a degree-based
// approximation (1 degree ~ 111 km) is sufficient; no metric projection is used.
package geospatial

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/simplify"
)

// KmPerDegree is the approximate ground distance of one degree of latitude.
const KmPerDegree = 111.0

// RouteBound returns the bounding box of a route expanded by bufferKm on all
// sides. Points are (lon, lat) per orb convention.
func RouteBound(route orb.LineString, bufferKm float64) orb.Bound {
	b := route.Bound()
	d := bufferKm / KmPerDegree
	return orb.Bound{
		Min: orb.Point{b.Min.Lon() - d, b.Min.Lat() - d},
		Max: orb.Point{b.Max.Lon() + d, b.Max.Lat() + d},
	}
}

// LengthKm returns the haversine length of a line in kilometers.
func LengthKm(ls orb.LineString) float64 {
	if len(ls) < 2 {
		return 0
	}
	var meters float64
	for i := 0; i < len(ls)-1; i++ {
		meters += geo.DistanceHaversine(ls[i], ls[i+1])
	}
	return meters / 1000.0
}

// DistanceKm returns the haversine distance between two points in kilometers.
func DistanceKm(a, b orb.Point) float64 {
	return geo.DistanceHaversine(a, b) / 1000.0
}

// SimplifyLine reduces a dense line with Douglas-Peucker at the given
// tolerance in degrees. The input is cloned, not mutated; endpoints are
// always kept.
func SimplifyLine(ls orb.LineString, toleranceDeg float64) orb.LineString {
	if len(ls) < 3 {
		return ls.Clone()
	}
	out := simplify.DouglasPeucker(toleranceDeg).Simplify(ls.Clone())
	line, ok := out.(orb.LineString)
	if !ok {
		return ls.Clone()
	}
	return line
}
