// Package model defines the entities flowing through the safety pipeline.
package model

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/velosafe/safety-cli/internal/geospatial"
)

// RiskLevel is the discretized band derived from a numeric risk score.
type RiskLevel string

const (
	RiskCritical RiskLevel = "critical"
	RiskHigh     RiskLevel = "high"
	RiskMedium   RiskLevel = "medium"
	RiskLow      RiskLevel = "low"
	RiskMinimal  RiskLevel = "minimal"
)

// UnnamedRoad is the display name used for roads without a name tag.
const UnnamedRoad = "Unnamed Road"

// RawRoad is a road-like feature as it comes out of extraction: identity,
// geometry, and the raw tag values. Numeric tags are kept as strings and
// parsed defensively by the scoring engine.
type RawRoad struct {
	ID       int64
	Name     string
	Highway  string
	MaxSpeed string
	Lanes    string
	Surface  string
	Cycleway string
	Shoulder string
	Bicycle  string
	Geometry orb.LineString // (lon, lat) points, len >= 2
}

// RoadSegment is a scored road segment. It is constructed once by the scoring
// engine and immutable afterwards.
type RoadSegment struct {
	ID            int64
	Name          string
	Geometry      orb.LineString
	HighwayType   string
	MaxSpeedKph   int
	HasCycleway   bool
	HasShoulder   bool
	LaneCount     int
	Surface       string
	BicycleAccess string
	RiskScore     float64  // always within [0, 10]
	RiskFactors   []string // insertion order = evaluation order
}

// LengthKm returns the haversine length of the segment in kilometers.
func (s *RoadSegment) LengthKm() float64 {
	return geospatial.LengthKm(s.Geometry)
}

func (s *RoadSegment) String() string {
	return fmt.Sprintf("RoadSegment(id=%d, name=%q, type=%s, risk=%.1f)",
		s.ID, s.Name, s.HighwayType, s.RiskScore)
}

// Route is an ordered sequence of track points describing the analyzed route.
type Route struct {
	Name   string
	Points orb.LineString
}

// LengthKm returns the total route length in kilometers.
func (r *Route) LengthKm() float64 {
	return geospatial.LengthKm(r.Points)
}
