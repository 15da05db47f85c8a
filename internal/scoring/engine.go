// Package scoring implements the cyclist risk scoring engine: a pure
// function from raw road attributes and criteria to a bounded risk score
// with an explanatory factor list.
package scoring

import (
	"math"

	"github.com/velosafe/safety-cli/internal/criteria"
	"github.com/velosafe/safety-cli/internal/model"
)

// MaxScore is the upper bound of the risk scale.
const MaxScore = 10.0

// Engine scores road segments against a fixed set of criteria. It holds no
// mutable state; scoring the same road twice yields identical results.
type Engine struct {
	criteria *criteria.Criteria
}

// NewEngine creates a scoring engine over the given criteria.
func NewEngine(c *criteria.Criteria) *Engine {
	return &Engine{criteria: c}
}

// Criteria returns the engine's criteria, for level/color derivation by
// consumers.
func (e *Engine) Criteria() *criteria.Criteria {
	return e.criteria
}

// Score computes the risk score and factor list for one road. Malformed
// attribute values degrade to defaults (speed 0, lanes 1) and never fail.
//
// Roads with a forbidden highway class are pinned to the maximum score with
// the single factor "forbidden_highway_type"; the additive factors are not
// evaluated for them, since a forbidden road is already maximal risk and
// extra factors would only add noise.
func (e *Engine) Score(road model.RawRoad) model.RoadSegment {
	c := e.criteria

	maxspeed := ParseMaxSpeed(road.MaxSpeed)
	lanes := ParseLanes(road.Lanes, 1)
	hasCycleway := road.Cycleway != ""
	hasShoulder := road.Shoulder != "" && road.Shoulder != "no"

	seg := model.RoadSegment{
		ID:            road.ID,
		Name:          road.Name,
		Geometry:      road.Geometry,
		HighwayType:   road.Highway,
		MaxSpeedKph:   maxspeed,
		HasCycleway:   hasCycleway,
		HasShoulder:   hasShoulder,
		LaneCount:     lanes,
		Surface:       road.Surface,
		BicycleAccess: road.Bicycle,
	}

	if c.IsForbiddenHighway(road.Highway) {
		seg.RiskScore = MaxScore
		seg.RiskFactors = []string{"forbidden_highway_type"}
		return seg
	}

	var score float64
	var factors []string

	// 1. Speed penalty.
	if maxspeed > 0 {
		if p := c.SpeedPenalty(maxspeed); p > 0 {
			score += p
			switch {
			case maxspeed >= 100:
				factors = append(factors, "very_high_speed")
			case maxspeed >= 80:
				factors = append(factors, "high_speed")
			case maxspeed >= 60:
				factors = append(factors, "moderate_speed")
			}
		}
	}

	// 2. Highway class penalty.
	if p := c.HighwayPenalty(road.Highway); p > 0 {
		score += p
		factors = append(factors, "highway_"+road.Highway)
	}

	// 3. Missing cycling infrastructure.
	if p := c.InfrastructurePenalty(hasCycleway, hasShoulder); p > 0 {
		score += p
		if !hasCycleway && !hasShoulder {
			factors = append(factors, "no_bike_infrastructure")
		} else if !hasCycleway {
			factors = append(factors, "no_cycleway")
		}
	}

	// 4. Lane count.
	if lanes > 2 {
		if p := c.LanePenalty(lanes); p > 0 {
			score += p
			if lanes >= 4 {
				factors = append(factors, "multi_lane")
			} else {
				factors = append(factors, "three_lanes")
			}
		}
	}

	// 5. Surface.
	if p := c.SurfacePenalty(road.Surface); p > 0 {
		score += p
		factors = append(factors, "poor_surface")
	}

	// 6. Infrastructure bonus (negative).
	if b := c.InfrastructureBonus(road.Cycleway, road.Bicycle); b < 0 {
		score += b
		factors = append(factors, "good_bike_infrastructure")
	}

	seg.RiskScore = clamp(score, 0, MaxScore)
	seg.RiskFactors = factors
	return seg
}

// ScoreAll scores every road, preserving order.
func (e *Engine) ScoreAll(roads []model.RawRoad) []model.RoadSegment {
	segments := make([]model.RoadSegment, 0, len(roads))
	for _, r := range roads {
		segments = append(segments, e.Score(r))
	}
	return segments
}

// FilterByScore keeps segments scoring at or above the threshold, preserving
// order.
func FilterByScore(segments []model.RoadSegment, minScore float64) []model.RoadSegment {
	var out []model.RoadSegment
	for _, s := range segments {
		if s.RiskScore >= minScore {
			out = append(out, s)
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
