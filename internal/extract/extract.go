// Package extract streams road-like features out of raw OSM data and clips
// them to a route corridor.
//
// Reading the underlying binary format is modeled as the WaySource
// capability: "for each way-like feature, tags plus resolved node
// coordinates". The PBF implementation lives in this package; everything
// downstream depends only on the interface.
package extract

import (
	"context"

	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"github.com/velosafe/safety-cli/internal/geospatial"
	"github.com/velosafe/safety-cli/internal/model"
)

// Way is one way-like feature from a raw data source.
type Way struct {
	ID   int64
	Tags map[string]string
	Line orb.LineString
}

// WaySource streams way-like features with tags and resolved node
// coordinates. Implementations must stop early when the callback errors.
type WaySource interface {
	Ways(ctx context.Context, fn func(Way) error) error
}

// excludedHighways are road classes irrelevant to motor-traffic risk for a
// cyclist sharing the carriageway.
var excludedHighways = map[string]bool{
	"footway":    true,
	"path":       true,
	"cycleway":   true,
	"service":    true,
	"track":      true,
	"steps":      true,
	"pedestrian": true,
	"bridleway":  true,
	"corridor":   true,
}

// Stats counts features at each extraction stage, for observability only.
type Stats struct {
	// Processed is the number of relevant highway ways seen.
	Processed int
	// Filtered is the number of ways with a resolvable line geometry.
	Filtered int
	// Matched is the number of ways whose geometry intersects the corridor.
	Matched int
}

// Roads extracts the road features intersecting the corridor bound. A
// feature needs at least two resolvable coordinates to form a line; ways
// failing that are skipped silently and remain in the processed count.
func Roads(ctx context.Context, src WaySource, corridor orb.Bound) ([]model.RawRoad, Stats, error) {
	log := zap.L().With(zap.String("component", "extract"))

	var roads []model.RawRoad
	var stats Stats

	err := src.Ways(ctx, func(w Way) error {
		highway := w.Tags["highway"]
		if highway == "" || excludedHighways[highway] {
			return nil
		}
		stats.Processed++

		if len(w.Line) < 2 {
			return nil
		}
		stats.Filtered++
		if !geospatial.LineIntersectsBound(w.Line, corridor) {
			return nil
		}
		stats.Matched++

		name := w.Tags["name"]
		if name == "" {
			name = model.UnnamedRoad
		}

		roads = append(roads, model.RawRoad{
			ID:       w.ID,
			Name:     name,
			Highway:  highway,
			MaxSpeed: w.Tags["maxspeed"],
			Lanes:    w.Tags["lanes"],
			Surface:  w.Tags["surface"],
			Cycleway: w.Tags["cycleway"],
			Shoulder: w.Tags["shoulder"],
			Bicycle:  w.Tags["bicycle"],
			Geometry: w.Line,
		})
		return nil
	})
	if err != nil {
		return nil, stats, err
	}

	log.Info("road extraction complete",
		zap.Int("processed", stats.Processed),
		zap.Int("filtered", stats.Filtered),
		zap.Int("matched", stats.Matched),
	)
	return roads, stats, nil
}
