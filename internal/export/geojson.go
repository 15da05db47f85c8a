package export

import (
	"encoding/json"
	"os"

	"github.com/paulmach/orb/geojson"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/velosafe/safety-cli/internal/criteria"
	"github.com/velosafe/safety-cli/internal/model"
)

// WriteGeoJSON writes one LineString feature per segment with the full risk
// attribute bag, plus an optional route feature. An empty segment list still
// yields a valid FeatureCollection.
func WriteGeoJSON(path string, segments []model.RoadSegment, route *model.Route, crit *criteria.Criteria) error {
	fc := geojson.NewFeatureCollection()

	if route != nil {
		f := geojson.NewFeature(route.Points)
		f.Properties["name"] = route.Name
		f.Properties["kind"] = "route"
		f.Properties["color"] = RouteColor
		f.Properties["length_km"] = round2(route.LengthKm())
		fc.Append(f)
	}

	for i := range segments {
		seg := &segments[i]
		level := crit.LevelFor(seg.RiskScore)

		f := geojson.NewFeature(seg.Geometry)
		f.Properties["name"] = seg.Name
		f.Properties["osm_id"] = seg.ID
		f.Properties["highway_type"] = seg.HighwayType
		f.Properties["risk_score"] = round2(seg.RiskScore)
		f.Properties["risk_level"] = string(level)
		f.Properties["risk_factors"] = seg.RiskFactors
		f.Properties["maxspeed"] = seg.MaxSpeedKph
		f.Properties["lanes"] = seg.LaneCount
		f.Properties["has_cycleway"] = seg.HasCycleway
		f.Properties["has_shoulder"] = seg.HasShoulder
		f.Properties["color"] = crit.ColorFor(level)
		f.Properties["length_km"] = round2(seg.LengthKm())
		fc.Append(f)
	}

	if err := ensureDir(path); err != nil {
		return err
	}
	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return eris.Wrap(err, "export: marshal geojson")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "export: write geojson %s", path)
	}

	zap.L().Info("export: wrote geojson",
		zap.String("path", path),
		zap.Int("features", len(fc.Features)),
	)
	return nil
}
