package export

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/velosafe/safety-cli/internal/criteria"
	"github.com/velosafe/safety-cli/internal/model"
)

// WriteShapefile writes segments as a POLYLINE shapefile with the risk
// attributes in the DBF. Field names are capped at the DBF 10-character
// limit. The route is not written; shapefiles are single-schema and the
// route carries no risk attributes.
func WriteShapefile(path string, segments []model.RoadSegment, crit *criteria.Criteria) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	writer, err := shp.Create(path, shp.POLYLINE)
	if err != nil {
		return eris.Wrapf(err, "export: create shapefile %s", path)
	}
	defer writer.Close()

	writer.SetFields([]shp.Field{
		shp.StringField("NAME", 64),
		shp.NumberField("OSM_ID", 20),
		shp.StringField("HIGHWAY", 24),
		shp.FloatField("RISK", 8, 2),
		shp.StringField("LEVEL", 12),
		shp.NumberField("MAXSPEED", 4),
		shp.NumberField("LANES", 2),
		shp.FloatField("LENGTH_KM", 10, 2),
		shp.StringField("COLOR", 7),
		shp.StringField("FACTORS", 128),
	})

	for i := range segments {
		seg := &segments[i]
		level := crit.LevelFor(seg.RiskScore)

		points := make([]shp.Point, len(seg.Geometry))
		for j, p := range seg.Geometry {
			points[j] = shp.Point{X: p.Lon(), Y: p.Lat()}
		}
		row := int(writer.Write(shp.NewPolyLine([][]shp.Point{points})))

		attrs := []interface{}{
			seg.Name,
			int(seg.ID),
			seg.HighwayType,
			round2(seg.RiskScore),
			string(level),
			seg.MaxSpeedKph,
			seg.LaneCount,
			round2(seg.LengthKm()),
			crit.ColorFor(level),
			strings.Join(seg.RiskFactors, ","),
		}
		for field, value := range attrs {
			if err := writer.WriteAttribute(row, field, value); err != nil {
				return eris.Wrapf(err, "export: write shapefile attribute row %d", row)
			}
		}
	}

	zap.L().Info("export: wrote shapefile",
		zap.String("path", path),
		zap.Int("records", len(segments)),
	)
	return nil
}
