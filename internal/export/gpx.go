package export

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	"github.com/paulmach/orb"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/velosafe/safety-cli/internal/criteria"
	"github.com/velosafe/safety-cli/internal/model"
)

const (
	gpxNamespace      = "http://www.topografix.com/GPX/1/1"
	gpxStyleNamespace = "http://www.topografix.com/GPX/gpx_style/0/2"
	gpxCreator        = "safety-cli"
)

// gpxFile is the GPX 1.1 document layout, carrying the gpx_style extension
// namespace so viewers pick up per-track line colors.
type gpxFile struct {
	XMLName    xml.Name    `xml:"gpx"`
	Version    string      `xml:"version,attr"`
	Creator    string      `xml:"creator,attr"`
	Xmlns      string      `xml:"xmlns,attr"`
	XmlnsStyle string      `xml:"xmlns:gpx_style,attr"`
	Metadata   gpxMetadata `xml:"metadata"`
	Tracks     []gpxTrack  `xml:"trk"`
}

type gpxMetadata struct {
	Name        string `xml:"name"`
	Description string `xml:"desc"`
}

type gpxTrack struct {
	Name       string         `xml:"name"`
	Desc       string         `xml:"desc,omitempty"`
	Extensions *gpxExtensions `xml:"extensions,omitempty"`
	Segments   []gpxTrackSeg  `xml:"trkseg"`
}

type gpxExtensions struct {
	Line gpxLine `xml:"gpx_style:line"`
}

type gpxLine struct {
	Color string `xml:"gpx_style:color"`
}

type gpxTrackSeg struct {
	Points []gpxTrackPoint `xml:"trkpt"`
}

type gpxTrackPoint struct {
	Lat float64 `xml:"lat,attr"`
	Lon float64 `xml:"lon,attr"`
}

// WriteGPX writes one track per segment, named with the road name and risk
// score, colored by risk tier. When route is non-nil it becomes the first
// track in a fixed blue, independent of risk coloring. An empty segment list
// still yields a well-formed document.
func WriteGPX(path string, segments []model.RoadSegment, route *model.Route, crit *criteria.Criteria) error {
	doc := gpxFile{
		Version:    "1.1",
		Creator:    gpxCreator,
		Xmlns:      gpxNamespace,
		XmlnsStyle: gpxStyleNamespace,
		Metadata: gpxMetadata{
			Name: "Unsafe Roads Analysis",
			Description: fmt.Sprintf("Safety analysis of %d road segments. "+
				"Import to GPX Studio or similar tool for visualization.", len(segments)),
		},
	}

	if route != nil {
		doc.Tracks = append(doc.Tracks, gpxTrack{
			Name:       route.Name,
			Desc:       fmt.Sprintf("Analyzed route (%.1f km)", route.LengthKm()),
			Extensions: &gpxExtensions{Line: gpxLine{Color: gpxColor(RouteColor)}},
			Segments:   []gpxTrackSeg{{Points: toTrackPoints(route.Points)}},
		})
	}

	for i := range segments {
		seg := &segments[i]
		level := crit.LevelFor(seg.RiskScore)
		doc.Tracks = append(doc.Tracks, gpxTrack{
			Name: fmt.Sprintf("%s (Risk: %.1f)", seg.Name, seg.RiskScore),
			Desc: fmt.Sprintf("Highway: %s | Risk: %s (%.1f/10) | Factors: %s",
				seg.HighwayType, level, seg.RiskScore, strings.Join(seg.RiskFactors, ", ")),
			Extensions: &gpxExtensions{Line: gpxLine{Color: gpxColor(crit.ColorFor(level))}},
			Segments:   []gpxTrackSeg{{Points: toTrackPoints(seg.Geometry)}},
		})
	}

	if err := ensureDir(path); err != nil {
		return err
	}
	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return eris.Wrap(err, "export: marshal gpx")
	}
	data = append([]byte(xml.Header), data...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "export: write gpx %s", path)
	}

	zap.L().Info("export: wrote gpx",
		zap.String("path", path),
		zap.Int("tracks", len(doc.Tracks)),
	)
	return nil
}

func toTrackPoints(line orb.LineString) []gpxTrackPoint {
	points := make([]gpxTrackPoint, len(line))
	for i, p := range line {
		points[i] = gpxTrackPoint{Lat: p.Lat(), Lon: p.Lon()}
	}
	return points
}

// gpxColor strips the leading "#": gpx_style colors are bare hex.
func gpxColor(hex string) string {
	return strings.TrimPrefix(hex, "#")
}
