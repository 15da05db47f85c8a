// Package route loads the analyzed route as an ordered (lat, lon) point
// sequence, independent of the track file's format. GPX tracks are preferred,
// with a waypoint fallback; a 2-column lat,lon CSV is accepted as well.
package route

import (
	"encoding/csv"
	"encoding/xml"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/velosafe/safety-cli/internal/model"
)

// Load reads a route file, dispatching on the extension.
func Load(path string) (*model.Route, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gpx":
		return LoadGPX(path)
	case ".csv":
		return LoadCSV(path)
	default:
		return nil, eris.Errorf("route: unsupported route format %q (want .gpx or .csv)", filepath.Ext(path))
	}
}

type gpxDoc struct {
	Metadata struct {
		Name string `xml:"name"`
	} `xml:"metadata"`
	Tracks []struct {
		Name     string `xml:"name"`
		Segments []struct {
			Points []gpxPoint `xml:"trkpt"`
		} `xml:"trkseg"`
	} `xml:"trk"`
	Waypoints []gpxPoint `xml:"wpt"`
}

type gpxPoint struct {
	Lat float64 `xml:"lat,attr"`
	Lon float64 `xml:"lon,attr"`
}

// LoadGPX reads all track points in document order; if the file has no
// tracks, waypoints are used instead. A file with neither is an error.
func LoadGPX(path string) (*model.Route, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "route: read gpx %s", path)
	}

	var doc gpxDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrapf(err, "route: parse gpx %s", path)
	}

	var points orb.LineString
	name := doc.Metadata.Name
	for _, trk := range doc.Tracks {
		if name == "" {
			name = trk.Name
		}
		for _, seg := range trk.Segments {
			for _, p := range seg.Points {
				points = append(points, orb.Point{p.Lon, p.Lat})
			}
		}
	}

	if len(points) == 0 && len(doc.Waypoints) > 0 {
		zap.L().Debug("route: no track points, falling back to waypoints",
			zap.String("path", path),
			zap.Int("waypoints", len(doc.Waypoints)),
		)
		for _, p := range doc.Waypoints {
			points = append(points, orb.Point{p.Lon, p.Lat})
		}
	}

	if len(points) == 0 {
		return nil, eris.Errorf("route: no points found in gpx file %s", path)
	}
	if name == "" {
		name = routeName(path)
	}
	return &model.Route{Name: name, Points: points}, nil
}

// LoadCSV reads a lat,lon file. A non-numeric first row is treated as a
// header and skipped.
func LoadCSV(path string) (*model.Route, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "route: open csv %s", path)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "route: parse csv %s", path)
	}

	var points orb.LineString
	for i, rec := range records {
		if len(rec) < 2 {
			return nil, eris.Errorf("route: csv row %d has %d columns, want lat,lon", i+1, len(rec))
		}
		lat, latErr := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
		lon, lonErr := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if latErr != nil || lonErr != nil {
			if i == 0 {
				continue // header row
			}
			return nil, eris.Errorf("route: csv row %d is not numeric lat,lon", i+1)
		}
		points = append(points, orb.Point{lon, lat})
	}

	if len(points) == 0 {
		return nil, eris.Errorf("route: no points found in csv file %s", path)
	}
	return &model.Route{Name: routeName(path), Points: points}, nil
}

func routeName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
