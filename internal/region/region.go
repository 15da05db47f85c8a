// Package region maps a route corridor to the minimal set of named OSM
// extracts covering it, downloading and caching the raw data on demand.
//
// The region catalog is a Geofabrik-style GeoJSON index: one feature per
// region with a polygon boundary and per-format download URLs. The catalog
// itself is cached on disk with an explicit freshness window.
package region

import (
	"net/url"
	"path"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rotisserie/eris"

	"github.com/velosafe/safety-cli/internal/geospatial"
)

// Region is one catalog entry exposing a downloadable raw extract.
type Region struct {
	ID       string
	Name     string
	Parent   string
	Boundary orb.Geometry
	DataURL  string
	SizeHint int64 // bytes, 0 when the catalog carries no size
}

// Filename returns the cache filename for the region's extract.
func (r Region) Filename() string {
	u, err := url.Parse(r.DataURL)
	if err != nil {
		return path.Base(r.DataURL)
	}
	return path.Base(u.Path)
}

// ParseIndex decodes a catalog index document into regions. Entries without
// a pbf download URL are skipped, as are entries whose boundary geometry is
// missing or unusable. Relative download URLs resolve against baseURL.
func ParseIndex(data []byte, baseURL string) ([]Region, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, eris.Wrap(err, "region: parse catalog index")
	}

	regions := make([]Region, 0, len(fc.Features))
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		switch f.Geometry.(type) {
		case orb.Polygon, orb.MultiPolygon:
		default:
			continue
		}

		pbfURL := pbfURLFrom(f.Properties)
		if pbfURL == "" {
			continue
		}

		regions = append(regions, Region{
			ID:       f.Properties.MustString("id", "unknown"),
			Name:     f.Properties.MustString("name", "Unknown"),
			Parent:   f.Properties.MustString("parent", ""),
			Boundary: f.Geometry,
			DataURL:  resolveURL(pbfURL, baseURL),
			SizeHint: sizeHintFrom(f.Properties),
		})
	}

	return regions, nil
}

func pbfURLFrom(props geojson.Properties) string {
	urls, ok := props["urls"].(map[string]interface{})
	if !ok {
		return ""
	}
	pbf, _ := urls["pbf"].(string)
	return pbf
}

func sizeHintFrom(props geojson.Properties) int64 {
	switch v := props["size"].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}

func resolveURL(raw, base string) string {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	base = strings.TrimSuffix(base, "/")
	if strings.HasPrefix(raw, "/") {
		return base + raw
	}
	return base + "/" + raw
}

// FindIntersecting returns the regions whose boundary intersects the bound.
func FindIntersecting(regions []Region, bound orb.Bound) []Region {
	var matched []Region
	for _, r := range regions {
		if geospatial.GeometryIntersectsBound(r.Boundary, bound) {
			matched = append(matched, r)
		}
	}
	return matched
}
