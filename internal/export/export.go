// Package export renders scored road segments to the supported output
// formats: GPX tracks, GeoJSON features, ESRI shapefiles, and an XLSX
// summary report. Exporters are side-effect-only: they create parent
// directories as needed and never mutate their inputs.
package export

import (
	"math"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// RouteColor is the fixed color of the analyzed route track, independent of
// risk coloring.
const RouteColor = "#0000FF"

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "export: create output directory %s", dir)
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
