package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/velosafe/safety-cli/internal/analyzer"
	"github.com/velosafe/safety-cli/internal/criteria"
	"github.com/velosafe/safety-cli/internal/export"
	"github.com/velosafe/safety-cli/internal/geospatial"
	"github.com/velosafe/safety-cli/internal/model"
	"github.com/velosafe/safety-cli/internal/route"
	"github.com/velosafe/safety-cli/internal/scoring"
)

var analyzeFlags struct {
	routeFile     string
	bufferKm      float64
	minRiskScore  float64
	criteriaFile  string
	osmFiles      []string
	outputGPX     string
	outputGeoJSON string
	outputSHP     string
	outputXLSX    string
	includeRoute  bool
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a route for unsafe roads",
	Long:  "Loads a route, resolves and downloads the OSM extracts covering its corridor, scores every road in the corridor for cyclist risk, and exports the segments above the risk threshold.",
	RunE:  runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeFlags.routeFile, "route", "", "route file (.gpx or .csv) (required)")
	f.Float64Var(&analyzeFlags.bufferKm, "buffer-km", 0, "corridor buffer around the route in km (default from config)")
	f.Float64Var(&analyzeFlags.minRiskScore, "min-risk-score", -1, "minimum risk score to report (default from config)")
	f.StringVar(&analyzeFlags.criteriaFile, "criteria", "", "criteria YAML file (default: built-in criteria)")
	f.StringSliceVar(&analyzeFlags.osmFiles, "osm-file", nil, "local .osm.pbf file(s), bypassing region resolution")
	f.StringVar(&analyzeFlags.outputGPX, "output-gpx", "", "write unsafe segments as GPX tracks")
	f.StringVar(&analyzeFlags.outputGeoJSON, "output-geojson", "", "write unsafe segments as GeoJSON features")
	f.StringVar(&analyzeFlags.outputSHP, "output-shp", "", "write unsafe segments as an ESRI shapefile")
	f.StringVar(&analyzeFlags.outputXLSX, "output-xlsx", "", "write an XLSX summary report")
	f.BoolVar(&analyzeFlags.includeRoute, "include-route", true, "include the analyzed route in GPX/GeoJSON output")
	_ = analyzeCmd.MarkFlagRequired("route")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	rt, err := route.Load(analyzeFlags.routeFile)
	if err != nil {
		return err
	}
	fmt.Printf("Loaded route %q: %d points, %.1f km\n", rt.Name, len(rt.Points), rt.LengthKm())

	crit, err := loadCriteria()
	if err != nil {
		return err
	}

	resolver, _, err := buildResolver()
	if err != nil {
		return err
	}

	opts := analyzer.Options{
		BufferKm:     cfg.Analysis.BufferKm,
		MinRiskScore: cfg.Analysis.MinRiskScore,
		OSMFiles:     analyzeFlags.osmFiles,
	}
	if cmd.Flags().Changed("buffer-km") {
		opts.BufferKm = analyzeFlags.bufferKm
	}
	if cmd.Flags().Changed("min-risk-score") {
		opts.MinRiskScore = analyzeFlags.minRiskScore
	}

	a := analyzer.New(resolver, scoring.NewEngine(crit))
	result, err := a.Analyze(cmd.Context(), rt, opts)
	if err != nil {
		return err
	}

	analyzer.WriteSummary(os.Stdout, result, crit)

	return writeOutputs(result, crit)
}

// loadCriteria resolves the criteria source: an explicit file (flag, then
// config) is required to load cleanly; without one the built-in defaults
// apply.
func loadCriteria() (*criteria.Criteria, error) {
	path := analyzeFlags.criteriaFile
	if path == "" {
		path = cfg.Analysis.CriteriaFile
	}
	if path == "" {
		return criteria.Default(), nil
	}
	return criteria.Load(path)
}

// routeSimplifyToleranceDeg is roughly 5 m; GPS tracks are far denser than a
// visualization needs.
const routeSimplifyToleranceDeg = 0.00005

func writeOutputs(result *analyzer.Result, crit *criteria.Criteria) error {
	var exportRoute *model.Route
	if analyzeFlags.includeRoute {
		exportRoute = &model.Route{
			Name:   result.Route.Name,
			Points: geospatial.SimplifyLine(result.Route.Points, routeSimplifyToleranceDeg),
		}
	}

	outGPX := analyzeFlags.outputGPX
	if outGPX == "" && analyzeFlags.outputGeoJSON == "" &&
		analyzeFlags.outputSHP == "" && analyzeFlags.outputXLSX == "" {
		outGPX = "output/unsafe_roads.gpx"
	}

	if outGPX != "" {
		if err := export.WriteGPX(outGPX, result.Segments, exportRoute, crit); err != nil {
			return err
		}
		fmt.Printf("Exported %d unsafe road segments to %s\n", len(result.Segments), outGPX)
	}
	if path := analyzeFlags.outputGeoJSON; path != "" {
		if err := export.WriteGeoJSON(path, result.Segments, exportRoute, crit); err != nil {
			return err
		}
		fmt.Printf("Exported %d road segments to GeoJSON: %s\n", len(result.Segments), path)
	}
	if path := analyzeFlags.outputSHP; path != "" {
		if err := export.WriteShapefile(path, result.Segments, crit); err != nil {
			return err
		}
		fmt.Printf("Exported %d road segments to shapefile: %s\n", len(result.Segments), path)
	}
	if path := analyzeFlags.outputXLSX; path != "" {
		meta := export.ReportMeta{
			RunID:         result.RunID,
			RouteName:     result.Route.Name,
			RouteLengthKm: result.Route.LengthKm(),
			MinRiskScore:  result.MinRiskScore,
			GeneratedAt:   result.StartedAt,
		}
		if err := export.WriteXLSX(path, result.Segments, meta, crit); err != nil {
			return err
		}
		fmt.Printf("Wrote XLSX report: %s\n", path)
	}
	return nil
}
