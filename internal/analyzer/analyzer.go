// Package analyzer orchestrates the safety pipeline: resolve the OSM extracts
// covering the route corridor, stream and clip road features, deduplicate
// across extracts, score, and threshold-filter.
package analyzer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/velosafe/safety-cli/internal/extract"
	"github.com/velosafe/safety-cli/internal/geospatial"
	"github.com/velosafe/safety-cli/internal/model"
	"github.com/velosafe/safety-cli/internal/region"
	"github.com/velosafe/safety-cli/internal/scoring"
)

// highwayTag is the tag key that marks a way as part of the road network.
const highwayTag = "highway"

// Options control one analysis run.
type Options struct {
	// BufferKm widens the route's bounding box into the analyzed corridor.
	BufferKm float64
	// MinRiskScore drops segments scoring below it from the result.
	MinRiskScore float64
	// OSMFiles, when set, bypasses region resolution and reads these local
	// .osm.pbf files instead.
	OSMFiles []string
}

// Resolver is the region-resolution capability the analyzer needs; it is
// satisfied by *region.Resolver.
type Resolver interface {
	Resolve(ctx context.Context, route orb.LineString, bufferKm float64) ([]string, error)
}

// Analyzer runs the pipeline. The scoring engine and resolver are fixed at
// construction; each Analyze call is independent.
type Analyzer struct {
	resolver Resolver
	engine   *scoring.Engine
	log      *zap.Logger

	// openSource builds a way source for one resolved file; swapped out in
	// tests to avoid real PBF fixtures.
	openSource func(path string) (extract.WaySource, error)
}

// New creates an analyzer over the given resolver and scoring engine.
func New(resolver Resolver, engine *scoring.Engine) *Analyzer {
	return &Analyzer{
		resolver: resolver,
		engine:   engine,
		log:      zap.L().With(zap.String("component", "analyzer")),
		openSource: func(path string) (extract.WaySource, error) {
			return extract.NewPBFSource(path, highwayTag)
		},
	}
}

// Result is the outcome of one analysis run, carrying the filtered segments
// plus per-stage counters for the user-visible summary.
type Result struct {
	RunID       string
	Route       *model.Route
	StartedAt   time.Time
	Corridor    orb.Bound
	SourceFiles []string

	Extraction  extract.Stats
	RawCount    int                 // matched roads across all extracts, before dedup
	UniqueCount int                 // after dedup
	Segments    []model.RoadSegment // scored, at or above the threshold

	MinRiskScore float64
}

// UnsafeLengthKm is the summed length of the segments above the threshold.
func (r *Result) UnsafeLengthKm() float64 {
	var total float64
	for i := range r.Segments {
		total += r.Segments[i].LengthKm()
	}
	return total
}

// AverageRisk is the mean risk score of the kept segments, 0 when empty.
func (r *Result) AverageRisk() float64 {
	if len(r.Segments) == 0 {
		return 0
	}
	var total float64
	for i := range r.Segments {
		total += r.Segments[i].RiskScore
	}
	return total / float64(len(r.Segments))
}

// TierBreakdown counts kept segments per risk level.
func (r *Result) TierBreakdown(level func(float64) model.RiskLevel) map[model.RiskLevel]int {
	breakdown := make(map[model.RiskLevel]int)
	for i := range r.Segments {
		breakdown[level(r.Segments[i].RiskScore)]++
	}
	return breakdown
}

// Analyze runs the full pipeline for one route.
func (a *Analyzer) Analyze(ctx context.Context, rt *model.Route, opts Options) (*Result, error) {
	if rt == nil || len(rt.Points) == 0 {
		return nil, eris.New("analyzer: route has no points")
	}

	result := &Result{
		RunID:        uuid.NewString(),
		Route:        rt,
		StartedAt:    time.Now(),
		Corridor:     geospatial.RouteBound(rt.Points, opts.BufferKm),
		MinRiskScore: opts.MinRiskScore,
	}
	log := a.log.With(zap.String("run_id", result.RunID))

	log.Info("analysis started",
		zap.String("route", rt.Name),
		zap.Float64("route_km", rt.LengthKm()),
		zap.Float64("buffer_km", opts.BufferKm),
		zap.Float64("min_risk_score", opts.MinRiskScore),
	)

	paths, err := a.sourceFiles(ctx, rt, opts)
	if err != nil {
		return nil, err
	}
	result.SourceFiles = paths

	var roads []model.RawRoad
	for _, path := range paths {
		src, err := a.openSource(path)
		if err != nil {
			return nil, err
		}
		extracted, stats, err := extract.Roads(ctx, src, result.Corridor)
		if err != nil {
			return nil, eris.Wrapf(err, "analyzer: extract roads from %s", path)
		}
		log.Info("extract complete",
			zap.String("file", path),
			zap.Int("processed", stats.Processed),
			zap.Int("matched", stats.Matched),
		)
		roads = append(roads, extracted...)
		result.Extraction.Processed += stats.Processed
		result.Extraction.Filtered += stats.Filtered
		result.Extraction.Matched += stats.Matched
	}
	result.RawCount = len(roads)

	unique := scoring.Deduplicate(roads)
	result.UniqueCount = len(unique)

	segments := a.engine.ScoreAll(unique)
	result.Segments = scoring.FilterByScore(segments, opts.MinRiskScore)

	log.Info("analysis complete",
		zap.Int("roads", result.UniqueCount),
		zap.Int("unsafe", len(result.Segments)),
		zap.Float64("unsafe_km", result.UnsafeLengthKm()),
		zap.Duration("elapsed", time.Since(result.StartedAt)),
	)
	return result, nil
}

func (a *Analyzer) sourceFiles(ctx context.Context, rt *model.Route, opts Options) ([]string, error) {
	if len(opts.OSMFiles) > 0 {
		a.log.Info("using manual osm files", zap.Strings("files", opts.OSMFiles))
		return opts.OSMFiles, nil
	}
	paths, err := a.resolver.Resolve(ctx, rt.Points, opts.BufferKm)
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// Compile-time check that the concrete resolver satisfies the capability.
var _ Resolver = (*region.Resolver)(nil)
