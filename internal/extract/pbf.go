package extract

import (
	"context"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// PBFSource streams tagged ways out of an OSM PBF file.
//
// Node coordinates are stored separately from ways in the PBF layout, so the
// source makes two scans: one collecting candidate ways, one resolving only
// the node ids those ways reference. Memory stays bounded by the candidate
// set rather than the whole file.
type PBFSource struct {
	path      string
	filterKey string
}

// NewPBFSource opens an OSM PBF file as a way source, keeping only ways
// carrying filterKey. A missing or unreadable file is a fatal precondition.
func NewPBFSource(path, filterKey string) (*PBFSource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, eris.Wrapf(err, "extract: osm data file %s", path)
	}
	if info.IsDir() {
		return nil, eris.Errorf("extract: %s is a directory, expected an .osm.pbf file", path)
	}
	return &PBFSource{path: path, filterKey: filterKey}, nil
}

// Ways streams every way carrying the filter tag, with coordinates resolved
// for all locatable nodes. Ways referencing nodes whose positions are absent
// from the file are delivered with the resolvable subset; the consumer
// decides whether that is enough geometry.
func (s *PBFSource) Ways(ctx context.Context, fn func(Way) error) error {
	ways, needed, err := s.scanWays(ctx)
	if err != nil {
		return err
	}
	zap.L().Debug("pbf way scan complete",
		zap.String("file", s.path),
		zap.Int("ways", len(ways)),
		zap.Int("nodes_needed", len(needed)),
	)

	coords, err := s.scanNodes(ctx, needed)
	if err != nil {
		return err
	}

	for _, w := range ways {
		line := make(orb.LineString, 0, len(w.Nodes))
		for _, n := range w.Nodes {
			if p, ok := coords[n.ID]; ok {
				line = append(line, p)
			}
		}
		if err := fn(Way{ID: int64(w.ID), Tags: w.TagMap(), Line: line}); err != nil {
			return err
		}
	}
	return nil
}

// scanWays collects ways carrying the filter tag and the node ids they need.
func (s *PBFSource) scanWays(ctx context.Context) ([]*osm.Way, map[osm.NodeID]struct{}, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "extract: open %s", s.path)
	}
	defer func() { _ = f.Close() }()

	scanner := osmpbf.New(ctx, f, 2)
	defer func() { _ = scanner.Close() }()
	scanner.SkipNodes = true
	scanner.SkipRelations = true

	var ways []*osm.Way
	needed := make(map[osm.NodeID]struct{})

	for scanner.Scan() {
		w, ok := scanner.Object().(*osm.Way)
		if !ok {
			continue
		}
		if s.filterKey != "" && w.Tags.Find(s.filterKey) == "" {
			continue
		}
		ways = append(ways, w)
		for _, n := range w.Nodes {
			needed[n.ID] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, eris.Wrapf(err, "extract: scan ways in %s", s.path)
	}
	return ways, needed, nil
}

// scanNodes resolves coordinates for the needed node ids. Nodes absent from
// the file simply do not appear in the result.
func (s *PBFSource) scanNodes(ctx context.Context, needed map[osm.NodeID]struct{}) (map[osm.NodeID]orb.Point, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, eris.Wrapf(err, "extract: open %s", s.path)
	}
	defer func() { _ = f.Close() }()

	scanner := osmpbf.New(ctx, f, 2)
	defer func() { _ = scanner.Close() }()
	scanner.SkipWays = true
	scanner.SkipRelations = true

	coords := make(map[osm.NodeID]orb.Point, len(needed))
	for scanner.Scan() {
		n, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		if _, want := needed[n.ID]; want {
			coords[n.ID] = orb.Point{n.Lon, n.Lat}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrapf(err, "extract: scan nodes in %s", s.path)
	}
	return coords, nil
}
