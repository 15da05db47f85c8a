package region

import (
	"context"
	"io"

	"github.com/paulmach/orb"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/velosafe/safety-cli/internal/fetcher"
	"github.com/velosafe/safety-cli/internal/geospatial"
)

// Resolver maps a route plus buffer distance to locally available extract
// files, consulting the cached catalog and downloading on miss. Resolution
// is deterministic for an unchanged catalog snapshot and identical inputs.
type Resolver struct {
	fetch    fetcher.Fetcher
	cache    *Cache
	indexURL string
	baseURL  string
	log      *zap.Logger
}

// NewResolver creates a resolver over the given fetcher and cache.
func NewResolver(f fetcher.Fetcher, cache *Cache, indexURL, baseURL string) *Resolver {
	return &Resolver{
		fetch:    f,
		cache:    cache,
		indexURL: indexURL,
		baseURL:  baseURL,
		log:      zap.L().With(zap.String("component", "region.resolver")),
	}
}

// Select returns the optimized region set covering the route corridor,
// without downloading anything. Used by Resolve and by dry-run inspection.
func (r *Resolver) Select(ctx context.Context, route orb.LineString, bufferKm float64) ([]Region, error) {
	index, err := r.loadIndex(ctx)
	if err != nil {
		return nil, err
	}

	regions, err := ParseIndex(index, r.baseURL)
	if err != nil {
		return nil, err
	}
	r.log.Debug("catalog loaded", zap.Int("regions", len(regions)))

	bound := geospatial.RouteBound(route, bufferKm)
	candidates := FindIntersecting(regions, bound)
	if len(candidates) == 0 {
		return nil, eris.Errorf(
			"region: no catalog region covers the route (bbox %.4f,%.4f to %.4f,%.4f); "+
				"download an extract manually and pass it with --osm-file to bypass region resolution",
			bound.Min.Lat(), bound.Min.Lon(), bound.Max.Lat(), bound.Max.Lon(),
		)
	}

	selected := Optimize(candidates)
	names := make([]string, len(selected))
	for i, reg := range selected {
		names[i] = reg.Name
	}
	r.log.Info("regions selected",
		zap.Int("candidates", len(candidates)),
		zap.Strings("selected", names),
	)
	return selected, nil
}

// Resolve selects the covering regions and ensures each extract is present
// locally, returning the file paths.
func (r *Resolver) Resolve(ctx context.Context, route orb.LineString, bufferKm float64) ([]string, error) {
	selected, err := r.Select(ctx, route, bufferKm)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(selected))
	for _, reg := range selected {
		p, err := r.ensureExtract(ctx, reg)
		if err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// loadIndex returns the catalog document: the cache when fresh, otherwise a
// fresh fetch. A failed fetch falls back to a stale cache with a warning;
// with neither cache nor network the resolution is fatal.
func (r *Resolver) loadIndex(ctx context.Context) ([]byte, error) {
	data, fresh, ok := r.cache.LoadIndex()
	if ok && fresh {
		return data, nil
	}

	fetched, err := r.fetchIndex(ctx)
	if err == nil {
		if serr := r.cache.StoreIndex(fetched); serr != nil {
			r.log.Warn("could not persist catalog index cache", zap.Error(serr))
		}
		return fetched, nil
	}

	if ok {
		r.log.Warn("catalog refresh failed, using stale cached index", zap.Error(err))
		return data, nil
	}
	return nil, eris.Wrap(err,
		"region: catalog index unavailable (no cache, fetch failed); check connectivity or pass --osm-file")
}

func (r *Resolver) fetchIndex(ctx context.Context) ([]byte, error) {
	r.log.Info("downloading region catalog index", zap.String("url", r.indexURL))
	body, _, err := r.fetch.Get(ctx, r.indexURL)
	if err != nil {
		return nil, err
	}
	defer func() { _ = body.Close() }()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, eris.Wrap(err, "region: read catalog index")
	}
	return data, nil
}

// ensureExtract returns the local path of the region's extract, downloading
// it when absent. An existing non-empty file of the expected name is reused
// without any network call.
func (r *Resolver) ensureExtract(ctx context.Context, reg Region) (string, error) {
	filename := reg.Filename()
	path := r.cache.ExtractPath(filename)

	if r.cache.HasExtract(filename) {
		r.log.Info("using cached extract", zap.String("file", filename))
		return path, nil
	}

	r.log.Info("downloading extract",
		zap.String("region", reg.Name),
		zap.String("url", reg.DataURL),
	)

	var lastLogged int64
	n, err := r.fetch.DownloadToFile(ctx, reg.DataURL, path, func(downloaded, total int64) {
		// Log every 25 MB to keep long downloads observable without spam.
		const step = 25 << 20
		if downloaded-lastLogged < step {
			return
		}
		lastLogged = downloaded
		r.log.Info("download progress",
			zap.String("file", filename),
			zap.Int64("downloaded_bytes", downloaded),
			zap.Int64("total_bytes", total),
		)
	})
	if err != nil {
		return "", eris.Wrapf(err, "region: download %s", reg.Name)
	}

	r.log.Info("extract downloaded",
		zap.String("file", filename),
		zap.Int64("size_bytes", n),
	)
	return path, nil
}
