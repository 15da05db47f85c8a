// Package fetcher downloads remote resources over HTTP with an explicit
// retry policy, per-host rate limiting, and byte-count progress reporting.
package fetcher

import (
	"context"
	"io"
)

// ProgressFunc receives download progress. total is -1 when the server does
// not announce a content length.
type ProgressFunc func(downloaded, total int64)

// Fetcher defines the interface for downloading remote data.
type Fetcher interface {
	// Get fetches the URL and returns the response body and the announced
	// content length (-1 if unknown).
	Get(ctx context.Context, url string) (io.ReadCloser, int64, error)

	// DownloadToFile fetches the URL into path, reporting progress. On
	// failure any partial file is removed. Returns bytes written.
	DownloadToFile(ctx context.Context, url, path string, progress ProgressFunc) (int64, error)
}
