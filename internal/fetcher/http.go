package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// HTTPOptions configures the HTTP fetcher.
type HTTPOptions struct {
	UserAgent    string
	Timeout      time.Duration
	Retry        RetryPolicy
	RateLimiters map[string]*rate.Limiter
}

// HTTPFetcher implements Fetcher using net/http with retry and rate limiting.
type HTTPFetcher struct {
	client   *http.Client
	opts     HTTPOptions
	limiters map[string]*rate.Limiter
}

// DefaultRateLimiters returns the default per-host rate limiters. The
// Geofabrik mirror is throttled conservatively; extract downloads are large
// and infrequent.
func DefaultRateLimiters() map[string]*rate.Limiter {
	return map[string]*rate.Limiter{
		"download.geofabrik.de": rate.NewLimiter(2, 2),
	}
}

// NewHTTPFetcher creates a new HTTPFetcher with the given options.
func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	if opts.Timeout == 0 {
		// Region extracts run to hundreds of MB.
		opts.Timeout = 10 * time.Minute
	}
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = DefaultRetryPolicy()
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "safety-cli/1.0"
	}
	limiters := make(map[string]*rate.Limiter)
	for k, v := range opts.RateLimiters {
		limiters[k] = v
	}
	transport := &http.Transport{
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		opts:     opts,
		limiters: limiters,
	}
}

func (f *HTTPFetcher) limiterFor(rawURL string) *rate.Limiter {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rate.NewLimiter(10, 10)
	}
	if lim, ok := f.limiters[u.Host]; ok {
		return lim
	}
	return rate.NewLimiter(10, 10)
}

func (f *HTTPFetcher) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	var lastErr error
	for attempt := 0; attempt < f.opts.Retry.MaxAttempts; attempt++ {
		lim := f.limiterFor(req.URL.String())
		if err := lim.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "rate limiter wait")
		}

		cloned := req.Clone(ctx)
		resp, err := f.client.Do(cloned)
		if err != nil {
			lastErr = err
			zap.L().Warn("http request failed, retrying",
				zap.String("url", req.URL.String()),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			f.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode == http.StatusOK {
			return resp, nil
		}

		_ = resp.Body.Close()
		lastErr = eris.Errorf("http %d from %s", resp.StatusCode, req.URL.String())
		if !RetryableStatus(resp.StatusCode) {
			return nil, lastErr
		}
		zap.L().Warn("transient http status, retrying",
			zap.String("url", req.URL.String()),
			zap.Int("status", resp.StatusCode),
			zap.Int("attempt", attempt+1),
		)
		f.sleep(ctx, attempt)
	}

	return nil, eris.Wrap(lastErr, "all retries exhausted")
}

func (f *HTTPFetcher) sleep(ctx context.Context, attempt int) {
	t := time.NewTimer(f.opts.Retry.Backoff(attempt))
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Get fetches the URL and returns the response body and announced length.
func (f *HTTPFetcher) Get(ctx context.Context, rawURL string) (io.ReadCloser, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, eris.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)

	resp, err := f.doWithRetry(ctx, req)
	if err != nil {
		return nil, 0, eris.Wrapf(err, "get %s", rawURL)
	}

	return resp.Body, resp.ContentLength, nil
}

// DownloadToFile fetches the URL into path, reporting progress by byte count.
// A failed download removes the partial file before returning the error.
func (f *HTTPFetcher) DownloadToFile(ctx context.Context, rawURL, path string, progress ProgressFunc) (int64, error) {
	body, total, err := f.Get(ctx, rawURL)
	if err != nil {
		return 0, err
	}
	defer func() { _ = body.Close() }()

	file, err := os.Create(path)
	if err != nil {
		return 0, eris.Wrap(err, "create file")
	}

	w := io.Writer(file)
	if progress != nil {
		w = io.MultiWriter(file, &progressWriter{total: total, report: progress})
	}

	n, err := io.Copy(w, body)
	if cerr := file.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return 0, eris.Wrapf(err, "download %s", rawURL)
	}

	return n, nil
}

// progressWriter invokes the report callback as bytes flow through.
type progressWriter struct {
	total      int64
	downloaded int64
	report     ProgressFunc
}

func (p *progressWriter) Write(b []byte) (int, error) {
	p.downloaded += int64(len(b))
	p.report(p.downloaded, p.total)
	return len(b), nil
}
