package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Multiplier:     2.0,
	}
}

func TestGetSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("payload"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(HTTPOptions{UserAgent: "test-agent", Retry: fastRetry()})
	body, _, err := f.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	defer func() { _ = body.Close() }()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestGetRetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(HTTPOptions{Retry: fastRetry()})
	body, _, err := f.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	defer func() { _ = body.Close() }()

	assert.Equal(t, int32(3), calls.Load())
}

func TestGetFatalStatusDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(HTTPOptions{Retry: fastRetry()})
	_, _, err := f.Get(context.Background(), srv.URL)
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDownloadToFileReportsProgress(t *testing.T) {
	payload := make([]byte, 64*1024)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "out.bin")
	f := NewHTTPFetcher(HTTPOptions{Retry: fastRetry()})

	var last, total int64
	n, err := f.DownloadToFile(context.Background(), srv.URL, path, func(d, tot int64) {
		last, total = d, tot
	})
	require.NoError(t, err)

	assert.Equal(t, int64(len(payload)), n)
	assert.Equal(t, int64(len(payload)), last)
	assert.Equal(t, int64(len(payload)), total)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), info.Size())
}

func TestDownloadToFileCleansUpPartial(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1000000")
		_, _ = w.Write([]byte("short"))
		// Close without sending the announced length.
		if hj, ok := w.(http.Hijacker); ok {
			conn, _, _ := hj.Hijack()
			_ = conn.Close()
		}
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "partial.bin")
	f := NewHTTPFetcher(HTTPOptions{Retry: RetryPolicy{MaxAttempts: 1, InitialBackoff: time.Millisecond, Multiplier: 2}})

	_, err := f.DownloadToFile(context.Background(), srv.URL, path, nil)
	assert.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRetryableStatus(t *testing.T) {
	assert.True(t, RetryableStatus(http.StatusTooManyRequests))
	assert.True(t, RetryableStatus(http.StatusInternalServerError))
	assert.True(t, RetryableStatus(http.StatusBadGateway))
	assert.False(t, RetryableStatus(http.StatusNotFound))
	assert.False(t, RetryableStatus(http.StatusForbidden))
}

func TestBackoffGrowsAndCaps(t *testing.T) {
	p := RetryPolicy{InitialBackoff: time.Second, MaxBackoff: 3 * time.Second, Multiplier: 2.0}
	assert.Equal(t, time.Second, p.Backoff(0))
	assert.Equal(t, 2*time.Second, p.Backoff(1))
	assert.Equal(t, 3*time.Second, p.Backoff(2)) // capped
}
