package fetcher

import (
	"math"
	"math/rand"
	"net/http"
	"time"
)

// RetryPolicy controls retry behavior with exponential backoff and jitter.
// Retryable vs. fatal outcomes are classified explicitly rather than decided
// per call site.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts (including the first try).
	// A value of 1 means no retries. Default: 3.
	MaxAttempts int

	// InitialBackoff is the base delay before the first retry. Default: 1s.
	InitialBackoff time.Duration

	// MaxBackoff caps the backoff duration. Default: 30s.
	MaxBackoff time.Duration

	// Multiplier scales the backoff after each attempt. Default: 2.0.
	Multiplier float64

	// JitterFraction adds random jitter as a fraction of the computed delay.
	// Default: 0.25.
	JitterFraction float64
}

// DefaultRetryPolicy returns the retry policy used for catalog and extract
// downloads.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		InitialBackoff: time.Second,
		MaxBackoff:     30 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.25,
	}
}

// RetryableStatus classifies HTTP status codes. 429 and 5xx are transient;
// other 4xx codes are fatal.
func RetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// Backoff returns the sleep duration before retry attempt (0-based).
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	d := time.Duration(float64(p.InitialBackoff) * math.Pow(p.Multiplier, float64(attempt)))
	if d > p.MaxBackoff {
		d = p.MaxBackoff
	}
	if p.JitterFraction > 0 {
		jitter := time.Duration(rand.Int63n(int64(float64(d) * p.JitterFraction)))
		d += jitter
	}
	return d
}
