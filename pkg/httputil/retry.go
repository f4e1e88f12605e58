package httputil

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// MaxRetryAfter caps how long a server may ask a client to wait before the
// next attempt. Larger hints are clamped.
const MaxRetryAfter = 30 * time.Second

// RetryableError marks a transient failure (network error, 5xx) that
// [Retry] should attempt again. After, when set, is the server's
// Retry-After hint.
type RetryableError struct {
	Err   error
	After time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err as a RetryableError. It returns nil for a nil err.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// RetryAfter wraps err as a RetryableError carrying a wait hint.
func RetryAfter(err error, after time.Duration) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err, After: after}
}

// IsRetryable reports whether err is wrapped with RetryableError.
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

// Retry runs fn up to attempts times. Only RetryableError failures are
// retried. The delay doubles after each attempt; a Retry-After hint longer
// than the current delay replaces it for that wait.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		var re *RetryableError
		if !errors.As(err, &re) {
			return err
		}
		if i == attempts-1 {
			break
		}

		wait := max(delay, min(re.After, MaxRetryAfter))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
			delay *= 2
		}
	}
	return lastErr
}

// ParseRetryAfter reads a Retry-After header value, given either as
// seconds or as an HTTP date. Unparseable or past values return 0.
func ParseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return max(0, time.Duration(secs)*time.Second)
	}
	if t, err := http.ParseTime(value); err == nil {
		return max(0, t.Sub(now))
	}
	return 0
}
