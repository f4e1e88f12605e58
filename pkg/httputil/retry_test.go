package httputil

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errTransient = errors.New("transient")

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}
	err := Retryable(errTransient)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if !errors.Is(err, errTransient) {
		t.Error("wrapped error should unwrap to the cause")
	}
	if err.Error() != errTransient.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if IsRetryable(errTransient) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetry(t *testing.T) {
	ctx := context.Background()

	t.Run("success first try", func(t *testing.T) {
		calls := 0
		err := Retry(ctx, 3, time.Millisecond, func() error {
			calls++
			return nil
		})
		if err != nil || calls != 1 {
			t.Errorf("err=%v calls=%d", err, calls)
		}
	})

	t.Run("non-retryable stops immediately", func(t *testing.T) {
		calls := 0
		sentinel := errors.New("not found")
		err := Retry(ctx, 3, time.Millisecond, func() error {
			calls++
			return sentinel
		})
		if err != sentinel || calls != 1 {
			t.Errorf("err=%v calls=%d", err, calls)
		}
	})

	t.Run("retryable recovers", func(t *testing.T) {
		calls := 0
		err := Retry(ctx, 3, time.Millisecond, func() error {
			calls++
			if calls < 3 {
				return Retryable(errTransient)
			}
			return nil
		})
		if err != nil || calls != 3 {
			t.Errorf("err=%v calls=%d", err, calls)
		}
	})

	t.Run("exhausted returns last error", func(t *testing.T) {
		calls := 0
		err := Retry(ctx, 2, time.Millisecond, func() error {
			calls++
			return Retryable(errTransient)
		})
		if !errors.Is(err, errTransient) || calls != 2 {
			t.Errorf("err=%v calls=%d", err, calls)
		}
	})

	t.Run("zero attempts runs once", func(t *testing.T) {
		calls := 0
		_ = Retry(ctx, 0, time.Millisecond, func() error {
			calls++
			return nil
		})
		if calls != 1 {
			t.Errorf("calls=%d", calls)
		}
	})
}

func TestRetry_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, 3, time.Second, func() error {
		return Retryable(errTransient)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}

func TestRetry_HonorsRetryAfter(t *testing.T) {
	calls := 0
	start := time.Now()
	err := Retry(context.Background(), 2, time.Millisecond, func() error {
		calls++
		if calls == 1 {
			return RetryAfter(errTransient, 40*time.Millisecond)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Fatalf("err=%v calls=%d", err, calls)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("waited %v, want at least the Retry-After hint", elapsed)
	}
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"", 0},
		{"7", 7 * time.Second},
		{"-3", 0},
		{"soon", 0},
		{"Sat, 01 Mar 2025 12:00:30 GMT", 30 * time.Second},
		{"Sat, 01 Mar 2025 11:00:00 GMT", 0},
	}
	for _, tt := range tests {
		if got := ParseRetryAfter(tt.value, now); got != tt.want {
			t.Errorf("ParseRetryAfter(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}
