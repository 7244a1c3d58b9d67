package store

import (
	"log"
	"time"
)

const (
	// retryAttempts bounds the retry loop, including the first try.
	retryAttempts = 3
	// retryBaseBackoff doubles on every failed attempt.
	retryBaseBackoff = 500 * time.Millisecond
)

// withRetry runs op, retrying transient failures with exponential backoff.
// When the final attempt still fails transiently it returns the
// caller-supplied fallback with a nil error; callers that cannot accept a
// fallback (insert) must treat the fallback value as a failure themselves.
// Non-transient errors propagate immediately. The backoff sleep is a plain
// timed wait; an in-flight retry sequence cannot be cancelled.
func withRetry[T any](op string, fallback T, fn func() (T, error)) (T, error) {
	var lastErr error
	for attempt := 0; attempt < retryAttempts; attempt++ {
		v, err := fn()
		if err == nil {
			return v, nil
		}
		if !IsTransient(err) {
			return v, err
		}
		lastErr = err
		if attempt < retryAttempts-1 {
			time.Sleep(retryBaseBackoff << attempt)
		}
	}

	log.Printf("store: %s still failing after %d attempts, using fallback: %v", op, retryAttempts, lastErr)
	return fallback, nil
}
