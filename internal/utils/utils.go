package utils

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

var sleep = time.Sleep

func WaitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	pause := sleep
	done := make(chan struct{})
	go func() {
		defer close(done)
		pause(d)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// Backoff decides whether a failed attempt (1-based) is retried and how long to wait first.
type Backoff func(attempt int, err error) (time.Duration, bool)

// Retry calls fn up to attempts times. It stops on success, on a non-retryable
// error or when ctx is done, and returns the last error.
func Retry(ctx context.Context, attempts int, backoff Backoff, fn func(attempt int) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(attempt); err == nil {
			return nil
		}
		if attempt == attempts || backoff == nil {
			break
		}

		delay, ok := backoff(attempt, err)
		if !ok {
			break
		}
		if waitErr := WaitFor(ctx, delay); waitErr != nil {
			return fmt.Errorf("%w (retry aborted: %v)", err, waitErr)
		}
	}

	return err
}

// TruncateForLog trims s and cuts it to limit runes, marking the cut with "...".
// A non-positive limit hides the value entirely.
func TruncateForLog(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "..."
}
