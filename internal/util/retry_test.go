// ABOUTME: Tests for exponential backoff calculation
// ABOUTME: Verifies zero-attempt, growth, cap and jitter bounds
package util

import (
	"testing"
	"time"
)

func TestCalculateBackoff(t *testing.T) {
	base := 100 * time.Millisecond

	t.Run("zero attempt returns zero", func(t *testing.T) {
		if got := CalculateBackoff(base, 0); got != 0 {
			t.Errorf("CalculateBackoff(base, 0) = %v, want 0", got)
		}
	})

	t.Run("negative attempt returns zero", func(t *testing.T) {
		if got := CalculateBackoff(base, -1); got != 0 {
			t.Errorf("CalculateBackoff(base, -1) = %v, want 0", got)
		}
	})

	t.Run("backoff grows with attempts", func(t *testing.T) {
		// Jitter is +/- 25%, so compare against the worst case bounds.
		b1 := CalculateBackoff(base, 1)
		b3 := CalculateBackoff(base, 3)
		if b1 <= 0 {
			t.Errorf("attempt 1 backoff = %v, want > 0", b1)
		}
		// attempt 1: 200ms +/- 50ms; attempt 3: 800ms +/- 200ms
		if b3 <= b1 {
			t.Errorf("attempt 3 backoff %v not greater than attempt 1 %v", b3, b1)
		}
	})

	t.Run("backoff is capped", func(t *testing.T) {
		got := CalculateBackoff(base, 30)
		// Cap is 30s, jitter adds at most +25%
		if got > 38*time.Second {
			t.Errorf("capped backoff = %v, want <= 37.5s", got)
		}
	})

	t.Run("jitter stays within bounds", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			got := CalculateBackoff(base, 2)
			// attempt 2: 400ms, jitter -100ms..+100ms
			if got < 300*time.Millisecond || got > 500*time.Millisecond {
				t.Fatalf("attempt 2 backoff = %v, want within [300ms, 500ms]", got)
			}
		}
	})
}
