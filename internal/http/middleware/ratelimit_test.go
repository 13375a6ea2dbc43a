package middleware

import (
	"testing"
	"time"
)

func TestLoginLimiterBlocksAfterBurst(t *testing.T) {
	l := NewLoginLimiter(3)

	for i := 0; i < 3; i++ {
		if !l.allow("1.2.3.4") {
			t.Fatalf("attempt %d should pass within the burst", i+1)
		}
	}
	if l.allow("1.2.3.4") {
		t.Fatalf("attempt past the burst should be blocked")
	}

	// Budgets are per client.
	if !l.allow("5.6.7.8") {
		t.Fatalf("second client should not share the first client's budget")
	}
}

func TestLoginLimiterSweepsIdleEntriesInline(t *testing.T) {
	l := NewLoginLimiter(3)
	l.allow("1.2.3.4")

	l.mu.Lock()
	l.limiters["1.2.3.4"].lastAccess = time.Now().Add(-time.Hour)
	l.lastSweep = time.Now().Add(-time.Hour)
	l.mu.Unlock()

	// The next request from anyone triggers the sweep.
	l.allow("5.6.7.8")

	l.mu.Lock()
	_, stale := l.limiters["1.2.3.4"]
	l.mu.Unlock()
	if stale {
		t.Fatalf("idle entry should be swept on the next request")
	}
}
