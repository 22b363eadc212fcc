package http

import (
	"net/http"
	"testing"
	"time"
)

func TestRateLimiterBudgetsWritesPerIP(t *testing.T) {
	var metrics securityMetrics
	rl := newRateLimiter(2, time.Minute, &metrics)
	defer rl.stop()

	if !rl.allow(http.MethodPost, "10.0.0.1") || !rl.allow(http.MethodPost, "10.0.0.1") {
		t.Fatal("requests within the budget must pass")
	}
	if rl.allow(http.MethodPost, "10.0.0.1") {
		t.Fatal("third write in the window must be rejected")
	}
	if metrics.rateLimitHits != 1 {
		t.Fatalf("rateLimitHits = %d", metrics.rateLimitHits)
	}

	// Another client has its own budget.
	if !rl.allow(http.MethodDelete, "10.0.0.2") {
		t.Fatal("other clients must not share the exhausted budget")
	}
}

func TestRateLimiterNeverLimitsReads(t *testing.T) {
	rl := newRateLimiter(1, time.Minute, nil)
	defer rl.stop()

	for i := 0; i < 50; i++ {
		if !rl.allow(http.MethodGet, "10.0.0.1") {
			t.Fatalf("GET %d was limited", i)
		}
	}
	if !rl.allow(http.MethodHead, "10.0.0.1") {
		t.Fatal("HEAD was limited")
	}
	// The read traffic must not have consumed the write budget.
	if !rl.allow(http.MethodPost, "10.0.0.1") {
		t.Fatal("first write after reads must pass")
	}
}

func TestRateLimiterWindowResets(t *testing.T) {
	rl := newRateLimiter(1, 20*time.Millisecond, nil)
	defer rl.stop()

	if !rl.allow(http.MethodPost, "10.0.0.1") {
		t.Fatal("first write must pass")
	}
	if rl.allow(http.MethodPost, "10.0.0.1") {
		t.Fatal("second write in the same window must be rejected")
	}

	time.Sleep(30 * time.Millisecond)
	if !rl.allow(http.MethodPost, "10.0.0.1") {
		t.Fatal("budget must reset after the window elapses")
	}
}

func TestRateLimiterZeroConfigUsesDefaults(t *testing.T) {
	rl := newRateLimiter(0, 0, nil)
	defer rl.stop()

	if rl.limit != defaultWriteLimit || rl.window != time.Minute {
		t.Fatalf("defaults: limit=%d window=%s", rl.limit, rl.window)
	}
}
