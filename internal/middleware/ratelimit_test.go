package middleware

import (
	"testing"
	"time"

	"github.com/yungbote/insightpath-backend/internal/logger"
)

func TestRateLimiterWindow(t *testing.T) {
	rl := NewRateLimiter(logger.NewNop(), 3, time.Minute)

	clock := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	for i := 0; i < 3; i++ {
		if !rl.Allow("alice") {
			t.Fatalf("request %d inside limit was rejected", i+1)
		}
	}
	if rl.Allow("alice") {
		t.Fatal("request over limit was allowed")
	}

	// A different caller has its own window.
	if !rl.Allow("bob") {
		t.Fatal("independent caller was rejected")
	}

	// 30s later the window is still full.
	clock = clock.Add(30 * time.Second)
	if rl.Allow("alice") {
		t.Fatal("request allowed before the window slid")
	}

	// Past the interval the oldest entries expire and capacity returns.
	clock = clock.Add(31 * time.Second)
	if !rl.Allow("alice") {
		t.Fatal("request rejected after the window slid")
	}
}

func TestRateLimiterExactBoundary(t *testing.T) {
	rl := NewRateLimiter(logger.NewNop(), 1, time.Minute)

	start := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	clock := start
	rl.now = func() time.Time { return clock }

	if !rl.Allow("k") {
		t.Fatal("first request rejected")
	}

	// A timestamp exactly at the cutoff does not count as inside the window.
	clock = start.Add(time.Minute)
	if !rl.Allow("k") {
		t.Fatal("request at exact interval boundary rejected")
	}
}
