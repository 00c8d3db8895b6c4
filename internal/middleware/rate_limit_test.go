package middleware

import (
	"testing"
)

func TestRateLimiter_AllowsWithinBurst(t *testing.T) {
	rl := NewRateLimiterWithConfig(60, 5)
	defer rl.Stop()

	for i := 0; i < 5; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("Expected request %d within burst to be allowed", i+1)
		}
	}
}

func TestRateLimiter_BlocksBeyondBurst(t *testing.T) {
	rl := NewRateLimiterWithConfig(60, 2)
	defer rl.Stop()

	rl.Allow("10.0.0.1")
	rl.Allow("10.0.0.1")

	if rl.Allow("10.0.0.1") {
		t.Error("Expected request beyond burst to be blocked")
	}
}

func TestRateLimiter_CallersAreIndependent(t *testing.T) {
	rl := NewRateLimiterWithConfig(60, 1)
	defer rl.Stop()

	if !rl.Allow("10.0.0.1") {
		t.Fatal("Expected first caller to be allowed")
	}
	if rl.Allow("10.0.0.1") {
		t.Error("Expected first caller to be exhausted")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("Expected second caller to have its own budget")
	}
}
