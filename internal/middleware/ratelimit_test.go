package middleware

import (
	"testing"
	"time"
)

func TestRateLimiterBlocksAtLimit(t *testing.T) {
	limiter := NewInMemoryRateLimiter(3, time.Minute)
	for i := 0; i < 3; i++ {
		if !limiter.Allow("api:1.2.3.4") {
			t.Fatalf("request %d blocked below the limit", i+1)
		}
	}
	if limiter.Allow("api:1.2.3.4") {
		t.Fatal("request above the limit was allowed")
	}
	// A different client is unaffected.
	if !limiter.Allow("api:5.6.7.8") {
		t.Fatal("other client blocked by a stranger's budget")
	}
}

func TestRateLimiterScopesAreIndependent(t *testing.T) {
	limiter := NewInMemoryRateLimiter(2, time.Minute)
	if !limiter.Allow("login:1.2.3.4") || !limiter.Allow("login:1.2.3.4") {
		t.Fatal("login scope blocked below the limit")
	}
	if limiter.Allow("login:1.2.3.4") {
		t.Fatal("login scope allowed above the limit")
	}
	// Exhausting the login scope must not consume the api scope's budget.
	if !limiter.Allow("api:1.2.3.4") {
		t.Fatal("api scope blocked by login exhaustion")
	}
}

func TestRateLimiterWindowExpires(t *testing.T) {
	limiter := NewInMemoryRateLimiter(1, 10*time.Millisecond)
	if !limiter.Allow("api:1.2.3.4") {
		t.Fatal("first request blocked")
	}
	if limiter.Allow("api:1.2.3.4") {
		t.Fatal("second request allowed inside the window")
	}
	time.Sleep(20 * time.Millisecond)
	if !limiter.Allow("api:1.2.3.4") {
		t.Fatal("request blocked after the window expired")
	}
}
