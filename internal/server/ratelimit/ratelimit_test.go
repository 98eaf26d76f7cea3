package ratelimit

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(configs ...EndpointConfig) *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    100,
		DefaultWindow:   time.Minute,
		Whitelist:       make(map[string]bool),
		Blacklist:       make(map[string]bool),
		EndpointConfigs: configs,
	}
}

func TestTokenBucket_ConsumesBurst(t *testing.T) {
	bucket := newTokenBucket(3, 0.001)

	assert.True(t, bucket.allow())
	assert.True(t, bucket.allow())
	assert.True(t, bucket.allow())
	assert.False(t, bucket.allow())
}

func TestTokenBucket_Refills(t *testing.T) {
	bucket := newTokenBucket(1, 50) // 50 tokens/sec

	require.True(t, bucket.allow())
	require.False(t, bucket.allow())

	time.Sleep(50 * time.Millisecond)
	assert.True(t, bucket.allow())
}

func TestLimiter_EndpointTier(t *testing.T) {
	limiter := NewLimiter(testConfig(
		EndpointConfig{Path: "/rank", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},
	))
	defer limiter.Stop()

	allowed, info := limiter.Allow("10.0.0.1", "/rank", "POST")
	assert.True(t, allowed)
	assert.Equal(t, 10, info.Limit)

	allowed, _ = limiter.Allow("10.0.0.1", "/rank", "POST")
	assert.True(t, allowed)

	// Burst of 2 exhausted
	allowed, info = limiter.Allow("10.0.0.1", "/rank", "POST")
	assert.False(t, allowed)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	limiter := NewLimiter(testConfig(
		EndpointConfig{Path: "/rank", Method: "POST", Limit: 10, Window: time.Hour, Burst: 1},
	))
	defer limiter.Stop()

	allowed, _ := limiter.Allow("10.0.0.1", "/rank", "POST")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("10.0.0.1", "/rank", "POST")
	require.False(t, allowed)

	allowed, _ = limiter.Allow("10.0.0.2", "/rank", "POST")
	assert.True(t, allowed)
}

func TestLimiter_HealthIsUnlimited(t *testing.T) {
	limiter := NewLimiter(testConfig())
	defer limiter.Stop()

	for i := 0; i < 500; i++ {
		allowed, _ := limiter.Allow("10.0.0.1", "/health", "GET")
		require.True(t, allowed)
	}
}

func TestLimiter_PrefixMatch(t *testing.T) {
	limiter := NewLimiter(testConfig(
		EndpointConfig{Path: "/candidates/", Method: "POST", Limit: 30, Window: time.Minute, Burst: 1},
	))
	defer limiter.Stop()

	allowed, info := limiter.Allow("10.0.0.1", "/candidates/abc123/extract", "POST")
	assert.True(t, allowed)
	assert.Equal(t, 30, info.Limit)

	allowed, _ = limiter.Allow("10.0.0.1", "/candidates/abc123/extract", "POST")
	assert.False(t, allowed)
}

func TestLimiter_DefaultLimitForUnmatched(t *testing.T) {
	limiter := NewLimiter(testConfig())
	defer limiter.Stop()

	allowed, info := limiter.Allow("10.0.0.1", "/candidates", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 100, info.Limit)
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: false})
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		allowed, _ := limiter.Allow("10.0.0.1", "/rank", "POST")
		require.True(t, allowed)
	}
}

func TestLimiter_Blacklist(t *testing.T) {
	cfg := testConfig()
	cfg.Blacklist["10.6.6.6"] = true
	limiter := NewLimiter(cfg)
	defer limiter.Stop()

	allowed, _ := limiter.Allow("10.6.6.6", "/health", "POST")
	assert.False(t, allowed)
}

func TestLimiter_Whitelist(t *testing.T) {
	cfg := testConfig(
		EndpointConfig{Path: "/rank", Method: "POST", Limit: 1, Window: time.Hour, Burst: 1},
	)
	cfg.Whitelist["10.0.0.9"] = true
	limiter := NewLimiter(cfg)
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, _ := limiter.Allow("10.0.0.9", "/rank", "POST")
		require.True(t, allowed)
	}
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	match := MatchEndpoint("/rank", "POST", configs)
	require.NotNil(t, match)
	assert.Equal(t, 10, match.Limit)

	match = MatchEndpoint("/candidates/some-id/extract/stream", "POST", configs)
	require.NotNil(t, match)
	assert.Equal(t, 30, match.Limit)

	assert.Nil(t, MatchEndpoint("/candidates", "GET", configs))

	health := MatchEndpoint("/health", "GET", configs)
	require.NotNil(t, health)
	assert.Equal(t, 0, health.Limit)
}

func TestLimiter_ConcurrentAccess(t *testing.T) {
	limiter := NewLimiter(testConfig())
	defer limiter.Stop()

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(n int) {
			defer func() { done <- struct{}{} }()
			client := fmt.Sprintf("10.0.1.%d", n)
			for j := 0; j < 50; j++ {
				limiter.Allow(client, "/candidates", "GET")
			}
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
