package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadRateLimitConfigClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	assert.Equal(t, 1, cfg.Capacity)
	assert.Equal(t, 1, cfg.RefillTokens)
	assert.Equal(t, 2*time.Second, cfg.RefillInterval)
	// TTL is raised to five refill intervals.
	assert.Equal(t, 10*time.Second, cfg.TTL)
}

func TestParseMethods(t *testing.T) {
	m := parseMethods("get, Post ,")
	assert.True(t, m["GET"])
	assert.True(t, m["POST"])
	assert.Len(t, m, 2)
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("X_STR", "value")
	t.Setenv("X_BOOL", "yes")
	t.Setenv("X_INT", "17")
	t.Setenv("X_DUR", "90s")
	t.Setenv("X_JUNK", "nonsense")

	assert.Equal(t, "value", getenv("X_STR", "def"))
	assert.Equal(t, "def", getenv("X_MISSING", "def"))
	assert.True(t, envBool("X_BOOL", false))
	assert.False(t, envBool("X_JUNK", false))
	assert.Equal(t, 17, envInt("X_INT", 1))
	assert.Equal(t, 1, envInt("X_JUNK", 1))
	assert.Equal(t, 90*time.Second, envDur("X_DUR", time.Second))
	assert.Equal(t, time.Second, envDur("X_JUNK", time.Second))
}
