package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "GOOGLE_API_KEY", "GOOGLE_KEY", "GATEWAY_ATTEMPTS", "GATEWAY_BACKOFF", "OTEL_ENABLED", "HTTP_RATE_LIMIT_PER_MIN"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 60, cfg.RateLimit)
	assert.Empty(t, cfg.Gateway.APIKey)
	assert.Equal(t, 3, cfg.Gateway.Attempts)
	assert.Equal(t, 800*time.Millisecond, cfg.Gateway.Backoff)
	assert.Equal(t, 15*time.Second, cfg.Gateway.Timeout)
	assert.Equal(t, 35.0, cfg.LocalSpeedKmh)
	assert.Equal(t, 1000, cfg.TwoOptPasses)
	assert.False(t, cfg.OTelEnabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GOOGLE_KEY", "legacy-key")
	t.Setenv("GATEWAY_ATTEMPTS", "2")
	t.Setenv("GATEWAY_BACKOFF", "50ms")
	t.Setenv("OTEL_ENABLED", "true")

	cfg := Load()

	assert.Equal(t, "legacy-key", cfg.Gateway.APIKey)
	assert.Equal(t, 2, cfg.Gateway.Attempts)
	assert.Equal(t, 50*time.Millisecond, cfg.Gateway.Backoff)
	assert.True(t, cfg.OTelEnabled)
}

func TestGetters_FallBackOnGarbage(t *testing.T) {
	t.Setenv("X_INT", "seven")
	t.Setenv("X_DUR", "soon")
	t.Setenv("X_FLOAT", "fast")
	t.Setenv("X_BOOL", "maybe")

	assert.Equal(t, 7, GetInt("X_INT", 7))
	assert.Equal(t, time.Second, GetDuration("X_DUR", time.Second))
	assert.Equal(t, 1.5, GetFloat("X_FLOAT", 1.5))
	assert.True(t, GetBool("X_BOOL", true))
}
