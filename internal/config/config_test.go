package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "PAGE_SIZE", "MIN_SCORE", "MAX_SCORE", "STORAGE", "JWT_ACCESS_TTL"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "postgres", cfg.Storage)
	assert.Equal(t, 20, cfg.PageSize)
	assert.Equal(t, 1, cfg.MinScore)
	assert.Equal(t, 10, cfg.MaxScore)
	assert.Equal(t, 24*time.Hour, cfg.AccessTTL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PAGE_SIZE", "5")
	t.Setenv("MAX_SCORE", "5")
	t.Setenv("APP_MIGRATE", "true")
	t.Setenv("JWT_ACCESS_TTL", "15m")
	t.Setenv("RATE_RPS", "not-a-number")

	cfg := Load()
	assert.Equal(t, 5, cfg.PageSize)
	assert.Equal(t, 5, cfg.MaxScore)
	assert.True(t, cfg.Migrate)
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL)
	assert.Equal(t, 100, cfg.RateRPS)
}
