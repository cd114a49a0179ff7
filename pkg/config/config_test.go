package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("AUTH_MODE", "")
	t.Setenv("JWT_TTL", "")
	t.Setenv("AUTO_MIGRATE", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, AuthModeJWT, cfg.AuthMode)
	assert.Equal(t, 72*time.Hour, cfg.JWTTTL)
	assert.True(t, cfg.AutoMigrate)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("ENV", "production")
	t.Setenv("AUTH_MODE", AuthModeFirebase)
	t.Setenv("JWT_TTL", "1h")
	t.Setenv("AUTO_MIGRATE", "false")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg := Load()

	assert.Equal(t, "3000", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, AuthModeFirebase, cfg.AuthMode)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.False(t, cfg.AutoMigrate)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("JWT_TTL", "soon")
	t.Setenv("AUTO_MIGRATE", "maybe")

	cfg := Load()

	assert.Equal(t, 72*time.Hour, cfg.JWTTTL)
	assert.True(t, cfg.AutoMigrate)
}
