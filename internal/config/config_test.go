package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("APP_ENV", "development")
	t.Setenv("LOGIN_URL", "/auth/login/")
	t.Setenv("JWT_TTL", "not-a-duration")
	t.Setenv("RUN_MIGRATIONS", "nope")

	cfg := Load()

	assert.Equal(t, "", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.True(t, cfg.RunMigrations)
	assert.Equal(t, "/auth/login/", cfg.LoginURL)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_TTL", "90m")
	t.Setenv("RUN_MIGRATIONS", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 90*time.Minute, cfg.JWTTTL)
	assert.False(t, cfg.RunMigrations)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestValidate(t *testing.T) {
	cfg := &Config{DatabaseURL: "postgres://x", Env: "development"}
	require.NoError(t, cfg.Validate())

	cfg.Env = "production"
	cfg.SessionSecret = "short"
	assert.Error(t, cfg.Validate())

	cfg.SessionSecret = "0123456789abcdef0123456789abcdef"
	cfg.JWTSecret = "dev-jwt-secret"
	assert.Error(t, cfg.Validate())

	cfg.JWTSecret = "a-real-secret"
	assert.NoError(t, cfg.Validate())

	cfg.DatabaseURL = ""
	assert.Error(t, cfg.Validate())
}
