package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setDatabaseEnv(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "geo")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "geoloc193")
}

func TestLoadDefaults(t *testing.T) {
	setDatabaseEnv(t)

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 2*time.Hour, cfg.LinkTTL)
	assert.Equal(t, 3*time.Second, cfg.MessagePollInterval)
	assert.Equal(t, 10*time.Second, cfg.StatusPollInterval)
	assert.Equal(t, "55", cfg.CountryCode)
	assert.Equal(t, "https://api.sms-gate.app/3rdparty/v1/message", cfg.GatewayURL)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, int32(10), cfg.Database.MaxConns)
	assert.Equal(t, int32(2), cfg.Database.MinConns)
	assert.Equal(t, 30*time.Minute, cfg.Database.MaxConnLifetime)
	assert.Empty(t, cfg.Redis.Host)
	assert.Empty(t, cfg.Server.TrustedProxies)
}

func TestLoadOverrides(t *testing.T) {
	setDatabaseEnv(t)
	t.Setenv("LINK_TTL", "30m")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("SERVER_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("SERVER_TRUSTED_PROXIES", "10.0.0.0/8")
	t.Setenv("DB_MAX_CONNS", "25")

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.LinkTTL)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, []string{"10.0.0.0/8"}, cfg.Server.TrustedProxies)
	assert.Equal(t, int32(25), cfg.Database.MaxConns)
}

func TestLoadRejectsInvalidPort(t *testing.T) {
	setDatabaseEnv(t)
	t.Setenv("DB_PORT", "postgres")

	_, err := Load(context.Background())
	assert.Error(t, err)
}
