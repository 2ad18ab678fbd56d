package config

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("GATEWAY_PRIMARY__ENV", "test")
	t.Setenv("GATEWAY_SERVER__PORT", "8080")
	t.Setenv("GATEWAY_SERVER__READ_TIMEOUT", "10s")
	t.Setenv("GATEWAY_SERVER__WRITE_TIMEOUT", "10s")
	t.Setenv("GATEWAY_SERVER__IDLE_TIMEOUT", "60s")
	t.Setenv("GATEWAY_CLIENT__SECRET_KEY", "sk_test_123")
}

func TestLoadConfig(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GATEWAY_CLIENT__DEFAULT_CURRENCY", "KWD")
	t.Setenv("GATEWAY_CLIENT__TIMEOUT", "30")
	t.Setenv("GATEWAY_CLIENT__CONNECT_TIMEOUT", "2.5")
	t.Setenv("GATEWAY_WEBHOOK__ALLOWED_RESOURCES", "charge, refund,,")
	t.Setenv("GATEWAY_WEBHOOK__TOLERANCE", "300")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "sk_test_123", cfg.Client.SecretKey)
	assert.Equal(t, "KWD", cfg.Client.DefaultCurrency)
	assert.Equal(t, 30*time.Second, cfg.Client.TimeoutDuration())
	assert.Equal(t, 2500*time.Millisecond, cfg.Client.ConnectTimeoutDuration())
	assert.Equal(t, []string{"charge", "refund"}, cfg.Webhook.AllowedResources)
	assert.Equal(t, 5*time.Minute, cfg.Webhook.ToleranceDuration())
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.False(t, cfg.Database.Enabled)
}

func TestLoadConfig_MissingSecretKey(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GATEWAY_CLIENT__SECRET_KEY", "")

	_, err := LoadConfig()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "SecretKey")
}

func TestLoggerConfig_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := LoggerConfig{Level: "warn", Format: "json"}.newLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
}

func TestPgxConfig(t *testing.T) {
	cfg := &DatabaseConfig{
		Host:         "localhost",
		Port:         5432,
		User:         "gateway",
		Password:     "secret",
		Name:         "events",
		MaxOpenConns: 7,
	}

	pgxCfg, err := cfg.PgxConfig(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int32(7), pgxCfg.MaxConns)
	assert.Equal(t, "events", pgxCfg.ConnConfig.Database)
}
