package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "UTC")
	t.Setenv("TICKETS_EXTENDED_STATUSES", "")
	t.Setenv("WHATSAPP_BASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.False(t, cfg.Tickets.ExtendedStatuses)
	assert.False(t, cfg.WhatsApp.Configured())
	assert.Equal(t, 10*time.Second, cfg.WhatsApp.Timeout())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "UTC")
	t.Setenv("TICKETS_EXTENDED_STATUSES", "true")
	t.Setenv("WHATSAPP_BASE_URL", "https://wa.example.com")
	t.Setenv("WHATSAPP_INSTANCE", "support")
	t.Setenv("WHATSAPP_API_KEY", "secret")
	t.Setenv("WHATSAPP_TIMEOUT_SECONDS", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Tickets.ExtendedStatuses)
	assert.True(t, cfg.WhatsApp.Configured())
	assert.Equal(t, 3*time.Second, cfg.WhatsApp.Timeout())
}

func TestLoad_InvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "zero")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidTimezone(t *testing.T) {
	t.Setenv("REDIS_DB", "0")
	t.Setenv("APP_TIMEZONE", "Mars/Olympus")

	_, err := Load()
	assert.Error(t, err)
}

func TestAppConfig_RequestTimeout(t *testing.T) {
	t.Parallel()

	assert.Equal(t, time.Duration(0), AppConfig{}.RequestTimeout())
	assert.Equal(t, 5*time.Second, AppConfig{RequestTimeoutSeconds: 5}.RequestTimeout())
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("REDIS_DB", "0")
	t.Setenv("APP_TIMEZONE", "UTC")
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_JWT_SECRET")

	t.Setenv("AUTH_JWT_SECRET", "a-real-secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.App.Production())
}
