package api

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5, cfg.Delivery.MaxOTPAttempts)
	assert.False(t, cfg.Delivery.StrictAvailability)
	assert.Zero(t, cfg.Delivery.OTPTTL)
	assert.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DELIVERY_STRICT_AVAILABILITY", "true")
	t.Setenv("DELIVERY_OTP_MAX_ATTEMPTS", "3")
	t.Setenv("DELIVERY_OTP_TTL", "2h")
	t.Setenv("IDEMPOTENCY_TTL_HOURS", "48")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.Delivery.StrictAvailability)
	assert.Equal(t, 3, cfg.Delivery.MaxOTPAttempts)
	assert.Equal(t, 2*time.Hour, cfg.Delivery.OTPTTL)
	assert.Equal(t, 48*time.Hour, cfg.IdempotencyTTL)
	assert.Equal(t, "k1:9092,k2:9092", cfg.KafkaBrokers)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("REDIS_ADDR: redis:6379\nDELIVERY_REQUIRE_PREPARING: true\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.True(t, cfg.Delivery.RequirePreparing)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	t.Setenv("IDEMPOTENCY_TTL_HOURS", "0")
	_, err := LoadConfig()
	require.Error(t, err)

	t.Setenv("IDEMPOTENCY_TTL_HOURS", "1")
	t.Setenv("DELIVERY_OTP_MAX_ATTEMPTS", "-1")
	_, err = LoadConfig()
	require.Error(t, err)
}
