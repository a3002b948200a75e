package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOrderingURL = "https://order.example.com/m/%s"

// TestLoad_Defaults verifies that default values are used when env vars are missing.
func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("APP_ENV")
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("SERVER_PORT")
	os.Unsetenv("ORDER_STEP_DELAY")
	os.Unsetenv("AUTH_STRICT_OTP")

	t.Setenv("ORDERING_URL", testOrderingURL)

	cfg, err := Load(".")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Empty(t, cfg.Redis.URL)
	assert.Equal(t, 4*time.Second, cfg.Session.OrderStepDelay)
	assert.Equal(t, 900*time.Millisecond, cfg.Session.UnlockDelay)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 800*time.Millisecond, cfg.Auth.Delay)
	assert.False(t, cfg.Auth.StrictOTP)
	assert.Equal(t, 5, cfg.Auth.MaxAttempts)
	assert.Equal(t, 5*time.Second, cfg.Checkout.WebhookTimeout)
	assert.False(t, cfg.IsProduction())
}

// TestLoad_EnvVars verifies that environment variables override defaults.
func TestLoad_EnvVars(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")
	t.Setenv("ORDER_STEP_DELAY", "250ms")
	t.Setenv("AUTH_STRICT_OTP", "true")
	t.Setenv("AUTH_MAX_ATTEMPTS", "3")
	t.Setenv("ORDERING_URL", testOrderingURL)
	t.Setenv("CHECKOUT_WEBHOOK_URL", "https://hooks.example.com/orders")

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "redis://localhost:6379/1", cfg.Redis.URL)
	assert.Equal(t, 250*time.Millisecond, cfg.Session.OrderStepDelay)
	assert.True(t, cfg.Auth.StrictOTP)
	assert.Equal(t, 3, cfg.Auth.MaxAttempts)
	assert.Equal(t, testOrderingURL, cfg.Checkout.OrderingURL)
	assert.Equal(t, "https://hooks.example.com/orders", cfg.Checkout.WebhookURL)
}

// TestLoad_File verifies that values are loaded from a .env file.
func TestLoad_File(t *testing.T) {
	content := []byte(`
APP_ENV=staging
LOG_LEVEL=warn
SERVER_PORT=7070
UNLOCK_DELAY=1s
ORDERING_URL=https://staging.example.com/m/%s
`)
	err := os.WriteFile(".env", content, 0644)
	require.NoError(t, err)
	defer os.Remove(".env")

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 7070, cfg.ServerPort)
	assert.Equal(t, time.Second, cfg.Session.UnlockDelay)
}

// TestLoad_ValidationFailure verifies that missing required fields return an error.
func TestLoad_ValidationFailure(t *testing.T) {
	os.Unsetenv("ORDERING_URL")

	cfg, err := Load(".")
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "missing required configuration: ORDERING_URL")
}

func TestLoad_InvalidMaxAttempts(t *testing.T) {
	t.Setenv("ORDERING_URL", testOrderingURL)
	t.Setenv("AUTH_MAX_ATTEMPTS", "0")

	cfg, err := Load(".")
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "AUTH_MAX_ATTEMPTS")
}
