package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.AppPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "notifications", cfg.DynamoTables.Notifications)
	assert.Equal(t, 144*time.Hour, cfg.NotificationFreshness)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("JWT_EXPIRY", "2h")
	t.Setenv("DYNAMO_TABLE_NOTIFICATIONS", "gym_notifications")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, "gym_notifications", cfg.DynamoTables.Notifications)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "many")
	_, err := Load()
	assert.ErrorContains(t, err, "parse env:")
}

func TestLoadNotifier_Defaults(t *testing.T) {
	cfg, err := LoadNotifier()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.PollInterval)
	assert.Empty(t, cfg.ShownS3Key)
	assert.Equal(t, "us-east-1", cfg.AWS.Region)
}

func TestLoadNotifier_SharesAWSSettings(t *testing.T) {
	t.Setenv("AWS_ENDPOINT_URL", "http://localhost:4566")
	t.Setenv("NOTIFIER_SHOWN_S3_KEY", "kiosk-1/shown.json")

	cfg, err := LoadNotifier()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:4566", cfg.AWS.EndpointURL)
	assert.Equal(t, "kiosk-1/shown.json", cfg.ShownS3Key)
}
