package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"CHECKIN_DATABASE_FILE", "ENV", "LOG_LEVEL", "LOG_FORMAT", "PORT",
		"SHUTDOWN_GRACE_PERIOD", "HOUSEKEEPING_INTERVAL", "INVITATION_TTL",
		"SMTP_HOST", "SMTP_PORT", "SMTP_FROM", "SMTP_USERNAME", "SMTP_PASSWORD",
		"ZAPIER_WEBHOOK_URL", "SEARCH_INDEX_URL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg := LoadConfig()
	require.Equal(t, "checkin.db", cfg.DatabaseFile)
	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "json", cfg.LogFormat)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod)
	require.Equal(t, 1*time.Hour, cfg.HousekeepingInterval)
	require.Equal(t, 7*24*time.Hour, cfg.InvitationTTL)
	require.Equal(t, 587, cfg.SMTPPort)
	require.Empty(t, cfg.SMTPHost)
	require.Empty(t, cfg.ZapierWebhookURL)
	require.Empty(t, cfg.SearchIndexURL)
}

func TestLoadConfigReadsEnvironment(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("CHECKIN_DATABASE_FILE", "/var/lib/checkin/data.db")
	t.Setenv("PORT", "9090")
	t.Setenv("INVITATION_TTL", "48h")
	t.Setenv("SMTP_HOST", "smtp.internal")
	t.Setenv("ZAPIER_WEBHOOK_URL", "https://hooks.zapier.com/abc")

	cfg := LoadConfig()
	require.Equal(t, "/var/lib/checkin/data.db", cfg.DatabaseFile)
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, 48*time.Hour, cfg.InvitationTTL)
	require.Equal(t, "smtp.internal", cfg.SMTPHost)
	require.Equal(t, "https://hooks.zapier.com/abc", cfg.ZapierWebhookURL)
}

func TestGetEnvIntOrDefaultIgnoresGarbage(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	require.Equal(t, 8080, getEnvIntOrDefault("PORT", 8080))
}

func TestGetEnvDurationOrDefault(t *testing.T) {
	t.Run("parses duration strings", func(t *testing.T) {
		t.Setenv("HOUSEKEEPING_INTERVAL", "30m")
		require.Equal(t, 30*time.Minute, getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", time.Hour))
	})

	t.Run("falls back to integer minutes", func(t *testing.T) {
		t.Setenv("HOUSEKEEPING_INTERVAL", "90")
		require.Equal(t, 90*time.Minute, getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", time.Hour))
	})

	t.Run("garbage yields the default", func(t *testing.T) {
		t.Setenv("HOUSEKEEPING_INTERVAL", "soon")
		require.Equal(t, time.Hour, getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", time.Hour))
	})
}
