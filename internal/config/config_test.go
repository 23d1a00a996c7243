package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("MONTHLY_SNAPSHOT_CRON", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Contains(t, cfg.DatabaseURL, "gymcontrol")
	assert.Equal(t, "0 3 1 * *", cfg.MonthlySnapshotCron)
	assert.Equal(t, "0 2 * * *", cfg.ExpirySweepCron)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_ADDR", "redis:6380")
	t.Setenv("EXPIRY_SWEEP_CRON", "30 1 * * *")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "redis:6380", cfg.RedisAddr)
	assert.Equal(t, "30 1 * * *", cfg.ExpirySweepCron)
}
