package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Asia/Jakarta", cfg.Business.Timezone)
	assert.Equal(t, 9, cfg.Business.WorkStartHour)
	assert.Equal(t, 18, cfg.Business.WorkEndHour)
	assert.True(t, cfg.Scheduler.Enabled)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WORK_START_HOUR", "10")
	t.Setenv("WORK_END_HOUR", "20")
	t.Setenv("SCHEDULER_CATCH_UP", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Business.WorkStartHour)
	assert.Equal(t, 20, cfg.Business.WorkEndHour)
	assert.False(t, cfg.Scheduler.CatchUp)
}

func TestLoadRejectsInvertedWindow(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WORK_START_HOUR", "18")
	t.Setenv("WORK_END_HOUR", "9")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsUnknownTimezone(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BUSINESS_TIMEZONE", "Nowhere/Special")

	_, err := Load()
	assert.Error(t, err)
}
