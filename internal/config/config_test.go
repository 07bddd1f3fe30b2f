package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/coworkops_test")
	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_ADDR", "cache:6379")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/coworkops_test", cfg.Database.URL)
	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 120, cfg.Booking.DailyLimitMinutes)
	assert.Equal(t, 5*time.Minute, cfg.Jobs.BookingCompletionPeriod)
}

func TestLoad_FileValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
database:
  url: postgres://file/coworkops
booking:
  daily_limit_minutes: 90
  monthly_limit_minutes: 600
app:
  timezone: Europe/Ljubljana
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://file/coworkops", cfg.Database.URL)
	assert.Equal(t, 90, cfg.Booking.DailyLimitMinutes)
	assert.Equal(t, 600, cfg.Booking.MonthlyLimitMinutes)
	assert.Equal(t, "Europe/Ljubljana", cfg.App.Timezone)
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load("")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestValidate_BookingWindow(t *testing.T) {
	cfg := &Config{}
	cfg.Database.URL = "postgres://x"
	cfg.App.Port = 8080
	cfg.App.Timezone = "UTC"
	cfg.Booking = BookingDefaults{DailyLimitMinutes: 60, MonthlyLimitMinutes: 600, SlotMinutes: 30, OpenHour: 18, CloseHour: 9}

	assert.Error(t, cfg.Validate())

	cfg.Booking.OpenHour, cfg.Booking.CloseHour = 9, 18
	assert.NoError(t, cfg.Validate())
}
