package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("PONTO_HOME", t.TempDir())

	settings, err := LoadSettings()
	require.NoError(t, err)
	assert.Empty(t, settings.DBPath)
	assert.Nil(t, settings.Debug)
	assert.Nil(t, settings.AutoShutdownIntervalMinutes)
}

func TestLoadSettings_ReadsValues(t *testing.T) {
	home := t.TempDir()
	t.Setenv("PONTO_HOME", home)

	content := `{
  "db_path": "/tmp/ponto/tracking.db",
  "debug": true,
  "redis_addr": "redis:6379",
  "auto_shutdown_interval_minutes": 10,
  "lunch_reminder_interval_minutes": 30
}`
	require.NoError(t, os.WriteFile(filepath.Join(home, "settings.json"), []byte(content), 0644))

	settings, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/ponto/tracking.db", settings.DBPath)
	require.NotNil(t, settings.Debug)
	assert.True(t, *settings.Debug)
	assert.Equal(t, "redis:6379", settings.RedisAddr)
	require.NotNil(t, settings.AutoShutdownIntervalMinutes)
	assert.Equal(t, 10, *settings.AutoShutdownIntervalMinutes)
	require.NotNil(t, settings.LunchReminderIntervalMinutes)
	assert.Equal(t, 30, *settings.LunchReminderIntervalMinutes)
	assert.Nil(t, settings.WorkHoursIntervalMinutes)
}

func TestLoadSettings_InvalidJSON(t *testing.T) {
	home := t.TempDir()
	t.Setenv("PONTO_HOME", home)
	require.NoError(t, os.WriteFile(filepath.Join(home, "settings.json"), []byte("{not json"), 0644))

	_, err := LoadSettings()
	require.Error(t, err)
}

func TestSaveSettings_RoundTrip(t *testing.T) {
	t.Setenv("PONTO_HOME", t.TempDir())

	debug := true
	interval := 20
	require.NoError(t, SaveSettings(&Settings{
		DBPath:                   "/data/tracking.db",
		Debug:                    &debug,
		WorkHoursIntervalMinutes: &interval,
	}))

	loaded, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, "/data/tracking.db", loaded.DBPath)
	require.NotNil(t, loaded.Debug)
	assert.True(t, *loaded.Debug)
	require.NotNil(t, loaded.WorkHoursIntervalMinutes)
	assert.Equal(t, 20, *loaded.WorkHoursIntervalMinutes)
}

func TestGetHomeDir(t *testing.T) {
	t.Run("PONTO_HOME wins", func(t *testing.T) {
		t.Setenv("PONTO_HOME", "/srv/ponto")
		assert.Equal(t, "/srv/ponto", GetHomeDir())
	})

	t.Run("defaults under the user home", func(t *testing.T) {
		t.Setenv("PONTO_HOME", "")
		home, err := os.UserHomeDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".ponto"), GetHomeDir())
	})
}

func TestGetDBPath(t *testing.T) {
	t.Setenv("PONTO_HOME", "/srv/ponto")
	assert.Equal(t, "/srv/ponto/tracking.db", GetDBPath())
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "data"), ExpandPath("~/data"))
	assert.Equal(t, "/absolute/path", ExpandPath("/absolute/path"))
	assert.Equal(t, "", ExpandPath(""))
}
