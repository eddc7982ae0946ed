package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileMissingUsesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.Markers.SettleDelay, cfg.Markers.SettleDelay)
	assert.Equal(t, def.Grid, cfg.Grid)
	assert.Equal(t, def.Reminder.Time, cfg.Reminder.Time)
}

func TestLoadFileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
theme: dark
reminder:
  time: "08:30"
  workdays: [monday, TUESDAY, " wed "]
markers:
  settle_delay: 1.5s
grid:
  frame_interval: 33ms
log:
  level: debug
  file: "-"
`), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "dark", cfg.Theme)
	assert.Equal(t, "08:30", cfg.Reminder.Time)
	assert.Equal(t, []string{"Mon", "Tue", "Wed"}, cfg.Reminder.Workdays)
	assert.Equal(t, 1500*time.Millisecond, cfg.Markers.SettleDelay)
	assert.Equal(t, 33*time.Millisecond, cfg.Grid.FrameInterval)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "-", cfg.Log.File)
}

func TestLoadFileRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"bad level":   "log:\n  level: loud\n",
		"bad time":    "reminder:\n  time: \"25:99\"\n",
		"bad holiday": "reminder:\n  holidays: [\"tomorrow\"]\n",
		"zero cell":   "grid:\n  cell_width_px: 0\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			_, err := LoadFile(path)
			assert.Error(t, err)
		})
	}
}

func TestNormalizeDay(t *testing.T) {
	assert.Equal(t, "Mon", normalizeDay("monday"))
	assert.Equal(t, "Fri", normalizeDay(" FRI "))
	assert.Equal(t, "", normalizeDay("  "))
}

func TestLocationFallsBackToLocal(t *testing.T) {
	cfg := Default()
	cfg.Reminder.Timezone = "Not/AZone"
	assert.Equal(t, time.Local, cfg.Location())

	cfg.Reminder.Timezone = "UTC"
	assert.Equal(t, "UTC", cfg.Location().String())
}
