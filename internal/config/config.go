package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

type ReminderConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	Time     string   `mapstructure:"time" validate:"omitempty,datetime=15:04"` // "19:00"
	Workdays []string `mapstructure:"workdays" validate:"dive,min=3"`          // ["Mon","Tue",...]
	Holidays []string `mapstructure:"holidays" validate:"dive,datetime=2006-01-02"`
	Timezone string   `mapstructure:"timezone"` // e.g. "Europe/Paris" (optional)
}

type MarkersConfig struct {
	SettleDelay  time.Duration `mapstructure:"settle_delay" validate:"min=0"`
	Catalog      string        `mapstructure:"catalog"` // optional keyword catalogue override (YAML)
	Watch        bool          `mapstructure:"watch"`
	DesktopAlert bool          `mapstructure:"desktop_alert"`
}

type GridConfig struct {
	FrameInterval time.Duration `mapstructure:"frame_interval" validate:"min=1ms"`
	CellWidthPx   float64       `mapstructure:"cell_width_px" validate:"gt=0"`
	CellHeightPx  float64       `mapstructure:"cell_height_px" validate:"gt=0"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	File  string `mapstructure:"file"` // "-" logs to stderr
}

type DebriefConfig struct {
	Script string `mapstructure:"script"` // optional dialogue script override (YAML)
}

type Config struct {
	Theme    string         `mapstructure:"theme"`
	Demo     bool           `mapstructure:"demo"`
	Reminder ReminderConfig `mapstructure:"reminder"`
	Markers  MarkersConfig  `mapstructure:"markers"`
	Grid     GridConfig     `mapstructure:"grid"`
	Log      LogConfig      `mapstructure:"log"`
	Debrief  DebriefConfig  `mapstructure:"debrief"`
}

func Default() Config {
	return Config{
		Theme: "default",
		Demo:  true,
		Reminder: ReminderConfig{
			Enabled:  true,
			Time:     "19:00",
			Workdays: []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"},
			Holidays: []string{},
			Timezone: "",
		},
		Markers: MarkersConfig{
			SettleDelay: 800 * time.Millisecond,
			Watch:       true,
		},
		Grid: GridConfig{
			FrameInterval: 16 * time.Millisecond,
			CellWidthPx:   8,
			CellHeightPx:  16,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func xdgConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".config", "sereni")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DataDir is where the log file lives.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	base := filepath.Join(home, ".local", "share", "sereni")
	if err := os.MkdirAll(base, 0o755); err != nil {
		return "", err
	}
	return base, nil
}

// Load reads the user's config file, if any, on top of the defaults.
func Load() (Config, error) {
	path, err := xdgConfigPath()
	if err != nil {
		return Default(), err
	}
	return LoadFile(path)
}

// LoadFile reads the config at path on top of the defaults. A missing file
// is not an error.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	var err error

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)
	v.SetEnvPrefix("SERENI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// defaults
	v.SetDefault("theme", cfg.Theme)
	v.SetDefault("demo", cfg.Demo)
	v.SetDefault("reminder.enabled", cfg.Reminder.Enabled)
	v.SetDefault("reminder.time", cfg.Reminder.Time)
	v.SetDefault("reminder.workdays", cfg.Reminder.Workdays)
	v.SetDefault("reminder.holidays", cfg.Reminder.Holidays)
	v.SetDefault("reminder.timezone", cfg.Reminder.Timezone)
	v.SetDefault("markers.settle_delay", cfg.Markers.SettleDelay)
	v.SetDefault("markers.catalog", cfg.Markers.Catalog)
	v.SetDefault("markers.watch", cfg.Markers.Watch)
	v.SetDefault("markers.desktop_alert", cfg.Markers.DesktopAlert)
	v.SetDefault("grid.frame_interval", cfg.Grid.FrameInterval)
	v.SetDefault("grid.cell_width_px", cfg.Grid.CellWidthPx)
	v.SetDefault("grid.cell_height_px", cfg.Grid.CellHeightPx)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.file", cfg.Log.File)
	v.SetDefault("debrief.script", cfg.Debrief.Script)

	if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return cfg, fmt.Errorf("config read: %w", err)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("config unmarshal: %w", err)
	}

	// normalize workdays
	for i, d := range cfg.Reminder.Workdays {
		cfg.Reminder.Workdays[i] = normalizeDay(d)
	}
	if cfg.Markers.Catalog, err = homedir.Expand(cfg.Markers.Catalog); err != nil {
		return cfg, fmt.Errorf("markers.catalog: %w", err)
	}
	if cfg.Debrief.Script, err = homedir.Expand(cfg.Debrief.Script); err != nil {
		return cfg, fmt.Errorf("debrief.script: %w", err)
	}
	if cfg.Log.File != "-" {
		if cfg.Log.File, err = homedir.Expand(cfg.Log.File); err != nil {
			return cfg, fmt.Errorf("log.file: %w", err)
		}
	}

	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks field constraints on cfg.
func Validate(cfg Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config invalid: %w", err)
	}
	return nil
}

// normalizeDay turns "monday", " MON " or "Mon" into "Mon".
func normalizeDay(d string) string {
	d = strings.ToLower(strings.TrimSpace(d))
	if len(d) > 3 {
		d = d[:3]
	}
	if d == "" {
		return d
	}
	return strings.ToUpper(d[:1]) + d[1:]
}

func (c Config) Location() *time.Location {
	if tz := strings.TrimSpace(c.Reminder.Timezone); tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return time.Local
}
