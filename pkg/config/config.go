package config

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// Config is the root of config.toml / config.yaml.
type Config struct {
	General GeneralConfig `toml:"general" yaml:"general"`
	Sources SourcesConfig `toml:"sources" yaml:"sources"`
	Control ControlConfig `toml:"control" yaml:"control"`
}

// GeneralConfig holds presentation and logging settings.
type GeneralConfig struct {
	Theme    string `toml:"theme" yaml:"theme"`
	Preset   string `toml:"preset" yaml:"preset"`
	LogLevel string `toml:"log_level" yaml:"log_level"`
	LogFile  string `toml:"log_file" yaml:"log_file"`

	// NerdFont selects Nerd Font glyphs; false falls back to ASCII icons.
	NerdFont bool `toml:"nerd_font" yaml:"nerd_font"`

	// MaxLabel truncates long labels (media titles, SSIDs). Zero disables.
	MaxLabel int `toml:"max_label" yaml:"max_label"`
}

// SourceConfig is shared by every source.
type SourceConfig struct {
	Enabled  bool     `toml:"enabled" yaml:"enabled"`
	Interval Duration `toml:"interval" yaml:"interval"`
}

// NetworkConfig configures the network source.
type NetworkConfig struct {
	Enabled     bool     `toml:"enabled" yaml:"enabled"`
	Interval    Duration `toml:"interval" yaml:"interval"`
	SSIDCommand []string `toml:"ssid_command" yaml:"ssid_command"`
}

// ClockConfig configures the date source. Format is a Go time layout.
type ClockConfig struct {
	Enabled  bool     `toml:"enabled" yaml:"enabled"`
	Interval Duration `toml:"interval" yaml:"interval"`
	Format   string   `toml:"format" yaml:"format"`
}

// WeatherConfig configures the weather source.
type WeatherConfig struct {
	Enabled   bool     `toml:"enabled" yaml:"enabled"`
	Interval  Duration `toml:"interval" yaml:"interval"`
	Latitude  float64  `toml:"latitude" yaml:"latitude"`
	Longitude float64  `toml:"longitude" yaml:"longitude"`
}

// GlazeWMConfig configures the GlazeWM window-manager source.
type GlazeWMConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	URL     string `toml:"url" yaml:"url"`

	// RestartDelay is the wait before reconnecting a dropped stream.
	RestartDelay Duration `toml:"restart_delay" yaml:"restart_delay"`
}

// EWMHConfig configures the X11 window-manager source.
type EWMHConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Display string `toml:"display" yaml:"display"`
}

// SourcesConfig lists every source the bar can be built from.
type SourcesConfig struct {
	CPU      SourceConfig  `toml:"cpu" yaml:"cpu"`
	Memory   SourceConfig  `toml:"memory" yaml:"memory"`
	Battery  SourceConfig  `toml:"battery" yaml:"battery"`
	Audio    SourceConfig  `toml:"audio" yaml:"audio"`
	Keyboard SourceConfig  `toml:"keyboard" yaml:"keyboard"`
	Media    SourceConfig  `toml:"media" yaml:"media"`
	Network  NetworkConfig `toml:"network" yaml:"network"`
	Clock    ClockConfig   `toml:"clock" yaml:"clock"`
	Weather  WeatherConfig `toml:"weather" yaml:"weather"`
	GlazeWM  GlazeWMConfig `toml:"glazewm" yaml:"glazewm"`
	EWMH     EWMHConfig    `toml:"ewmh" yaml:"ewmh"`
}

// ControlConfig configures the control socket.
type ControlConfig struct {
	Enabled bool `toml:"enabled" yaml:"enabled"`

	// Socket overrides the default $XDG_RUNTIME_DIR/qqbar.sock.
	Socket string `toml:"socket" yaml:"socket"`
}

var logLevels = []string{"error", "warn", "info", "debug"}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var errs []error
	if !HasPreset(c.General.Preset) {
		errs = append(errs, fmt.Errorf("general.preset: unknown preset %q (have %v)", c.General.Preset, PresetNames()))
	}
	if !slices.Contains(logLevels, c.General.LogLevel) {
		errs = append(errs, fmt.Errorf("general.log_level: %q is not one of %v", c.General.LogLevel, logLevels))
	}
	if c.General.MaxLabel < 0 {
		errs = append(errs, errors.New("general.max_label: must not be negative"))
	}
	if w := c.Sources.Weather; w.Enabled {
		if w.Latitude < -90 || w.Latitude > 90 {
			errs = append(errs, fmt.Errorf("sources.weather.latitude: %v out of range", w.Latitude))
		}
		if w.Longitude < -180 || w.Longitude > 180 {
			errs = append(errs, fmt.Errorf("sources.weather.longitude: %v out of range", w.Longitude))
		}
	}
	if c.Sources.Clock.Enabled && c.Sources.Clock.Format == "" {
		errs = append(errs, errors.New("sources.clock.format: must not be empty"))
	}
	if c.Sources.GlazeWM.Enabled && c.Sources.GlazeWM.URL == "" {
		errs = append(errs, errors.New("sources.glazewm.url: must not be empty"))
	}
	return errors.Join(errs...)
}

// SlogLevelName returns the configured level, or debug when verbose is set.
func (c *Config) SlogLevelName(verbose bool) string {
	if verbose {
		return "debug"
	}
	return c.General.LogLevel
}

func seconds(n int) Duration {
	return Duration{time.Duration(n) * time.Second}
}
