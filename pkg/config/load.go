package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format is a configuration file syntax.
type Format int

const (
	TOML Format = iota
	YAML
)

// FormatFor picks the syntax from a file extension. Anything that is not
// .yaml or .yml is read as TOML.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	}
	return TOML
}

// Load reads configuration from the standard config path.
// Search order:
//  1. $XDG_CONFIG_HOME/qqbar/config.toml
//  2. ~/.config/qqbar/config.toml
//  3. the same directories with config.yaml
//
// If no file exists, returns DefaultConfig() with environment overrides.
func Load() (*Config, error) {
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadFromFile(p)
		}
	}
	cfg := DefaultConfig()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}
	cfg, err := LoadFromReader(bytes.NewReader(data), FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader reads configuration in the given format. Keys missing from
// the input keep their defaults.
func LoadFromReader(r io.Reader, format Format) (*Config, error) {
	cfg := DefaultConfig()
	switch format {
	case YAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && err != io.EOF {
			return nil, err
		}
	default:
		md, err := toml.NewDecoder(r).Decode(cfg)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown keys: %v", undecoded)
		}
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// DefaultConfig returns the default configuration with sensible defaults.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()

	return &Config{
		General: GeneralConfig{
			Theme:    "default",
			Preset:   "default",
			LogLevel: "info",
			LogFile:  filepath.Join(xdgStateHome(home), "qqbar", "qqbar.log"),
			NerdFont: true,
			MaxLabel: 32,
		},
		Sources: SourcesConfig{
			CPU:      SourceConfig{Enabled: true, Interval: seconds(2)},
			Memory:   SourceConfig{Enabled: true, Interval: seconds(5)},
			Battery:  SourceConfig{Enabled: true, Interval: seconds(10)},
			Audio:    SourceConfig{Enabled: true, Interval: seconds(1)},
			Keyboard: SourceConfig{Enabled: true, Interval: seconds(1)},
			Media:    SourceConfig{Enabled: true, Interval: seconds(2)},
			Network: NetworkConfig{
				Enabled:     true,
				Interval:    seconds(5),
				SSIDCommand: []string{"iwgetid", "-r"},
			},
			Clock: ClockConfig{
				Enabled:  true,
				Interval: seconds(1),
				Format:   "Mon 2 Jan 15:04",
			},
			Weather: WeatherConfig{
				Interval: Duration{15 * time.Minute},
			},
			GlazeWM: GlazeWMConfig{
				Enabled:      true,
				URL:          "ws://localhost:6123",
				RestartDelay: seconds(3),
			},
		},
		Control: ControlConfig{
			Enabled: true,
		},
	}
}

// applyEnvOverrides checks environment variables and overrides config values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("QQBAR_THEME"); v != "" {
		cfg.General.Theme = v
	}
	if v := os.Getenv("QQBAR_PRESET"); v != "" {
		cfg.General.Preset = v
	}
	if v := os.Getenv("QQBAR_LOG_LEVEL"); v != "" {
		cfg.General.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv("QQBAR_GLAZEWM_URL"); v != "" {
		cfg.Sources.GlazeWM.URL = v
	}
}

// configSearchPaths returns the ordered list of config file paths to try.
func configSearchPaths() []string {
	home, _ := os.UserHomeDir()

	dirs := []string{xdgConfigHome(home)}
	// If XDG_CONFIG_HOME was explicitly set, also try the fallback default.
	if defaultXDG := filepath.Join(home, ".config"); dirs[0] != defaultXDG {
		dirs = append(dirs, defaultXDG)
	}

	var paths []string
	for _, name := range []string{"config.toml", "config.yaml", "config.yml"} {
		for _, d := range dirs {
			paths = append(paths, filepath.Join(d, "qqbar", name))
		}
	}
	return paths
}

// ThemeDir is where user theme files are looked up.
func ThemeDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(xdgConfigHome(home), "qqbar", "themes")
}

// xdgConfigHome returns XDG_CONFIG_HOME or ~/.config as fallback.
func xdgConfigHome(home string) string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".config")
}

// xdgStateHome returns XDG_STATE_HOME or ~/.local/state as fallback.
func xdgStateHome(home string) string {
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".local", "state")
}
