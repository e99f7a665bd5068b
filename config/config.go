// Package config provides configuration parsing for system-graph.
//
// Settings are layered: built-in defaults, then the YAML file, then the
// environment (including an optional system-graph.env file), then the rc
// file of arguments, then the command line. This package covers the first
// three layers and reads the rc file; flag parsing lives in main.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"gitlab.com/tinyland/lab/system-graph/graph"
)

// AppName names the configuration directory and the files in it.
const AppName = "system-graph"

// Config represents the system-graph configuration.
type Config struct {
	// General holds the history and template settings.
	General GeneralConfig `yaml:"general"`

	// Collector selects the sample provider.
	Collector CollectorConfig `yaml:"collector"`

	// Display holds output styling.
	Display DisplayConfig `yaml:"display"`

	// Log holds diagnostic logging settings.
	Log LogConfig `yaml:"log"`
}

// GeneralConfig holds the history and template settings.
type GeneralConfig struct {
	// MaxPoints is the number of data points kept and drawn per series.
	MaxPoints int `yaml:"max_points"`
	// File is where the sample history is stored between invocations.
	File string `yaml:"file"`
	// Format is the template rendered on every invocation.
	Format string `yaml:"format"`
}

// CollectorConfig selects the sample provider.
type CollectorConfig struct {
	// Provider is "proc", "gopsutil" or "mock".
	Provider string `yaml:"provider"`
	// Timeout is a duration string (e.g. "2s") bounding one sample.
	Timeout string `yaml:"timeout"`
}

// DisplayConfig holds output styling.
type DisplayConfig struct {
	// Color is "auto", "always" or "never".
	Color string `yaml:"color"`
	// Foreground is a lipgloss color ("#ff8800", "208") applied to the line
	// when color is enabled. Empty leaves the line unstyled.
	Foreground string `yaml:"foreground"`
}

// LogConfig holds diagnostic logging settings.
type LogConfig struct {
	// Level is "debug", "info", "warn" or "error".
	Level string `yaml:"level"`
	// File receives log output. Empty means stderr.
	File string `yaml:"file"`
}

// Valid values for the enumerated settings.
var (
	Providers  = []string{"proc", "gopsutil", "mock"}
	ColorModes = []string{"auto", "always", "never"}
	LogLevels  = []string{"debug", "info", "warn", "error"}
)

// maxPointsLimit bounds general.max_points.
const maxPointsLimit = 10000

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		General: GeneralConfig{
			MaxPoints: 25,
			File:      DefaultHistoryFile(),
			Format:    graph.DefaultFormat,
		},
		Collector: CollectorConfig{
			Provider: DefaultProvider(),
			Timeout:  "2s",
		},
		Display: DisplayConfig{
			Color: "never",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// DefaultProvider returns "proc" on Linux and "gopsutil" elsewhere.
func DefaultProvider() string {
	if runtime.GOOS == "linux" {
		return "proc"
	}
	return "gopsutil"
}

// DefaultHistoryFile returns $TMPDIR/.<uid>.system-graph, with TMPDIR
// defaulting to /tmp.
func DefaultHistoryFile() string {
	dir := os.Getenv("TMPDIR")
	if dir == "" {
		dir = "/tmp"
	}
	return filepath.Join(dir, fmt.Sprintf(".%d.%s", os.Getuid(), AppName))
}

// Dir returns $XDG_CONFIG_HOME/system-graph, falling back to
// ~/.config/system-graph.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", AppName)
}

// DefaultPath returns the default YAML configuration path.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// LoadConfig loads configuration from a YAML file, merging with defaults.
// A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return config, nil
}

// Validate checks the configuration for required fields and logical consistency.
func (c *Config) Validate() error {
	if c.General.MaxPoints < 1 || c.General.MaxPoints > maxPointsLimit {
		return fmt.Errorf("general.max_points must be between 1 and %d, got %d", maxPointsLimit, c.General.MaxPoints)
	}
	if c.General.File == "" {
		return fmt.Errorf("general.file is required")
	}

	if !oneOf(c.Collector.Provider, Providers) {
		return fmt.Errorf("collector.provider must be one of %s, got %q", strings.Join(Providers, ", "), c.Collector.Provider)
	}
	if _, err := c.Timeout(); err != nil {
		return err
	}

	if !oneOf(c.Display.Color, ColorModes) {
		return fmt.Errorf("display.color must be one of %s, got %q", strings.Join(ColorModes, ", "), c.Display.Color)
	}

	if !oneOf(c.Log.Level, LogLevels) {
		return fmt.Errorf("log.level must be one of %s, got %q", strings.Join(LogLevels, ", "), c.Log.Level)
	}

	return nil
}

// Timeout parses collector.timeout. An empty value means no timeout.
func (c *Config) Timeout() (time.Duration, error) {
	if c.Collector.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Collector.Timeout)
	if err != nil {
		return 0, fmt.Errorf("collector.timeout: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("collector.timeout must be non-negative, got %s", d)
	}
	return d, nil
}

// SaveConfig saves configuration to a YAML file.
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("config: create %s: %w", dir, err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

func oneOf(v string, valid []string) bool {
	for _, s := range valid {
		if v == s {
			return true
		}
	}
	return false
}
