package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that override the YAML settings.
const (
	EnvMaxPoints = "SYSTEM_GRAPH_MAX_POINTS"
	EnvFile      = "SYSTEM_GRAPH_FILE"
	EnvFormat    = "SYSTEM_GRAPH_FORMAT"
	EnvProvider  = "SYSTEM_GRAPH_PROVIDER"
	EnvColor     = "SYSTEM_GRAPH_COLOR"
	EnvLogLevel  = "SYSTEM_GRAPH_LOG_LEVEL"
)

// DefaultEnvFile returns the path of the optional env file.
func DefaultEnvFile() string {
	return filepath.Join(Dir(), AppName+".env")
}

// LoadEnvFile loads KEY=value pairs from path into the process
// environment. Variables that are already set keep their value. A missing
// file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides c with the SYSTEM_GRAPH_* variables found through
// lookup (normally os.LookupEnv).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvMaxPoints); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvMaxPoints, err)
		}
		c.General.MaxPoints = n
	}

	overrides := []struct {
		name string
		dst  *string
	}{
		{EnvFile, &c.General.File},
		{EnvFormat, &c.General.Format},
		{EnvProvider, &c.Collector.Provider},
		{EnvColor, &c.Display.Color},
		{EnvLogLevel, &c.Log.Level},
	}
	for _, s := range overrides {
		if v, ok := lookup(s.name); ok && v != "" {
			*s.dst = v
		}
	}
	return nil
}
