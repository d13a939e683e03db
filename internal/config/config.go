package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Server holds configuration for the proficiency host process.
type Server struct {
	// Base directory of game data; definitions live in <core>/items/.
	CoreDirectory string `yaml:"core_directory" env:"PROF_CORE_DIRECTORY"`

	// debug | info | warn | error
	LogLevel string `yaml:"log_level" env:"PROF_LOG_LEVEL"`

	// Hot reload of proficiencies.xml
	WatchDefinitions bool          `yaml:"watch_definitions" env:"PROF_WATCH_DEFINITIONS"`
	WatchDebounce    time.Duration `yaml:"watch_debounce" env:"PROF_WATCH_DEBOUNCE"` // default: 500ms
}

// DefaultServer returns Server config with sensible defaults.
func DefaultServer() Server {
	return Server{
		CoreDirectory:    "data",
		LogLevel:         "info",
		WatchDefinitions: false,
		WatchDebounce:    500 * time.Millisecond,
	}
}

// LoadServer loads server config from a YAML file, then applies PROF_* environment overrides.
// If the file doesn't exist, defaults are used.
func LoadServer(path string) (Server, error) {
	cfg := DefaultServer()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}

	if cfg.WatchDebounce <= 0 {
		cfg.WatchDebounce = DefaultServer().WatchDebounce
	}
	return cfg, nil
}

// ParseEnv loads configuration overrides from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// SlogLevel converts LogLevel to slog.Level. Unknown values mean info.
func (s Server) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(s.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
