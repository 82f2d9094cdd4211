package sched

import (
	"os"
	"strings"
	"time"

	yaml "github.com/goccy/go-yaml"
	"github.com/pkg/errors"
)

// Config mirrors config.yml
type Config struct {
	TickMS    int    `yaml:"tick_ms"`    // 0 (by default): run ticks back to back
	TraceCSV  string `yaml:"trace_csv"`  // "" (by default): no event trace
	LogLevel  string `yaml:"log_level"`  // "warn" (by default)
	LogFormat string `yaml:"log_format"` // "text" (by default), or "json"
	Metrics   bool   `yaml:"metrics"`    // false (by default)
}

// If the config file is not given, we use default values
func DefaultConfig() Config {
	return Config{
		TickMS:    0,
		LogLevel:  "warn",
		LogFormat: "text",
	}
}

// Load reads YAML and overrides defaults; empty path = defaults only
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "reading config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config %s", path)
	}

	cfg.sanitize()
	return cfg, nil
}

// sanity clamps
func (cfg *Config) sanitize() {
	if cfg.TickMS < 0 {
		cfg.TickMS = 0
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
	switch strings.ToLower(cfg.LogFormat) {
	case "json":
		cfg.LogFormat = "json"
	default:
		cfg.LogFormat = "text"
	}
}

// TickInterval is the wall-clock pacing between ticks.
func (cfg Config) TickInterval() time.Duration {
	return time.Duration(cfg.TickMS) * time.Millisecond
}
