package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the daemon.
// Zero values mean "unspecified" and will be replaced by defaults in main.
type Config struct {
	Addr             string  `json:"addr" yaml:"addr" toml:"addr"`
	ResourcesDir     string  `json:"resources_dir" yaml:"resources_dir" toml:"resources_dir"`
	Manifest         string  `json:"manifest" yaml:"manifest" toml:"manifest"`
	MaxParallelLoads int     `json:"max_parallel_loads" yaml:"max_parallel_loads" toml:"max_parallel_loads"`
	SafetyFactor     float64 `json:"safety_factor" yaml:"safety_factor" toml:"safety_factor"`
	UsageThreshold   float64 `json:"usage_threshold" yaml:"usage_threshold" toml:"usage_threshold"`
	BudgetStrategy   string  `json:"budget_strategy" yaml:"budget_strategy" toml:"budget_strategy"`
	LogLevel         string  `json:"log_level" yaml:"log_level" toml:"log_level"`
	// Housekeeping: every HousekeepSeconds the daemon samples memory and
	// runs an eviction pass when used fraction exceeds PressureThreshold.
	// Zero seconds disables the monitor.
	HousekeepSeconds  int      `json:"housekeep_seconds" yaml:"housekeep_seconds" toml:"housekeep_seconds"`
	PressureThreshold float64  `json:"pressure_threshold" yaml:"pressure_threshold" toml:"pressure_threshold"`
	CORSOrigins       []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
