// Package config handles global configuration loading using viper.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

// LineConfig is the top-level static configuration for the assembly line:
// one StationConfig per station name (S1..S6) and one capacity per named
// inter-station buffer edge.
type LineConfig struct {
	Stations map[string]StationConfig `mapstructure:"stations"`
	Buffers  map[string]uint32        `mapstructure:"buffers"`
	Metrics  MetricsConfig            `mapstructure:"metrics"`
	Log      LogConfig                `mapstructure:"log"`
}

// StationConfig holds the per-station simulation parameters read from the
// line configuration file. Stations apply these at startup; they are not
// hot-reloadable.
type StationConfig struct {
	CycleTimeS     float64 `mapstructure:"cycle_time_s"`
	FailureRate    float64 `mapstructure:"failure_rate"`
	MTTRs          float64 `mapstructure:"mttr_s"`
	BufferCapacity uint32  `mapstructure:"buffer_capacity"`
}

// ─── Metrics ───

// MetricsConfig contains Prometheus metrics server settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen"`
	Path    string `mapstructure:"path"`
}

// ─── Log ───

// LogConfig contains logging settings.
type LogConfig struct {
	Level   string           `mapstructure:"level"`  // debug / info / warn / error
	Format  string           `mapstructure:"format"` // json / text
	Outputs LogOutputsConfig `mapstructure:"outputs"`
}

// LogOutputsConfig contains structured log output destinations.
type LogOutputsConfig struct {
	File FileOutputConfig `mapstructure:"file"`
}

// FileOutputConfig configures file log output.
type FileOutputConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Path     string         `mapstructure:"path"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSizeMB  int  `mapstructure:"max_size_mb"`
	MaxAgeDays int  `mapstructure:"max_age_days"`
	MaxBackups int  `mapstructure:"max_backups"`
	Compress   bool `mapstructure:"compress"`
}

// defaultStations mirrors the constants embedded in each original_source/ST*.py:
// cycle time, baseline failure rate and mean-time-to-repair, and the token
// buffer capacity feeding each station, keyed by station name.
var defaultStations = map[string]StationConfig{
	"S1": {CycleTimeS: 8.0, FailureRate: 0.01, MTTRs: 20.0, BufferCapacity: 5},
	"S2": {CycleTimeS: 10.0, FailureRate: 0.02, MTTRs: 30.0, BufferCapacity: 5},
	"S3": {CycleTimeS: 12.0, FailureRate: 0.02, MTTRs: 45.0, BufferCapacity: 5},
	"S4": {CycleTimeS: 41.0, FailureRate: 0.07, MTTRs: 60.0, BufferCapacity: 5},
	"S5": {CycleTimeS: 9.0, FailureRate: 0.03, MTTRs: 25.0, BufferCapacity: 5},
	"S6": {CycleTimeS: 15.0, FailureRate: 0.015, MTTRs: 40.0, BufferCapacity: 5},
}

var defaultBuffers = map[string]uint32{
	"S1->S2": 5,
	"S2->S3": 5,
	"S3->S4": 5,
	"S4->S5": 5,
	"S5->S6": 5,
}

// Load loads the line configuration from path (JSON). A missing or
// unreadable file is not fatal: it is logged and the registered defaults
// are used instead.
func Load(path string) (*LineConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		slog.Warn("config file missing or unreadable, using defaults", "path", path, "error", err)
	}

	var cfg LineConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// viper lower-cases every key; restore the upper-case station names
	// ("S1", "S1->S2") the maps are indexed by.
	stations := make(map[string]StationConfig, len(cfg.Stations))
	for name, sc := range cfg.Stations {
		stations[strings.ToUpper(name)] = sc
	}
	cfg.Stations = stations
	buffers := make(map[string]uint32, len(cfg.Buffers))
	for edge, n := range cfg.Buffers {
		buffers[strings.ToUpper(edge)] = n
	}
	cfg.Buffers = buffers

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers the per-station and per-buffer defaults plus the
// ambient log/metrics defaults.
func setDefaults(v *viper.Viper) {
	for name, sc := range defaultStations {
		prefix := "stations." + name + "."
		v.SetDefault(prefix+"cycle_time_s", sc.CycleTimeS)
		v.SetDefault(prefix+"failure_rate", sc.FailureRate)
		v.SetDefault(prefix+"mttr_s", sc.MTTRs)
		v.SetDefault(prefix+"buffer_capacity", sc.BufferCapacity)
	}
	for edge, cap := range defaultBuffers {
		v.SetDefault("buffers."+edge, cap)
	}

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.outputs.file.enabled", false)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.listen", ":9091")
	v.SetDefault("metrics.path", "/metrics")
}

// validate checks the subset of fields that can make the simulation
// meaningless if left malformed; everything else is tolerated as-is.
func (cfg *LineConfig) validate() error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Log.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug/info/warn/error)", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" && cfg.Log.Format != "text" {
		return fmt.Errorf("invalid log format: %s (must be json/text)", cfg.Log.Format)
	}
	for name, sc := range cfg.Stations {
		if sc.CycleTimeS <= 0 {
			return fmt.Errorf("stations.%s.cycle_time_s must be positive", name)
		}
		if sc.FailureRate < 0 || sc.FailureRate > 1 {
			return fmt.Errorf("stations.%s.failure_rate must be within [0,1]", name)
		}
	}
	return nil
}
