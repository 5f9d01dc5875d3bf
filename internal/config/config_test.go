package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTmpConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "line.json")
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatalf("write tmp config: %v", err)
	}
	return p
}

func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(writeTmpConfig(t, `{
		"stations": {
			"S1": {"cycle_time_s": 8, "failure_rate": 0.01, "mttr_s": 20, "buffer_capacity": 5}
		},
		"buffers": {"S1->S2": 5},
		"log": {"level": "debug", "format": "json"},
		"metrics": {"enabled": true, "listen": "0.0.0.0:9090", "path": "/metrics"}
	}`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	s1, ok := cfg.Stations["S1"]
	if !ok {
		t.Fatal("expected S1 station config to be present")
	}
	if s1.CycleTimeS != 8 {
		t.Errorf("S1.CycleTimeS = %v, want 8", s1.CycleTimeS)
	}
	if s1.FailureRate != 0.01 {
		t.Errorf("S1.FailureRate = %v, want 0.01", s1.FailureRate)
	}
	if cfg.Buffers["S1->S2"] != 5 {
		t.Errorf("Buffers[S1->S2] = %v, want 5", cfg.Buffers["S1->S2"])
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = false, want true")
	}
}

func TestLoadInvalidLogLevel(t *testing.T) {
	_, err := Load(writeTmpConfig(t, `{"log": {"level": "invalid", "format": "json"}}`))
	if err == nil {
		t.Fatal("expected error for invalid log level")
	}
	if !strings.Contains(err.Error(), "invalid log level") {
		t.Errorf("error = %v, want 'invalid log level'", err)
	}
}

func TestLoadInvalidLogFormat(t *testing.T) {
	_, err := Load(writeTmpConfig(t, `{"log": {"level": "info", "format": "invalid"}}`))
	if err == nil {
		t.Fatal("expected error for invalid log format")
	}
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "does-not-exist.json"))
	if err != nil {
		t.Fatalf("Load should not fail on a missing file, got: %v", err)
	}
	s4, ok := cfg.Stations["S4"]
	if !ok {
		t.Fatal("expected default S4 station config")
	}
	if s4.CycleTimeS != 41.0 {
		t.Errorf("S4.CycleTimeS = %v, want default 41.0", s4.CycleTimeS)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want default info", cfg.Log.Level)
	}
	if cfg.Metrics.Listen != ":9091" {
		t.Errorf("Metrics.Listen = %q, want default :9091", cfg.Metrics.Listen)
	}
}

func TestLoadRejectsOutOfRangeFailureRate(t *testing.T) {
	_, err := Load(writeTmpConfig(t, `{
		"stations": {"S1": {"cycle_time_s": 8, "failure_rate": 1.5, "mttr_s": 20, "buffer_capacity": 5}}
	}`))
	if err == nil {
		t.Fatal("expected error for out-of-range failure_rate")
	}
	if !strings.Contains(err.Error(), "failure_rate") {
		t.Errorf("error = %v, want mention of failure_rate", err)
	}
}

func TestLoadRejectsNonPositiveCycleTime(t *testing.T) {
	_, err := Load(writeTmpConfig(t, `{
		"stations": {"S1": {"cycle_time_s": 0, "failure_rate": 0.01, "mttr_s": 20, "buffer_capacity": 5}}
	}`))
	if err == nil {
		t.Fatal("expected error for non-positive cycle_time_s")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(writeTmpConfig(t, `{"log": {"level": "info", "format": "json"}}`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug (from env)", cfg.Log.Level)
	}
}
