package config

import (
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"INSTINCT_REST_ADDR", "INSTINCT_WS_ADDR", "INSTINCT_LOG_LEVEL",
		"INSTINCT_SNAPSHOT_DRIVER", "INSTINCT_MAX_PLAN_BYTES", "INSTINCT_TRACING_ENABLED",
		"INSTINCT_CONFIG_FILE",
	} {
		os.Unsetenv(key)
	}

	cfg := Load()
	if cfg.RESTAddr != ":8080" {
		t.Errorf("RESTAddr = %q, want :8080", cfg.RESTAddr)
	}
	if cfg.SnapshotDriver != "memory" {
		t.Errorf("SnapshotDriver = %q, want memory", cfg.SnapshotDriver)
	}
	if cfg.MaxPlanBytes != 0 {
		t.Errorf("MaxPlanBytes = %d, want 0", cfg.MaxPlanBytes)
	}
	if cfg.TracingEnabled {
		t.Error("TracingEnabled = true, want false")
	}
}

func TestLoadOverridesFromEnv(t *testing.T) {
	os.Setenv("INSTINCT_REST_ADDR", ":9090")
	os.Setenv("INSTINCT_MAX_PLAN_BYTES", "4096")
	os.Setenv("INSTINCT_TRACING_ENABLED", "true")
	defer func() {
		os.Unsetenv("INSTINCT_REST_ADDR")
		os.Unsetenv("INSTINCT_MAX_PLAN_BYTES")
		os.Unsetenv("INSTINCT_TRACING_ENABLED")
	}()

	cfg := Load()
	if cfg.RESTAddr != ":9090" {
		t.Errorf("RESTAddr = %q, want :9090", cfg.RESTAddr)
	}
	if cfg.MaxPlanBytes != 4096 {
		t.Errorf("MaxPlanBytes = %d, want 4096", cfg.MaxPlanBytes)
	}
	if !cfg.TracingEnabled {
		t.Error("TracingEnabled = false, want true")
	}
}

func TestLoadReadsYAMLFileThenEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/instinct.yaml"
	if err := os.WriteFile(path, []byte("rest_addr: \":7070\"\nlog_level: debug\n"), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	os.Setenv("INSTINCT_CONFIG_FILE", path)
	os.Setenv("INSTINCT_LOG_LEVEL", "warn")
	defer func() {
		os.Unsetenv("INSTINCT_CONFIG_FILE")
		os.Unsetenv("INSTINCT_LOG_LEVEL")
	}()

	cfg := Load()
	if cfg.RESTAddr != ":7070" {
		t.Errorf("RESTAddr = %q, want :7070 (from file)", cfg.RESTAddr)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn (env overrides file)", cfg.LogLevel)
	}
}
