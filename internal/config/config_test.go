package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsOnMissingFile(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Loop.ExitOnLastWindowClose {
		t.Fatal("exit-on-last-window-close should default off")
	}
	if cfg.Loop.QueueCapacity != defaultQueueCapacity {
		t.Fatalf("queue capacity = %d", cfg.Loop.QueueCapacity)
	}
	if cfg.Coordinates != CoordinatesLogical {
		t.Fatalf("coordinates = %q", cfg.Coordinates)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
loop:
  exit_on_last_window_close: true
  queue_capacity: 64
coordinates: physical
diagnostics:
  enabled: true
  level: debug
  file: /tmp/casement-diag.log
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if !cfg.Loop.ExitOnLastWindowClose {
		t.Fatal("exit policy not read")
	}
	if cfg.Loop.QueueCapacity != 64 {
		t.Fatalf("queue capacity = %d, want 64", cfg.Loop.QueueCapacity)
	}
	if cfg.Coordinates != CoordinatesPhysical {
		t.Fatalf("coordinates = %q, want physical", cfg.Coordinates)
	}
	if !cfg.Diagnostics.Enabled || cfg.Diagnostics.Level != "debug" {
		t.Fatalf("diagnostics = %+v", cfg.Diagnostics)
	}
}

func TestInvalidValuesRejected(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad coordinates", "coordinates: parsecs\n"},
		{"diagnostics without file", "diagnostics:\n  enabled: true\n"},
		{"malformed yaml", "loop: [\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tc.content), 0644); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			if _, err := LoadFromPath(path); err == nil {
				t.Fatal("invalid config accepted")
			}
		})
	}
}

func TestQueueCapacityFloor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("loop:\n  queue_capacity: -5\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Loop.QueueCapacity != defaultQueueCapacity {
		t.Fatalf("queue capacity = %d, want default", cfg.Loop.QueueCapacity)
	}
}

func TestConfigPathEnvOverride(t *testing.T) {
	t.Setenv(configEnvVar, "/custom/path.yaml")
	path, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("DefaultConfigPath: %v", err)
	}
	if path != "/custom/path.yaml" {
		t.Fatalf("path = %q", path)
	}
}
