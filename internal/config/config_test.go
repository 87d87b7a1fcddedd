package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if len(cfg.Items.Patterns) != 1 || cfg.Items.Patterns[0] != "torch" {
		t.Errorf("Items.Patterns = %v, want [torch]", cfg.Items.Patterns)
	}
	if cfg.Inventory.GetQuietPeriod() != 50*time.Millisecond {
		t.Errorf("Inventory.GetQuietPeriod() = %v, want 50ms", cfg.Inventory.GetQuietPeriod())
	}
	if !cfg.Ledger.IsEnabled() {
		t.Error("Ledger.IsEnabled() = false, want true by default")
	}
	if cfg.Ledger.RetentionDays != 30 {
		t.Errorf("Ledger.RetentionDays = %d, want 30", cfg.Ledger.RetentionDays)
	}
	if cfg.Server.Address != ":19132" {
		t.Errorf("Server.Address = %q, want :19132", cfg.Server.Address)
	}
	if cfg.EventBus.GetWorkers() != 4 || cfg.EventBus.GetQueueSize() != 100 {
		t.Errorf("EventBus = %d/%d, want 4/100", cfg.EventBus.GetWorkers(), cfg.EventBus.GetQueueSize())
	}
}

func TestParse(t *testing.T) {
	data := []byte(`
log:
  level: DEBUG
  use_json: true
items:
  patterns: ["lantern", "torch"]
  script: rules.lua
inventory:
  quiet_period: 200ms
ledger:
  enabled: false
  retention_days: 7
dragonfly:
  night_vision: true
shutdown_timeout: 10s
`)

	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.Log.GetLevel() != "debug" {
		t.Errorf("Log.GetLevel() = %q, want debug", cfg.Log.GetLevel())
	}
	if !cfg.Log.UseJSON {
		t.Error("Log.UseJSON = false, want true")
	}
	if len(cfg.Items.Patterns) != 2 || cfg.Items.Script != "rules.lua" {
		t.Errorf("Items = %+v", cfg.Items)
	}
	if cfg.Inventory.GetQuietPeriod() != 200*time.Millisecond {
		t.Errorf("GetQuietPeriod() = %v, want 200ms", cfg.Inventory.GetQuietPeriod())
	}
	if cfg.Ledger.IsEnabled() {
		t.Error("Ledger.IsEnabled() = true, want false")
	}
	if cfg.Ledger.RetentionDays != 7 {
		t.Errorf("RetentionDays = %d, want 7", cfg.Ledger.RetentionDays)
	}
	if !cfg.Dragonfly.NightVision {
		t.Error("Dragonfly.NightVision = false, want true")
	}
	if cfg.ShutdownTimeout.Duration() != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 10s", cfg.ShutdownTimeout.Duration())
	}
}

func TestParse_QuietPeriod(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want time.Duration
	}{
		{"unset uses default", "inventory: {}\n", 50 * time.Millisecond},
		{"explicit zero disables debounce", "inventory:\n  quiet_period: 0s\n", 0},
		{"negative clamps to zero", "inventory:\n  quiet_period: -5ms\n", 0},
		{"explicit value", "inventory:\n  quiet_period: 75ms\n", 75 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.yaml))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if got := cfg.Inventory.GetQuietPeriod(); got != tt.want {
				t.Errorf("GetQuietPeriod() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParse_InvalidDuration(t *testing.T) {
	if _, err := Parse([]byte("shutdown_timeout: soon\n")); err == nil {
		t.Error("Parse error = nil, want duration error")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TORCHLIGHT_TEST_ADDR", ":19133")

	tests := []struct {
		input string
		want  string
	}{
		{"address: ${TORCHLIGHT_TEST_ADDR}", "address: :19133"},
		{"address: ${TORCHLIGHT_TEST_ADDR:0.0.0.0:1}", "address: :19133"},
		{"path: ${TORCHLIGHT_TEST_UNSET:./db.sqlite}", "path: ./db.sqlite"},
		{"path: ${TORCHLIGHT_TEST_UNSET}", "path: "},
		{"plain text", "plain text"},
	}

	for _, tt := range tests {
		if got := expandEnvVars(tt.input); got != tt.want {
			t.Errorf("expandEnvVars(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("TORCHLIGHT_TEST_NAME", "Lit Server")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  name: ${TORCHLIGHT_TEST_NAME}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Name != "Lit Server" {
		t.Errorf("Server.Name = %q, want %q", cfg.Server.Name, "Lit Server")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load(missing) error = nil, want error")
	}
}
