package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bpcss/config"
)

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bpcss.yaml")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("unable to write config: %v", err)
	}
	return path
}

func TestLoadConfigurationDefaults(t *testing.T) {
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration: %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.Logging.Console.Level != "normal" {
		t.Errorf("console level = %q, want normal", cfg.Logging.Console.Level)
	}
	opts := cfg.Transform.Options()
	if opts.OnlyScreen || opts.DeviceWidth || opts.KeepEmptyRules {
		t.Errorf("default options = %+v, want all disabled", opts)
	}
}

func TestLoadConfigurationOverlay(t *testing.T) {
	path := writeConfig(t, `
version: 1
transform:
  use_only_screen: true
  keep_empty_rules: true
`)
	cfg, err := config.LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration: %v", err)
	}
	opts := cfg.Transform.Options()
	if !opts.OnlyScreen || !opts.KeepEmptyRules {
		t.Errorf("options = %+v, want OnlyScreen and KeepEmptyRules set", opts)
	}
	if opts.DeviceWidth {
		t.Error("DeviceWidth must keep its default")
	}
	// untouched sections keep their defaults
	if cfg.Logging.Console.Level != "normal" {
		t.Errorf("console level = %q, want normal", cfg.Logging.Console.Level)
	}
}

func TestLoadConfigurationRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, `
version: 1
transform:
  use_device_width: true
`)
	if _, err := config.LoadConfiguration(path); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestLoadConfigurationRejectsBadLevel(t *testing.T) {
	path := writeConfig(t, `
version: 1
logging:
  console:
    level: verbose
`)
	_, err := config.LoadConfiguration(path)
	if err == nil || !strings.Contains(err.Error(), "verbose") {
		t.Fatalf("LoadConfiguration = %v, want unknown level error", err)
	}
}

func TestDumpRoundTrip(t *testing.T) {
	cfg := config.Default()
	cfg.Transform.DeviceWidth = true

	data, err := config.Dump(cfg)
	if err != nil {
		t.Fatalf("Dump: %v", err)
	}
	loaded, err := config.LoadConfiguration(writeConfig(t, string(data)))
	if err != nil {
		t.Fatalf("LoadConfiguration: %v", err)
	}
	if !loaded.Transform.Options().DeviceWidth {
		t.Error("DeviceWidth lost in dump/load round trip")
	}
}
