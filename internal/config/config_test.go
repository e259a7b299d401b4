package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	doc := `
[server]
name = "skybase-eu"
id = 3

[items]
max_stack = 32
pickup_delay = "750ms"

[logging]
level = "debug"
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Name != "skybase-eu" || cfg.Server.ID != 3 {
		t.Fatalf("server = %+v", cfg.Server)
	}
	if cfg.Items.MaxStack != 32 {
		t.Fatalf("max_stack = %d", cfg.Items.MaxStack)
	}
	if cfg.Items.PickupDelay != 750*time.Millisecond {
		t.Fatalf("pickup_delay = %v", cfg.Items.PickupDelay)
	}
	// Unset keys keep their defaults.
	if cfg.Items.MergeRadius != 1.5 {
		t.Fatalf("merge_radius = %v", cfg.Items.MergeRadius)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("level = %q", cfg.Logging.Level)
	}
	if cfg.Server.StartTime == 0 {
		t.Fatal("start time not stamped")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("missing file accepted")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	os.WriteFile(path, []byte("[server\nname="), 0o644)
	if _, err := Load(path); err == nil {
		t.Fatal("malformed file accepted")
	}
}
