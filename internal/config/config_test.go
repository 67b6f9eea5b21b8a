package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(nil, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != DefaultPort {
		t.Errorf("port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Slow.Duration != DefaultSlowDuration {
		t.Errorf("slow duration = %s, want %s", cfg.Slow.Duration, DefaultSlowDuration)
	}
	if cfg.Addr() != ":3000" {
		t.Errorf("addr = %q, want %q", cfg.Addr(), ":3000")
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "server:\n  port: 4100\nslow:\n  duration: 1500ms\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(nil, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 4100 {
		t.Errorf("port = %d, want 4100", cfg.Server.Port)
	}
	if cfg.Slow.Duration != 1500*time.Millisecond {
		t.Errorf("slow duration = %s, want 1.5s", cfg.Slow.Duration)
	}
}

func TestLoadEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LOOPBLOCK_SERVER_PORT", "4200")
	t.Setenv("LOOPBLOCK_SLOW_DURATION", "2s")

	cfg, err := Load(viper.New(), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 4200 {
		t.Errorf("port = %d, want 4200", cfg.Server.Port)
	}
	if cfg.Slow.Duration != 2*time.Second {
		t.Errorf("slow duration = %s, want 2s", cfg.Slow.Duration)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(nil, filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	cfg.Server.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for port out of range")
	}

	cfg = Default()
	cfg.Slow.Duration = -time.Second
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative duration")
	}
}
