package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("missing file should yield defaults, got %+v", cfg)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.MaxInfluence != 8 {
		t.Errorf("MaxInfluence = %d, want 8", cfg.MaxInfluence)
	}
	if cfg.PruneMargin != 0.0001 {
		t.Errorf("PruneMargin = %v", cfg.PruneMargin)
	}
	if filepath.Base(cfg.ClipboardPath) != "clipboard.json" {
		t.Errorf("ClipboardPath = %s", cfg.ClipboardPath)
	}
	if filepath.Base(cfg.SelectionPath) != "saved_selection.json" {
		t.Errorf("SelectionPath = %s", cfg.SelectionPath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
clipboard_path = "/tmp/clip.json"
max_influence = 4
store = "redis"
redis_addr = "cache:6379"
session_ttl = "90s"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ClipboardPath != "/tmp/clip.json" {
		t.Errorf("ClipboardPath = %s", cfg.ClipboardPath)
	}
	if cfg.MaxInfluence != 4 {
		t.Errorf("MaxInfluence = %d", cfg.MaxInfluence)
	}
	if cfg.Store != StoreRedis || cfg.RedisAddr != "cache:6379" {
		t.Errorf("store = %s %s", cfg.Store, cfg.RedisAddr)
	}
	if cfg.SessionTTL.Duration != 90*time.Second {
		t.Errorf("SessionTTL = %s", cfg.SessionTTL)
	}
	// untouched keys keep defaults
	if cfg.PruneMargin != Default().PruneMargin {
		t.Errorf("PruneMargin = %v", cfg.PruneMargin)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "max_influence = = 3", "load config"},
		{"influence", "max_influence = 0", "max_influence"},
		{"margin", "prune_margin = -1.0", "prune_margin"},
		{"store", `store = "mongo"`, "unknown store"},
		{"ttl", `session_ttl = "soon"`, "load config"},
		{"redis", "store = \"redis\"\nredis_addr = \"\"", "redis_addr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestDefaultPathEnv(t *testing.T) {
	t.Setenv(EnvPath, "/etc/skinsuite.toml")
	if got := DefaultPath(); got != "/etc/skinsuite.toml" {
		t.Errorf("DefaultPath() = %s", got)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.MaxInfluence = 3
	var buf bytes.Buffer
	if err := cfg.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	got, err := Load(writeConfig(t, buf.String()))
	if err != nil {
		t.Fatal(err)
	}
	if got != cfg {
		t.Errorf("round trip = %+v, want %+v", got, cfg)
	}
}

func TestDefaultHonorsXDGCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/var/cache")
	cfg := Default()
	if cfg.ClipboardPath != filepath.Join("/var/cache", "skinsuite", "clipboard.json") {
		t.Errorf("ClipboardPath = %s", cfg.ClipboardPath)
	}
}
