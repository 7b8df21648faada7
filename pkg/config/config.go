// Package config loads skinsuite settings from a TOML file.
//
// The file lives at ~/.config/skinsuite/config.toml unless SKINSUITE_CONFIG
// names another path. A missing file is not an error: every key has a
// default, and keys absent from the file keep theirs.
//
//	clipboard_path = "/tmp/skin/clipboard.json"
//	max_influence  = 4
//	store          = "redis"
//	redis_addr     = "localhost:6379"
//	session_ttl    = "10m"
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/skinsuite/pkg/session"
	"github.com/matzehuels/skinsuite/pkg/snapshot"
	"github.com/matzehuels/skinsuite/pkg/weights"
)

// EnvPath names the environment variable overriding the config file path.
const EnvPath = "SKINSUITE_CONFIG"

// Snapshot store backends.
const (
	StoreFile  = "file"
	StoreRedis = "redis"
)

// Config holds all settings.
type Config struct {
	ClipboardPath string   `toml:"clipboard_path"`
	SelectionPath string   `toml:"selection_path"`
	MaxInfluence  int      `toml:"max_influence"`
	PruneMargin   float64  `toml:"prune_margin"`
	Store         string   `toml:"store"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPrefix   string   `toml:"redis_prefix"`
	ListenAddr    string   `toml:"listen_addr"`
	SessionTTL    Duration `toml:"session_ttl"`
}

// Duration is a time.Duration written as a Go duration string in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the settings used when no file is present.
func Default() Config {
	cache := cacheDir()
	return Config{
		ClipboardPath: filepath.Join(cache, "clipboard.json"),
		SelectionPath: filepath.Join(cache, "saved_selection.json"),
		MaxInfluence:  weights.DefaultMaxInfluence,
		PruneMargin:   weights.DefaultPruneMargin,
		Store:         StoreFile,
		RedisAddr:     "localhost:6379",
		RedisPrefix:   snapshot.DefaultRedisPrefix,
		ListenAddr:    "127.0.0.1:8080",
		SessionTTL:    Duration{session.DefaultTTL},
	}
}

// DefaultPath returns the config file path: $SKINSUITE_CONFIG if set,
// otherwise config.toml under the user config directory.
func DefaultPath() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".skinsuite", "config.toml")
	}
	return filepath.Join(dir, "skinsuite", "config.toml")
}

// Load reads the file at path over the defaults. An empty path means
// [DefaultPath]. A missing file yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and the store backend name.
func (c Config) Validate() error {
	if c.MaxInfluence < 1 {
		return fmt.Errorf("max_influence must be at least 1, got %d", c.MaxInfluence)
	}
	if c.PruneMargin < 0 {
		return fmt.Errorf("prune_margin must not be negative, got %v", c.PruneMargin)
	}
	switch c.Store {
	case StoreFile:
		if c.ClipboardPath == "" || c.SelectionPath == "" {
			return fmt.Errorf("clipboard_path and selection_path must be set for the file store")
		}
	case StoreRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("redis_addr must be set for the redis store")
		}
	default:
		return fmt.Errorf("unknown store %q (want %q or %q)", c.Store, StoreFile, StoreRedis)
	}
	if c.SessionTTL.Duration <= 0 {
		return fmt.Errorf("session_ttl must be positive, got %s", c.SessionTTL)
	}
	return nil
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// cacheDir follows the XDG standard (~/.cache/skinsuite/).
func cacheDir() string {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, "skinsuite")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "skinsuite")
	}
	return filepath.Join(home, ".cache", "skinsuite")
}
