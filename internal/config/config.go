package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	// lrclib.net lookups
	Lrclib LrclibConfig `koanf:"lrclib"`

	// Local lyrics cache
	Cache CacheConfig `koanf:"cache"`

	// Logging to stderr
	Log LogConfig `koanf:"log"`

	// Terminal player
	Player PlayerConfig `koanf:"player"`
}

// LrclibConfig holds lrclib API settings.
type LrclibConfig struct {
	URL     string `koanf:"url"`     // e.g., "https://lrclib.net/api"
	Timeout string `koanf:"timeout"` // Go duration string (default: "10s")
}

// CacheConfig holds the lyrics cache settings.
type CacheConfig struct {
	Path     string `koanf:"path"`     // database file (default: XDG data dir)
	Disabled bool   `koanf:"disabled"` // skip the cache entirely
	TTLDays  int    `koanf:"ttl_days"` // entries older than this are refetched (default: 30)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`  // "debug", "info", "warn", "error" (default: "warn")
	Format string `koanf:"format"` // "text" or "json" (default: "text")
}

// PlayerConfig holds settings for the play command.
type PlayerConfig struct {
	Speed    float64 `koanf:"speed"`     // playback rate (default: 1.0)
	OffsetMS int     `koanf:"offset_ms"` // global lyrics offset in milliseconds
}

const (
	defaultLrclibTimeout = 10 * time.Second
	defaultCacheTTLDays  = 30
	defaultLogLevel      = "warn"
	defaultLogFormat     = "text"
	maxPlayerSpeed       = 4.0
)

// Load reads the config files in priority order. extra, when set, is
// loaded last and must exist.
func Load(extra string) (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	if extra != "" {
		if err := k.Load(file.Provider(expandPath(extra)), toml.Parser()); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	// Normalize lrclib URL (remove trailing slash)
	cfg.Lrclib.URL = strings.TrimSuffix(cfg.Lrclib.URL, "/")

	// Expand ~ in cache path
	if cfg.Cache.Path != "" {
		cfg.Cache.Path = expandPath(cfg.Cache.Path)
	}

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/lyricsync/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "lyricsync", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// LrclibTimeout returns the request timeout, falling back to the default
// for empty or invalid values.
func (c *Config) LrclibTimeout() time.Duration {
	d, err := time.ParseDuration(c.Lrclib.Timeout)
	if err != nil || d <= 0 {
		return defaultLrclibTimeout
	}
	return d
}

// CacheTTL returns how long cached lyrics stay fresh.
func (c *Config) CacheTTL() time.Duration {
	days := c.Cache.TTLDays
	if days <= 0 {
		days = defaultCacheTTLDays
	}
	return time.Duration(days) * 24 * time.Hour
}

// GetLogConfig returns the log configuration with defaults applied.
func (c *Config) GetLogConfig() LogConfig {
	cfg := c.Log
	cfg.Level = strings.ToLower(strings.TrimSpace(cfg.Level))
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))

	if cfg.Level == "" {
		cfg.Level = defaultLogLevel
	}
	if cfg.Format == "" {
		cfg.Format = defaultLogFormat
	}
	return cfg
}

// GetPlayerConfig returns the player configuration with defaults applied.
func (c *Config) GetPlayerConfig() PlayerConfig {
	cfg := c.Player
	if cfg.Speed <= 0 || cfg.Speed > maxPlayerSpeed {
		cfg.Speed = 1.0
	}
	return cfg
}

// PlayerOffset returns the global lyrics offset.
func (c *Config) PlayerOffset() time.Duration {
	return time.Duration(c.Player.OffsetMS) * time.Millisecond
}
