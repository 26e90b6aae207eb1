package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "MASTOVIEW"

// Config holds application-level configuration.
type Config struct {
	InstanceURL     string        // e.g. "https://unityjp-mastodon.tokyo"
	LocalOnly       bool          // Restrict the public timeline to the instance's own posts
	Limit           int           // Posts per page
	Cooldown        time.Duration // Minimum spacing between timeline requests
	RefreshInterval time.Duration // Auto refresh period
	RepaintInterval time.Duration // Redraw period for relative timestamps
	ImageTimeout    time.Duration // Per-request HTTP timeout
	MaxImageFetches int           // Concurrent image downloads per cache
	LogLevel        string
	LogPath         string
	UIStatePath     string
	MetricsAddr     string // Empty disables the metrics endpoint
}

// NewViper returns a viper instance with defaults and environment binding.
//
//	MASTOVIEW_INSTANCE          — Mastodon instance URL (default: https://unityjp-mastodon.tokyo)
//	MASTOVIEW_LOCAL             — Local timeline only (default: true)
//	MASTOVIEW_COOLDOWN          — Request spacing (default: 10s)
//	MASTOVIEW_REFRESH_INTERVAL  — Auto refresh period (default: 10m)
//	MASTOVIEW_METRICS_ADDR      — Prometheus listen address (default: disabled)
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("instance", "https://unityjp-mastodon.tokyo")
	v.SetDefault("local", true)
	v.SetDefault("limit", 20)
	v.SetDefault("cooldown", "10s")
	v.SetDefault("refresh_interval", "10m")
	v.SetDefault("repaint_interval", "1m")
	v.SetDefault("image_timeout", "15s")
	v.SetDefault("max_image_fetches", 4)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_path", "")
	v.SetDefault("state_path", "")
	v.SetDefault("metrics_addr", "")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile merges a config file into v. An explicit path must exist; with
// no path, config.{yaml,json,toml} in the user config dir is used if present.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", path, err)
		}
		return nil
	}

	dir, err := Dir()
	if err != nil {
		return nil
	}
	v.SetConfigName("config")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// Dir returns ~/.config/mastoview.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "mastoview"), nil
}

// Load resolves and validates configuration from v.
func Load(v *viper.Viper) (Config, error) {
	instance, err := normalizeInstance(v.GetString("instance"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		InstanceURL:     instance,
		LocalOnly:       v.GetBool("local"),
		Limit:           v.GetInt("limit"),
		Cooldown:        v.GetDuration("cooldown"),
		RefreshInterval: v.GetDuration("refresh_interval"),
		RepaintInterval: v.GetDuration("repaint_interval"),
		ImageTimeout:    v.GetDuration("image_timeout"),
		MaxImageFetches: v.GetInt("max_image_fetches"),
		LogLevel:        strings.ToLower(strings.TrimSpace(v.GetString("log_level"))),
		LogPath:         v.GetString("log_path"),
		UIStatePath:     v.GetString("state_path"),
		MetricsAddr:     strings.TrimSpace(v.GetString("metrics_addr")),
	}

	if cfg.Limit < 1 || cfg.Limit > 40 {
		return Config{}, fmt.Errorf("invalid limit %d: must be between 1 and 40", cfg.Limit)
	}
	for name, d := range map[string]time.Duration{
		"cooldown":         cfg.Cooldown,
		"refresh_interval": cfg.RefreshInterval,
		"repaint_interval": cfg.RepaintInterval,
		"image_timeout":    cfg.ImageTimeout,
	} {
		if d <= 0 {
			return Config{}, fmt.Errorf("invalid %s: must be a positive duration", name)
		}
	}

	if cfg.LogPath == "" || cfg.UIStatePath == "" {
		dir, err := Dir()
		if err != nil {
			return Config{}, err
		}
		if cfg.LogPath == "" {
			cfg.LogPath = filepath.Join(dir, "logs", fmt.Sprintf("mastoview-%s.log", time.Now().Format("2006-01-02")))
		}
		if cfg.UIStatePath == "" {
			cfg.UIStatePath = filepath.Join(dir, "ui_state.json")
		}
	}
	return cfg, nil
}

func normalizeInstance(instance string) (string, error) {
	instance = strings.TrimSpace(instance)
	parsed, err := url.Parse(instance)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid instance %q: must be an absolute URL", instance)
	}
	if parsed.Scheme != "https" {
		return "", fmt.Errorf("invalid instance %q: only https is allowed", instance)
	}
	return strings.TrimRight(parsed.String(), "/"), nil
}

// UIState holds display preferences kept between runs.
type UIState struct {
	HideMedia bool `json:"hide_media,omitempty"`
}

// LoadUIState reads the state file. A missing file yields the zero state.
func LoadUIState(path string) (UIState, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return UIState{}, nil
	}
	if err != nil {
		return UIState{}, fmt.Errorf("reading ui state: %w", err)
	}
	var st UIState
	if err := json.Unmarshal(data, &st); err != nil {
		return UIState{}, fmt.Errorf("parsing ui state: %w", err)
	}
	return st, nil
}

// SaveUIState writes the state file, creating its directory.
func SaveUIState(path string, st UIState) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding ui state: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing ui state: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing ui state: %w", err)
	}
	return nil
}
