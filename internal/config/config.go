// Package config loads the portfolio configuration from defaults, an
// optional YAML file and PORTFOLIO_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/natefinch/atomic"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/toreleon/portfolio/internal/theme"
	"github.com/toreleon/portfolio/internal/tracker"
)

// EnvPrefix prefixes environment overrides. A double underscore separates
// nested keys: PORTFOLIO_TRACKER__THRESHOLD -> tracker.threshold.
const EnvPrefix = "PORTFOLIO_"

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Config is the top-level configuration, corresponding to portfolio.yml.
type Config struct {
	Addr        string        `yaml:"addr" koanf:"addr"`
	OutputDir   string        `yaml:"output_dir" koanf:"output_dir"`
	ContentDir  string        `yaml:"content_dir" koanf:"content_dir"`
	BasePath    string        `yaml:"base_path" koanf:"base_path"`
	AssetPrefix string        `yaml:"asset_prefix" koanf:"asset_prefix"`
	LogLevel    string        `yaml:"log_level" koanf:"log_level"`
	Theme       ThemeConfig   `yaml:"theme" koanf:"theme"`
	Tracker     TrackerConfig `yaml:"tracker" koanf:"tracker"`
}

// ThemeConfig selects the mode every page starts in.
type ThemeConfig struct {
	Default string `yaml:"default" koanf:"default"`
}

// TrackerConfig tunes the section visibility observation.
type TrackerConfig struct {
	Threshold  float64 `yaml:"threshold" koanf:"threshold"`
	RootMargin string  `yaml:"root_margin" koanf:"root_margin"`
}

// DefaultConfig returns the built-in configuration. PORT is honored for
// the listen address.
func DefaultConfig() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return &Config{
		Addr:      ":" + port,
		OutputDir: "out",
		LogLevel:  "info",
		Theme:     ThemeConfig{Default: theme.DefaultMode.String()},
		Tracker: TrackerConfig{
			Threshold:  tracker.DefaultThreshold,
			RootMargin: tracker.DefaultRootMargin,
		},
	}
}

// Load reads configuration from the given YAML file, if it exists, then
// overlays environment overrides and GitHub Pages path detection.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if cfg.BasePath == "" && cfg.AssetPrefix == "" && os.Getenv("GITHUB_ACTIONS") == "true" {
		cfg.BasePath = GitHubPagesBase(os.Getenv("GITHUB_REPOSITORY"))
		cfg.AssetPrefix = cfg.BasePath
	}
	cfg.BasePath = strings.TrimSuffix(cfg.BasePath, "/")
	cfg.AssetPrefix = strings.TrimSuffix(cfg.AssetPrefix, "/")

	return cfg, nil
}

// GitHubPagesBase returns the base path for a GitHub Pages deployment of
// repo ("owner/name"): "/name" for project sites, "" for the
// owner.github.io user site or a malformed repo.
func GitHubPagesBase(repo string) string {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" {
		return ""
	}
	if strings.EqualFold(name, owner+".github.io") {
		return ""
	}
	return "/" + name
}

// Save writes the configuration to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("%w: output_dir is required", ErrInvalid)
	}
	if c.Tracker.Threshold <= 0 || c.Tracker.Threshold > 1 {
		return fmt.Errorf("%w: tracker.threshold must be in (0, 1], got %v", ErrInvalid, c.Tracker.Threshold)
	}
	if _, err := theme.ParseMode(c.Theme.Default); err != nil {
		return fmt.Errorf("%w: theme.default: %v", ErrInvalid, err)
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("%w: log_level: %v", ErrInvalid, err)
	}
	if c.BasePath != "" && !strings.HasPrefix(c.BasePath, "/") {
		return fmt.Errorf("%w: base_path must start with /", ErrInvalid)
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	err := lvl.UnmarshalText([]byte(c.LogLevel))
	return lvl, err
}

// StartMode parses Theme.Default.
func (c *Config) StartMode() theme.Mode {
	m, err := theme.ParseMode(c.Theme.Default)
	if err != nil {
		return theme.DefaultMode
	}
	return m
}

// TrackerOptions converts the tracker settings.
func (c *Config) TrackerOptions() tracker.Options {
	return tracker.Options{Threshold: c.Tracker.Threshold, RootMargin: c.Tracker.RootMargin}
}
