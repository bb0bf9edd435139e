// Package file loads run configuration from a TOML file, layering it
// over built-in defaults and under environment overrides.
package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/vecsync/internal/core/domain"
)

// EnvAPIKey is the environment variable consulted when no API key is
// configured in the file or on the command line.
const EnvAPIKey = "OPENAI_API_KEY"

// fileConfig mirrors the on-disk TOML layout.
type fileConfig struct {
	Root        string          `toml:"root"`
	Store       string          `toml:"store"`
	Exclude     []string        `toml:"exclude"`
	Limit       int             `toml:"limit"`
	Concurrency int             `toml:"concurrency"`
	Embedding   embeddingConfig `toml:"embedding"`
}

type embeddingConfig struct {
	Provider       string  `toml:"provider"`
	APIKey         string  `toml:"api_key"`
	BaseURL        string  `toml:"base_url"`
	Model          string  `toml:"model"`
	Dimensions     int     `toml:"dimensions"`
	RateLimit      float64 `toml:"rate_limit"`
	MaxAttempts    int     `toml:"max_attempts"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

// DefaultPath returns the default config file location,
// ~/.vecsync/config.toml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".vecsync", "config.toml")
}

// Load reads settings from the TOML file at path. A missing file at the
// default location yields plain defaults; a missing file the user named
// explicitly is a configuration error. Pass explicit=false for the
// default path.
func Load(path string, explicit bool) (domain.Settings, error) {
	settings := domain.DefaultSettings()

	if path == "" {
		applyEnv(&settings)
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		applyEnv(&settings)
		return settings, nil
	}
	if err != nil {
		return settings, fmt.Errorf("%w: config file %s: %v", domain.ErrConfig, path, err)
	}

	var cfg fileConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return settings, fmt.Errorf("%w: parse %s: %v", domain.ErrConfig, path, err)
	}

	merge(&settings, cfg)
	applyEnv(&settings)
	return settings, nil
}

// merge copies every value set in the file over the defaults.
func merge(settings *domain.Settings, cfg fileConfig) {
	if cfg.Root != "" {
		settings.Root = cfg.Root
	}
	if cfg.Store != "" {
		settings.StorePath = cfg.Store
	}
	if len(cfg.Exclude) > 0 {
		settings.Exclude = cfg.Exclude
	}
	if cfg.Limit > 0 {
		settings.Limit = cfg.Limit
	}
	if cfg.Concurrency > 0 {
		settings.Concurrency = cfg.Concurrency
	}

	e := cfg.Embedding
	if e.Provider != "" {
		settings.Embedding.Provider = e.Provider
	}
	if e.APIKey != "" {
		settings.Embedding.APIKey = e.APIKey
	}
	if e.BaseURL != "" {
		settings.Embedding.BaseURL = e.BaseURL
	}
	if e.Model != "" {
		settings.Embedding.Model = e.Model
	}
	if e.Dimensions > 0 {
		settings.Embedding.Dimensions = e.Dimensions
	}
	if e.RateLimit > 0 {
		settings.Embedding.RateLimit = e.RateLimit
	}
	if e.MaxAttempts > 0 {
		settings.Embedding.MaxAttempts = e.MaxAttempts
	}
	if e.TimeoutSeconds > 0 {
		settings.Embedding.Timeout = time.Duration(e.TimeoutSeconds) * time.Second
	}
}

// applyEnv fills credentials from the environment when nothing else
// provided them.
func applyEnv(settings *domain.Settings) {
	if settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey = os.Getenv(EnvAPIKey)
	}
}
