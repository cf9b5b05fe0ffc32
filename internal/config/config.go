// Package config defines runtime configuration for the HLTV monitor.
//
// Configuration is layered (low to high precedence):
//  1. built-in defaults (New)
//  2. optional YAML file named by the HLTV_CONFIG env var
//  3. HLTV_-prefixed environment variables (HLTV_SOURCE_URL, ...)
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// SourceURL is the upcoming-matches page to scrape.
	SourceURL string `koanf:"source_url"`

	// FetchTimeoutSeconds bounds one page fetch.
	FetchTimeoutSeconds int `koanf:"fetch_timeout_seconds"`

	// MatchLimit caps the number of matches in a report.
	MatchLimit int `koanf:"match_limit"`

	// MinStars is the lit-star threshold for a match to qualify.
	MinStars int `koanf:"min_stars"`

	// DataDir holds subscriber and schedule files.
	DataDir string `koanf:"data_dir"`

	// OutputPath is the report image slot; last writer wins.
	OutputPath string `koanf:"output_path"`

	// LogoDir is the team-logo asset directory; empty disables logos.
	LogoDir string `koanf:"logo_dir"`

	// BotToken authenticates against the Telegram Bot API.
	BotToken string `koanf:"bot_token"`

	// PollTimeoutSeconds is the long-poll hold time for bot updates.
	PollTimeoutSeconds int `koanf:"poll_timeout_seconds"`

	// Timezone is the location the daily schedule time is interpreted in.
	Timezone string `koanf:"timezone"`
}

// New returns the built-in defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		SourceURL:           "http://49.4.115.149:8080/latest_matches.html",
		FetchTimeoutSeconds: 20,
		MatchLimit:          5,
		MinStars:            3,
		DataDir:             "data",
		OutputPath:          "data/matches.png",
		PollTimeoutSeconds:  30,
		Timezone:            "Asia/Shanghai",
	}
}

// Load builds a Config by layering defaults, optional file, and env vars.
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("HLTV_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	// Map env keys like HLTV_SOURCE_URL -> source_url (flat keys),
	// preserving underscores to match the koanf tags on the struct.
	envProvider := env.Provider("HLTV_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "hltv_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("loading env config: %w", err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.SourceURL == "" {
		return errors.New("source_url must not be empty")
	}
	if c.MatchLimit < 1 {
		return errors.New("match_limit must be at least 1")
	}
	if c.MinStars < 0 || c.MinStars > 5 {
		return errors.New("min_stars must be between 0 and 5")
	}
	if c.FetchTimeoutSeconds < 1 {
		return errors.New("fetch_timeout_seconds must be at least 1")
	}
	if c.OutputPath == "" {
		return errors.New("output_path must not be empty")
	}
	return nil
}
