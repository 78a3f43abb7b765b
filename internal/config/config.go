package config

import "time"

// Config holds runtime settings for the appship CLI.
//
// Auth can come from two places: a named keystore profile (AuthProfile), or
// direct key material (IssuerID + KeyID + PrivateKeyPath) for CI environments
// where no keystore exists. Direct key material, when complete, wins.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration

	AuthProfile    string
	IssuerID       string
	KeyID          string
	PrivateKeyPath string
	KeystorePath   string

	ChunkParallelism int
	MaxRetries       int

	PollInterval time.Duration
	PollTimeout  time.Duration

	LogLevel string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "https://api.appmarket.dev/v1"
	c.RequestTimeout = 30 * time.Second
	c.AuthProfile = "default"
	c.ChunkParallelism = 4
	c.MaxRetries = 3
	c.PollInterval = 10 * time.Second
	c.PollTimeout = 10 * time.Minute
	c.LogLevel = "info"
}

// Load constructs a Config, applies defaults, then overlays values from an
// optional JSON file (selected via -c/--config). Command-line flags are bound
// by the CLI layer on top of the returned value, so the precedence is
// defaults -> JSON -> flags.
func Load() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	return cfg
}
