package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/appmarket/appship/internal/flagx"
	"github.com/appmarket/appship/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "30s" or as integer nanoseconds. After parsing, values are
// copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	APIBaseURL     string         `json:"api_base_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`

	AuthProfile    string `json:"auth_profile"`
	IssuerID       string `json:"issuer_id"`
	KeyID          string `json:"key_id"`
	PrivateKeyPath string `json:"private_key_path"`
	KeystorePath   string `json:"keystore_path"`

	ChunkParallelism int `json:"chunk_parallelism"`
	MaxRetries       int `json:"max_retries"`

	PollInterval timex.Duration `json:"poll_interval"`
	PollTimeout  timex.Duration `json:"poll_timeout"`

	LogLevel string `json:"log_level"`
}

// parseJson overlays cfg with values loaded from a JSON file.
//
// The file path comes from the -c/--config flags (flagx.JsonConfigFlags); if
// none is given, nothing is loaded. Zero-valued JSON fields leave the
// existing configuration untouched, so a file only has to mention the keys
// it overrides. Read or unmarshal errors panic: a config file that was
// explicitly pointed at must not be silently skipped.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.AuthProfile != "" {
		cfg.AuthProfile = jc.AuthProfile
	}
	if jc.IssuerID != "" {
		cfg.IssuerID = jc.IssuerID
	}
	if jc.KeyID != "" {
		cfg.KeyID = jc.KeyID
	}
	if jc.PrivateKeyPath != "" {
		cfg.PrivateKeyPath = jc.PrivateKeyPath
	}
	if jc.KeystorePath != "" {
		cfg.KeystorePath = jc.KeystorePath
	}
	if jc.ChunkParallelism != 0 {
		cfg.ChunkParallelism = jc.ChunkParallelism
	}
	if jc.MaxRetries != 0 {
		cfg.MaxRetries = jc.MaxRetries
	}
	if jc.PollInterval.Duration != 0 {
		cfg.PollInterval = time.Duration(jc.PollInterval.Duration)
	}
	if jc.PollTimeout.Duration != 0 {
		cfg.PollTimeout = time.Duration(jc.PollTimeout.Duration)
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
}
