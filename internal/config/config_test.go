package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	require.Equal(t, "https://api.appmarket.dev/v1", cfg.APIBaseURL)
	require.Equal(t, 30*time.Second, cfg.RequestTimeout)
	require.Equal(t, "default", cfg.AuthProfile)
	require.Equal(t, 4, cfg.ChunkParallelism)
	require.Equal(t, 3, cfg.MaxRetries)
	require.Equal(t, 10*time.Second, cfg.PollInterval)
	require.Equal(t, 10*time.Minute, cfg.PollTimeout)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_NoConfigFlagKeepsDefaults(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"appship", "media", "verify", "--version-id", "v1"}

	cfg := Load()
	require.Equal(t, "https://api.appmarket.dev/v1", cfg.APIBaseURL)
	require.Equal(t, "default", cfg.AuthProfile)
}

func TestLoad_JsonOverlay(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := filepath.Join(t.TempDir(), "conf.json")
	body := `{
		"api_base_url": "https://staging.appmarket.dev/v1",
		"request_timeout": "5s",
		"auth_profile": "staging",
		"chunk_parallelism": 8,
		"poll_interval": 2000000000,
		"log_level": "debug"
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	os.Args = []string{"appship", "-c", path}
	cfg := Load()

	require.Equal(t, "https://staging.appmarket.dev/v1", cfg.APIBaseURL)
	require.Equal(t, 5*time.Second, cfg.RequestTimeout)
	require.Equal(t, "staging", cfg.AuthProfile)
	require.Equal(t, 8, cfg.ChunkParallelism)
	require.Equal(t, 2*time.Second, cfg.PollInterval)
	require.Equal(t, "debug", cfg.LogLevel)

	// keys absent from the file keep their defaults
	require.Equal(t, 3, cfg.MaxRetries)
	require.Equal(t, 10*time.Minute, cfg.PollTimeout)
}

func TestLoad_MissingFilePanics(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"appship", "-c", filepath.Join(t.TempDir(), "absent.json")}

	require.Panics(t, func() { Load() })
}

func TestLoad_MalformedJsonPanics(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"api_base_url": `), 0o600))
	os.Args = []string{"appship", "-c", path}

	require.Panics(t, func() { Load() })
}
