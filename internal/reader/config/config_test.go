package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	want := Config{
		DBPath:              "lector.db",
		APIBaseURL:          "http://127.0.0.1:5000",
		RequestTimeout:      10 * time.Second,
		MaxRetries:          3,
		RetryInterval:       time.Second,
		MinScanInterval:     2 * time.Second,
		OnlineCheckInterval: 5 * time.Second,
		LogLevel:            "info",
	}
	assert.Empty(t, cmp.Diff(want, c))
	assert.NoError(t, c.Validate())
}

func TestLoad_Precedence(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"api_base_url":      "https://acceso.example.edu/api-lector",
		"max_retries":       5,
		"retry_interval":    "250ms",
		"min_scan_interval": "3s",
	})
	t.Setenv("LABACCESS_MAX_RETRIES", "1")
	t.Setenv("LABACCESS_REQUEST_TIMEOUT", "4s")

	cfg, err := Load([]string{"-config", path, "-timeout", "2s", "-d", "x.db"})
	require.NoError(t, err)

	assert.Equal(t, "https://acceso.example.edu/api-lector", cfg.APIBaseURL)
	assert.Equal(t, 1, cfg.MaxRetries, "env over json")
	assert.Equal(t, 250*time.Millisecond, cfg.RetryInterval)
	assert.Equal(t, 3*time.Second, cfg.MinScanInterval)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout, "flags over env")
	assert.Equal(t, "x.db", cfg.DBPath)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"relative url", func(c *Config) { c.APIBaseURL = "api-lector" }},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }},
		{"zero retry interval", func(c *Config) { c.RetryInterval = 0 }},
		{"negative scan interval", func(c *Config) { c.MinScanInterval = -time.Second }},
		{"zero online check", func(c *Config) { c.OnlineCheckInterval = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestParseFlags_BadValue(t *testing.T) {
	var c Config
	assert.Error(t, parseFlags(&c, []string{"-retries", "many"}))
}
