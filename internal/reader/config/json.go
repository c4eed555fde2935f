package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/labaccess/internal/flagx"
	"github.com/dmitrijs2005/labaccess/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	DBPath              string         `json:"db_path"`
	APIBaseURL          string         `json:"api_base_url"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	MaxRetries          int            `json:"max_retries"`
	RetryInterval       timex.Duration `json:"retry_interval"`
	MinScanInterval     timex.Duration `json:"min_scan_interval"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	LogLevel            string         `json:"log_level"`
}

// parseJson overlays cfg with the JSON file named by -c or -config. Keys
// missing from the file keep their current value.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	jc := JsonConfig{
		DBPath:              cfg.DBPath,
		APIBaseURL:          cfg.APIBaseURL,
		RequestTimeout:      timex.Duration{Duration: cfg.RequestTimeout},
		MaxRetries:          cfg.MaxRetries,
		RetryInterval:       timex.Duration{Duration: cfg.RetryInterval},
		MinScanInterval:     timex.Duration{Duration: cfg.MinScanInterval},
		OnlineCheckInterval: timex.Duration{Duration: cfg.OnlineCheckInterval},
		LogLevel:            cfg.LogLevel,
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	cfg.DBPath = jc.DBPath
	cfg.APIBaseURL = jc.APIBaseURL
	cfg.RequestTimeout = jc.RequestTimeout.Duration
	cfg.MaxRetries = jc.MaxRetries
	cfg.RetryInterval = jc.RetryInterval.Duration
	cfg.MinScanInterval = jc.MinScanInterval.Duration
	cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	cfg.LogLevel = jc.LogLevel
	return nil
}
