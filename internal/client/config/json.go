package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/labaccess/internal/flagx"
	"github.com/dmitrijs2005/labaccess/internal/qr"
	"github.com/dmitrijs2005/labaccess/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations
// accept strings like "15s" or integer nanoseconds.
type JsonConfig struct {
	DBPath        string         `json:"db_path"`
	UserType      string         `json:"user_type"`
	AutoRenew     bool           `json:"auto_renew"`
	QRExpiry      timex.Duration `json:"qr_expiry"`
	QRRenewPeriod timex.Duration `json:"qr_renew_period"`
	DisplayAddr   string         `json:"display_addr"`
	LogLevel      string         `json:"log_level"`
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
		DBPath:        cfg.DBPath,
		UserType:      string(cfg.UserType),
		AutoRenew:     cfg.AutoRenew,
		QRExpiry:      timex.Duration{Duration: cfg.QRExpiry},
		QRRenewPeriod: timex.Duration{Duration: cfg.QRRenewPeriod},
		DisplayAddr:   cfg.DisplayAddr,
		LogLevel:      cfg.LogLevel,
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	cfg.DBPath = jc.DBPath
	cfg.UserType = qr.UserType(jc.UserType)
	cfg.AutoRenew = jc.AutoRenew
	cfg.QRExpiry = jc.QRExpiry.Duration
	cfg.QRRenewPeriod = jc.QRRenewPeriod.Duration
	cfg.DisplayAddr = jc.DisplayAddr
	cfg.LogLevel = jc.LogLevel
	return nil
}
