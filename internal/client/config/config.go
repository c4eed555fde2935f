package config

import (
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/labaccess/internal/qr"
)

// Config holds runtime settings for the QR generator.
//
// Fields:
//   - DBPath: SQLite file holding the saved identities.
//   - UserType: which screen this generator is (STUDENT or HELPER).
//   - AutoRenew: initial auto-renew preference.
//   - QRExpiry / QRRenewPeriod: one-shot expiry window and renewal period.
//   - DisplayAddr: optional host:port of the kiosk HTTP display; empty disables it.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	DBPath        string        `env:"LABACCESS_DB_PATH"`
	UserType      qr.UserType   `env:"LABACCESS_USER_TYPE"`
	AutoRenew     bool          `env:"LABACCESS_AUTO_RENEW"`
	QRExpiry      time.Duration `env:"LABACCESS_QR_EXPIRY"`
	QRRenewPeriod time.Duration `env:"LABACCESS_QR_RENEW_PERIOD"`
	DisplayAddr   string        `env:"LABACCESS_DISPLAY_ADDR"`
	LogLevel      string        `env:"LABACCESS_LOG_LEVEL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	t := qr.DefaultTiming()

	c.DBPath = "labaccess.db"
	c.UserType = qr.UserTypeStudent
	c.AutoRenew = false
	c.QRExpiry = t.Expiry
	c.QRRenewPeriod = t.RenewPeriod
	c.DisplayAddr = ""
	c.LogLevel = "info"
}

// Timing returns the lifecycle timing pair.
func (c *Config) Timing() qr.Timing {
	return qr.Timing{Expiry: c.QRExpiry, RenewPeriod: c.QRRenewPeriod}
}

// Validate checks the timing pair and canonicalizes the user type.
func (c *Config) Validate() error {
	ut, err := qr.ParseUserType(string(c.UserType))
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	c.UserType = ut

	if err := c.Timing().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Load builds a Config from defaults, then overlays the JSON file, the
// environment and finally the command-line flags found in args. Later
// sources take precedence over earlier ones.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig loads the configuration from os.Args.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}
