package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"
)

// Config holds runtime settings for the QR reader.
type Config struct {
	DBPath              string        `env:"LABACCESS_DB_PATH"`
	APIBaseURL          string        `env:"LABACCESS_API_BASE_URL"`
	RequestTimeout      time.Duration `env:"LABACCESS_REQUEST_TIMEOUT"`
	MaxRetries          int           `env:"LABACCESS_MAX_RETRIES"`
	RetryInterval       time.Duration `env:"LABACCESS_RETRY_INTERVAL"`
	MinScanInterval     time.Duration `env:"LABACCESS_MIN_SCAN_INTERVAL"`
	OnlineCheckInterval time.Duration `env:"LABACCESS_ONLINE_CHECK_INTERVAL"`
	LogLevel            string        `env:"LABACCESS_LOG_LEVEL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DBPath = "lector.db"
	c.APIBaseURL = "http://127.0.0.1:5000"
	c.RequestTimeout = 10 * time.Second
	c.MaxRetries = 3
	c.RetryInterval = time.Second
	c.MinScanInterval = 2 * time.Second
	c.OnlineCheckInterval = 5 * time.Second
	c.LogLevel = "info"
}

func (c *Config) Validate() error {
	u, err := url.ParseRequestURI(c.APIBaseURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("config: invalid api base url %q", c.APIBaseURL)
	}
	switch {
	case c.RequestTimeout <= 0:
		return errors.New("config: request timeout must be positive")
	case c.MaxRetries < 0:
		return errors.New("config: max retries must not be negative")
	case c.RetryInterval <= 0:
		return errors.New("config: retry interval must be positive")
	case c.MinScanInterval < 0:
		return errors.New("config: min scan interval must not be negative")
	case c.OnlineCheckInterval <= 0:
		return errors.New("config: online check interval must be positive")
	}
	return nil
}

// Load builds a Config from defaults, the JSON file, the environment and the
// flags in args, in that order of precedence.
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

func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}
