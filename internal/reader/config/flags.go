package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/labaccess/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-d string         SQLite database path
//	-a url            validation API base URL
//	-timeout dur      per-request timeout
//	-retries int      retries on transport errors and 5xx responses
//	-scan-interval d  minimum time between accepted scans
//	-i dur            online status check interval
//	-log-level lvl    log level
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"d", "a", "timeout", "retries", "scan-interval", "i", "log-level"})

	fs := flag.NewFlagSet("reader", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "SQLite database path")
	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "validation API base URL")
	fs.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "per-request timeout")
	fs.IntVar(&cfg.MaxRetries, "retries", cfg.MaxRetries, "retries on transport errors and 5xx responses")
	fs.DurationVar(&cfg.MinScanInterval, "scan-interval", cfg.MinScanInterval, "minimum time between scans")
	fs.DurationVar(&cfg.OnlineCheckInterval, "i", cfg.OnlineCheckInterval, "online status check interval")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
