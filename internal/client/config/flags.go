package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/labaccess/internal/flagx"
	"github.com/dmitrijs2005/labaccess/internal/qr"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-d string       SQLite database path
//	-t string       user type (STUDENT or HELPER)
//	-auto           start with auto-renew enabled
//	-expiry dur     one-shot expiry window
//	-renew dur      auto-renew period
//	-display addr   kiosk HTTP display address
//	-log-level lvl  log level
//
// Only the flags listed above are picked out of args, so the JSON config
// flags can share the command line.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"d", "t", "auto", "expiry", "renew", "display", "log-level"})

	fs := flag.NewFlagSet("generator", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	userType := string(cfg.UserType)

	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "SQLite database path")
	fs.StringVar(&userType, "t", userType, "user type (STUDENT or HELPER)")
	fs.BoolVar(&cfg.AutoRenew, "auto", cfg.AutoRenew, "start with auto-renew enabled")
	fs.DurationVar(&cfg.QRExpiry, "expiry", cfg.QRExpiry, "QR expiry window")
	fs.DurationVar(&cfg.QRRenewPeriod, "renew", cfg.QRRenewPeriod, "QR auto-renew period")
	fs.StringVar(&cfg.DisplayAddr, "display", cfg.DisplayAddr, "kiosk HTTP display address")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	cfg.UserType = qr.UserType(userType)
	return nil
}
