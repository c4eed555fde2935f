// Package config loads runtime configuration for the QR generator.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. LABACCESS_* environment variables.
//  4. Command-line flags, which override everything else.
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "15s" or integer
// nanoseconds:
//
//	{
//	  "db_path": "labaccess.db",
//	  "user_type": "HELPER",
//	  "auto_renew": true,
//	  "qr_expiry": "15s",
//	  "qr_renew_period": "14s",
//	  "display_addr": ":8080",
//	  "log_level": "debug"
//	}
//
// The loaded configuration is validated: the renew period must be positive
// and shorter than the expiry window, and the user type must be known.
package config
