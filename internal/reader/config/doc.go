// Package config loads runtime configuration for the QR reader.
//
// Sources & precedence are the same as for the generator: defaults, then an
// optional JSON file (-c or -config), then LABACCESS_* environment variables,
// then command-line flags.
//
//	{
//	  "db_path": "lector.db",
//	  "api_base_url": "https://acceso.example.edu/api-lector",
//	  "request_timeout": "10s",
//	  "max_retries": 3,
//	  "retry_interval": "1s",
//	  "min_scan_interval": "2s",
//	  "online_check_interval": "5s",
//	  "log_level": "info"
//	}
package config
