package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// parseEnv overlays cfg with the LABACCESS_* environment variables that are set.
func parseEnv(cfg *Config) error {
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	return nil
}
