package config

import (
	"fmt"
	"strings"
)

// ValidateConfig checks that the values every environment needs are
// present. The recipe agent credential is deliberately not required
// here: the agent client degrades to a structured error when it is
// missing, and simulation mode needs no credential at all.
func ValidateConfig(cfg *Config) error {
	required := []struct {
		field string
		value string
	}{
		{"server port", cfg.ServerPort},
		{"db host", cfg.DBHost},
		{"db port", cfg.DBPort},
		{"db user", cfg.DBUser},
		{"db name", cfg.DBName},
		{"db ssl mode", cfg.DBSSLMode},
	}

	var errors []string
	for _, r := range required {
		if r.value == "" {
			errors = append(errors, fmt.Sprintf("required configuration %s is not set", r.field))
		}
	}

	if cfg.DBPassword == "" {
		errors = append(errors, "database password is not set (env, secret or CI variable)")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}
