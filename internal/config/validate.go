package config

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Linking.validate(); err != nil {
		return fmt.Errorf("linking: %w", err)
	}

	if c.Linking.StoreDriver == StoreDriverPostgres && c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required when linking.store_driver is %q", StoreDriverPostgres)
	}

	if c.Linking.StoreDriver == StoreDriverPostgres && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when linking.store_driver is %q", StoreDriverPostgres)
	}

	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Auth.PasswordHashCost < bcrypt.MinCost || c.Auth.PasswordHashCost > bcrypt.MaxCost {
		return fmt.Errorf("auth.password_hash_cost must be within [%d, %d] (got %d)",
			bcrypt.MinCost, bcrypt.MaxCost, c.Auth.PasswordHashCost)
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with / (got %q)", c.Metrics.Path)
	}

	return nil
}

func (l *LinkingConfig) validate() error {
	l.StoreDriver = strings.ToLower(strings.TrimSpace(l.StoreDriver))
	switch l.StoreDriver {
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		return fmt.Errorf("store_driver must be %q or %q (got %q)", StoreDriverPostgres, StoreDriverMemory, l.StoreDriver)
	}

	if l.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be >= 1 (got %d)", l.MaxAttempts)
	}

	if l.StagingRetention <= 0 {
		return fmt.Errorf("staging_retention must be positive (got %s)", l.StagingRetention)
	}

	return nil
}
