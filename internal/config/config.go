// Package config defines all configuration structures for the seekr control
// plane. No I/O or parsing logic lives here, only plain data types and
// validation.
package config

import "fmt"

// ServerConfig holds HTTP server tunables for cmd/server.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Log  string `mapstructure:"log"` // "trace" | "debug" | "info" | "warn" | "error"
}

// DatabaseConfig holds PostgreSQL connection parameters for the Cluster and
// Subscription stores.
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"db_name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	MaxConns        int    `mapstructure:"max_conns"`
	MigrationPath   string `mapstructure:"migration_path"`
}

// Config is the root configuration structure for both the server and the
// indexer binaries.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
}

// Validate performs semantic validation of the fully-populated Config. It
// returns the first error encountered; callers should treat any error as
// fatal and refuse to start the application.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Log {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: server.log %q is invalid; expected trace|debug|info|warn|error", c.Server.Log)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("config: database.port %d is out of range [1, 65535]", c.Database.Port)
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("config: database.db_name is required")
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("config: database.max_conns must be >= 1, got %d", c.Database.MaxConns)
	}

	return nil
}
