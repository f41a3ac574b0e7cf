// Package config loads application configuration from a YAML file and
// environment variables via viper.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Auth    AuthConfig
	Log     LogConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string
}

// StorageConfig selects and configures the storage backend.
type StorageConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string
	// SQLitePath is the database file path when Driver is "sqlite".
	SQLitePath string
	// PostgresDSN is the connection string when Driver is "postgres".
	PostgresDSN string
	// PoolMaxConns caps the Postgres connection pool size.
	PoolMaxConns int
}

// AuthConfig holds JWT settings.
type AuthConfig struct {
	JWTSecret     string
	TokenTTLHours int
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
}

// Load reads configuration from the given file (default "config.yaml" in
// the working directory) with environment-variable overrides like
// SPLITLEDGER_SERVER_PORT. A missing file is fine; defaults apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", "8080")
	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.sqlitepath", "./data/splitledger.db")
	v.SetDefault("storage.poolmaxconns", 10)
	v.SetDefault("auth.tokenttlhours", 24)
	v.SetDefault("log.level", "info")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("SPLITLEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth.jwtsecret is required (set SPLITLEDGER_AUTH_JWTSECRET)")
	}
	if cfg.Storage.Driver == "postgres" && cfg.Storage.PostgresDSN == "" {
		return nil, fmt.Errorf("storage.postgresdsn is required for the postgres driver")
	}

	return &cfg, nil
}
