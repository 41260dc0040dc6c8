// Package config provides centralized configuration management for featureprep.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Project  ProjectConfig
	Server   ServerConfig
	Database DatabaseConfig
	Logging  LoggingConfig
}

// ProjectConfig controls where data lives and how a run is shaped.
type ProjectConfig struct {
	// Root is the project root directory (default: working directory)
	Root string `env:"PROJECT_ROOT"`

	// RawFilename is the input file under data/raw (default: disasters.csv)
	RawFilename string `env:"RAW_FILENAME" default:"disasters.csv"`

	// TargetColumn names the supervised target; empty means none
	TargetColumn string `env:"TARGET_COLUMN"`

	// WriteProcessed saves the feature table under data/processed (default: true)
	WriteProcessed bool `env:"WRITE_PROCESSED" default:"true"`

	// PreviewRows is how many rows a preview shows (default: 5)
	PreviewRows int `env:"PREVIEW_ROWS" default:"5"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading a request (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// DatabaseConfig holds the optional PostgreSQL sink settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string. Persistence is off when empty.
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// FeatureTable is the table feature rows are copied into (default: disaster_features)
	FeatureTable string `env:"DB_FEATURE_TABLE" default:"disaster_features"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 0)
	MinConns int `env:"DB_MIN_CONNS" default:"0"`

	// ConnectTimeout bounds pool creation and the initial ping (default: 10s)
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" default:"10s"`
}

// Enabled reports whether a database sink is configured.
func (c *DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
