package docstore

import (
	"time"

	"github.com/Alijeyrad/vlog_backend/config"
)

// Config holds document store connection settings.
type Config struct {
	Driver   string
	URI      string
	Database string

	// Timeout bounds every single operation.
	Timeout        time.Duration
	ConnectTimeout time.Duration
	MaxPoolSize    uint64
}

func DefaultConfig() Config {
	return Config{
		Driver:         DriverMongo,
		Database:       "vlog",
		Timeout:        5 * time.Second,
		ConnectTimeout: 10 * time.Second,
		MaxPoolSize:    50,
	}
}

// FromCentralConfig converts config.DatabaseConfig, keeping defaults for
// zero values.
func FromCentralConfig(c config.DatabaseConfig) Config {
	cfg := DefaultConfig()
	cfg.URI = c.URI

	if c.Driver != "" {
		cfg.Driver = c.Driver
	}
	if c.Name != "" {
		cfg.Database = c.Name
	}
	if c.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(c.TimeoutSeconds) * time.Second
	}
	if c.ConnectTimeoutSeconds > 0 {
		cfg.ConnectTimeout = time.Duration(c.ConnectTimeoutSeconds) * time.Second
	}
	if c.MaxPoolSize > 0 {
		cfg.MaxPoolSize = c.MaxPoolSize
	}

	return cfg
}
