// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import "time"

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Files    FilesConfig
	Database DatabaseConfig
	Logging  LoggingConfig
}

// FilesConfig holds the CSV and workbook locations.
type FilesConfig struct {
	// Inventory is the CSV imported at startup and appended to by the add flow (default: inventory.csv)
	Inventory string `env:"INVENTORY_CSV" default:"inventory.csv"`

	// Backup is the CSV snapshot written by the back-up action (default: database.csv)
	Backup string `env:"BACKUP_CSV" default:"database.csv"`

	// BackupXLSX, when set, also writes the snapshot as a workbook
	BackupXLSX string `env:"BACKUP_XLSX"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// Driver selects the engine: sqlite or postgres (default: sqlite)
	Driver string `env:"DB_DRIVER" default:"sqlite"`

	// Path is the SQLite database file (default: inventory.db)
	Path string `env:"DATABASE_PATH" default:"inventory.db"`

	// URL is the PostgreSQL connection string, required when Driver is postgres.
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// Timeout bounds each statement (default: 5s)
	Timeout time.Duration `env:"DB_TIMEOUT" default:"5s"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`

	// File receives log output so it stays off the interactive screen.
	// "-" writes to stderr instead (default: inventory.log)
	File string `env:"LOG_FILE" default:"inventory.log"`
}

// UsesPostgres reports whether the PostgreSQL engine is selected.
func (c *DatabaseConfig) UsesPostgres() bool {
	return c.Driver == "postgres"
}
