package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// loadStruct recursively populates struct fields from environment variables.
func loadStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		if !fieldVal.CanSet() {
			continue
		}

		if field.Type.Kind() == reflect.Struct {
			if err := loadStruct(fieldVal); err != nil {
				return err
			}
			continue
		}

		envName := field.Tag.Get("env")
		if envName == "" {
			continue
		}

		value, ok := lookup(envName, field.Tag.Get("envAlt"))
		if !ok {
			if field.Tag.Get("required") == "true" {
				return fmt.Errorf("required environment variable %s is not set", envName)
			}
			value = field.Tag.Get("default")
		}

		if value == "" {
			continue
		}

		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}

	return nil
}

// lookup returns the first non-empty value of the primary or alternate variable.
func lookup(name, alt string) (string, bool) {
	if v := os.Getenv(name); v != "" {
		return v, true
	}
	if alt != "" {
		if v := os.Getenv(alt); v != "" {
			return v, true
		}
	}
	return "", false
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int64:
		if field.Type() != reflect.TypeOf(time.Duration(0)) {
			return fmt.Errorf("unsupported int64 field type: %s", field.Type())
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		field.SetInt(int64(d))

	case reflect.Int:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		field.SetInt(int64(i))

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.Files.Inventory) == "" {
		errs = append(errs, "INVENTORY_CSV must not be empty")
	}
	if strings.TrimSpace(c.Files.Backup) == "" {
		errs = append(errs, "BACKUP_CSV must not be empty")
	}
	if c.Files.Backup != "" && c.Files.Backup == c.Files.Inventory {
		errs = append(errs, "BACKUP_CSV must differ from INVENTORY_CSV")
	}
	if c.Files.BackupXLSX != "" && !strings.HasSuffix(strings.ToLower(c.Files.BackupXLSX), ".xlsx") {
		errs = append(errs, fmt.Sprintf("BACKUP_XLSX (%q) must end in .xlsx", c.Files.BackupXLSX))
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			errs = append(errs, "DATABASE_PATH is required when DB_DRIVER is sqlite")
		}
	case "postgres":
		if c.Database.URL == "" {
			errs = append(errs, "DATABASE_URL is required when DB_DRIVER is postgres")
		}
	default:
		errs = append(errs, fmt.Sprintf("DB_DRIVER (%q) must be one of: sqlite, postgres", c.Database.Driver))
	}
	if c.Database.Timeout <= 0 {
		errs = append(errs, "DB_TIMEOUT must be positive")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a safe string representation of the config for logging.
// The database URL is masked since it usually carries credentials.
func (c *Config) String() string {
	url := ""
	if c.Database.URL != "" {
		url = "[MASKED]"
	}

	var b strings.Builder
	b.WriteString("Config{")
	fmt.Fprintf(&b, "Files: {Inventory: %q, Backup: %q, BackupXLSX: %q}, ",
		c.Files.Inventory, c.Files.Backup, c.Files.BackupXLSX)
	fmt.Fprintf(&b, "Database: {Driver: %q, Path: %q, URL: %s, Timeout: %s}, ",
		c.Database.Driver, c.Database.Path, url, c.Database.Timeout)
	fmt.Fprintf(&b, "Logging: {Level: %q, Format: %q, File: %q}",
		c.Logging.Level, c.Logging.Format, c.Logging.File)
	b.WriteString("}")
	return b.String()
}
