package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// EnvDatabaseURL overrides Journal.Database with a full connection URL.
const EnvDatabaseURL = "CRAFTCORE_DATABASE_URL"

// Crafting holds all configuration for the crafting tools.
type Crafting struct {
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`

	// Directory with items.yaml, qualities.yaml, recipes.yaml
	DataDir string `yaml:"data_dir" validate:"required"`

	Journal JournalConfig `yaml:"journal"`
}

// JournalConfig controls persistence of finished crafts.
type JournalConfig struct {
	Enabled      bool           `yaml:"enabled"`
	HistoryLimit int            `yaml:"history_limit" validate:"gte=1,lte=1000"`
	Database     DatabaseConfig `yaml:"database" validate:"-"` // checked only when Enabled
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	URL      string `yaml:"url" validate:"omitempty,url"` // wins over the fields below
	Host     string `yaml:"host" validate:"required_without=URL"`
	Port     int    `yaml:"port" validate:"required_without=URL,max=65535"`
	User     string `yaml:"user" validate:"required_without=URL"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname" validate:"required_without=URL"`
	SSLMode  string `yaml:"sslmode" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DefaultCrafting returns Crafting config with sensible defaults.
func DefaultCrafting() Crafting {
	return Crafting{
		LogLevel: "info",
		DataDir:  "data",
		Journal: JournalConfig{
			Enabled:      false,
			HistoryLimit: 50,
			Database: DatabaseConfig{
				Host:     "127.0.0.1",
				Port:     5432,
				User:     "craftcore",
				Password: "craftcore",
				DBName:   "craftcore",
				SSLMode:  "disable",
			},
		},
	}
}

// LoadCrafting loads crafting config from a YAML file.
// If the file doesn't exist, returns defaults.
// CRAFTCORE_DATABASE_URL, when set, replaces the database URL.
func LoadCrafting(path string) (Crafting, error) {
	cfg := DefaultCrafting()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if u := os.Getenv(EnvDatabaseURL); u != "" {
		cfg.Journal.Database.URL = u
	}
	return cfg, nil
}

// Validate checks field constraints. Database settings are checked only
// when the journal is enabled.
func (c Crafting) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return formatValidationError(err)
	}
	if c.Journal.Enabled {
		if err := v.Struct(c.Journal.Database); err != nil {
			return fmt.Errorf("journal database: %w", formatValidationError(err))
		}
	}
	return nil
}

func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}
	messages := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		messages = append(messages, fmt.Sprintf("field '%s' failed validation: %s (value: '%v')",
			e.Namespace(), e.Tag(), e.Value()))
	}
	return fmt.Errorf("validation failed: %s", strings.Join(messages, "; "))
}
