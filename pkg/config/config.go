package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Storage backends.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config holds all configuration for shiftlog.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"3480"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Facility describes the site whose shifts are tracked.
	Facility FacilityConfig `yaml:"facility"`

	// Storage selects where notes, readings and range overrides live.
	Storage StorageConfig `yaml:"storage"`

	// Database configuration (PostgreSQL), used when Storage.Backend is "postgres".
	Database DatabaseConfig `yaml:"database"`

	// RangesFile optionally points at a YAML file that overlays the built-in
	// per-equipment-type default ranges.
	RangesFile string `yaml:"ranges_file" env:"RANGES_FILE" env-default:""`
}

// FacilityConfig holds site identity and the time zone shift boundaries use.
type FacilityConfig struct {
	Name     string `yaml:"name" env:"FACILITY_NAME" env-default:"Process Facility"`
	Timezone string `yaml:"timezone" env:"FACILITY_TIMEZONE" env-default:"UTC"`
}

// Location returns the facility time zone. Load has already validated
// Timezone, so the UTC fallback only applies to hand-built configs.
func (f FacilityConfig) Location() *time.Location {
	loc, err := time.LoadLocation(f.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Backend string `yaml:"backend" env:"STORAGE_BACKEND" env-default:"memory"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"shiftlog"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"shiftlog"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"10"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// Load reads configuration from config.yaml with environment variable overrides.
// A missing config.yaml is not an error; defaults and environment apply.
func Load(version string) (*Config, error) {
	return LoadFrom("config.yaml", version)
}

// LoadFrom is Load with an explicit config file path.
func LoadFrom(path, version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	} else if errors.Is(err, os.ErrNotExist) {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	} else {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if err := cfg.parseComplexFields(); err != nil {
		return nil, fmt.Errorf("failed to parse config fields: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// parseComplexFields handles fields that need post-processing after loading.
func (c *Config) parseComplexFields() error {
	if _, err := time.LoadLocation(c.Facility.Timezone); err != nil {
		return fmt.Errorf("unknown facility timezone %q: %w", c.Facility.Timezone, err)
	}
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	return nil
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case StorageMemory, StoragePostgres:
	default:
		return fmt.Errorf("storage.backend must be %q or %q, got %q", StorageMemory, StoragePostgres, c.Storage.Backend)
	}
	return nil
}

// ListenAddr returns the host:port the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return c.BindAddr + ":" + c.Port
}

// ConnectionString returns a PostgreSQL connection URL.
func (c *DatabaseConfig) ConnectionString() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     c.Database,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}
