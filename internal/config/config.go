package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	community "energy-community/internal/community/domain"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config is the runtime configuration of the API.
type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080" yaml:"http_addr"`
	Storage         string        `env:"STORAGE" envDefault:"postgres" yaml:"storage"`
	DatabaseURL     string        `env:"DATABASE_URL" yaml:"-"`
	AutoMigrate     bool          `env:"AUTO_MIGRATE" envDefault:"false" yaml:"auto_migrate"`
	JWTSecret       string        `env:"AUTH_JWT_SECRET" yaml:"-"`
	Timezone        string        `env:"TIMEZONE" envDefault:"America/Bogota" yaml:"timezone"`
	DefaultPDEShare string        `env:"DEFAULT_PDE_SHARE" envDefault:"0.1" yaml:"default_pde_share"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info" yaml:"log_level"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s" yaml:"shutdown_timeout"`
	ConfigFile      string        `env:"COMMUNITY_CONFIG" yaml:"-"`
	Archive         ArchiveConfig `yaml:"archive"`
}

// ArchiveConfig drives the monthly roster archive.
type ArchiveConfig struct {
	Schedule    string  `env:"ARCHIVE_SCHEDULE" envDefault:"0 2 1 * *" yaml:"schedule"`
	Communities []int64 `env:"ARCHIVE_COMMUNITIES" envSeparator:"," yaml:"communities"`
	StorageRoot string  `env:"ARCHIVE_STORAGE_ROOT" yaml:"storage_root"`
}

// Load reads an optional .env file, the environment and the optional YAML
// overlay named by COMMUNITY_CONFIG, then validates the result.
//
// Precedence, lowest first: envDefault tags, .env file, process environment,
// YAML overlay. The overlay is the per-deployment file and wins over any
// variable it sets; keys it omits keep their environment values. DATABASE_URL,
// AUTH_JWT_SECRET and COMMUNITY_CONFIG are never read from the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load env file %s: %w", envFile, err)
		}
	} else {
		// A missing .env is fine when the environment is set directly.
		_ = godotenv.Load()
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	if cfg.ConfigFile != "" {
		data, err := os.ReadFile(cfg.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", cfg.ConfigFile, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", cfg.ConfigFile, err)
		}
	}
	if cfg.Archive.StorageRoot == "" {
		cfg.Archive.StorageRoot = filepath.FromSlash("var/reports/rosters")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	switch c.Storage {
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL is required for postgres storage")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("config: unknown storage %q", c.Storage)
	}
	if c.JWTSecret == "" {
		return errors.New("config: AUTH_JWT_SECRET is required")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.PDEShare(); err != nil {
		return err
	}
	return nil
}

// Location resolves the timezone used for the current period.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// PDEShare parses the default share assigned on registration.
func (c Config) PDEShare() (decimal.Decimal, error) {
	share, err := decimal.NewFromString(c.DefaultPDEShare)
	if err != nil {
		return decimal.Zero, fmt.Errorf("config: invalid DEFAULT_PDE_SHARE %q: %w", c.DefaultPDEShare, err)
	}
	if err := community.ValidatePDEShare(share); err != nil {
		return decimal.Zero, fmt.Errorf("config: DEFAULT_PDE_SHARE %q: %w", c.DefaultPDEShare, err)
	}
	return share, nil
}
