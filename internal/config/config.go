// Package config loads runtime settings from the environment. A .env file in
// the working directory is read first when present.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	brperr "github.com/KirkDiggler/brp-sheet/internal/errors"
)

// Storage selects the character repository backend
type Storage string

const (
	StorageMemory Storage = "memory"
	StorageRedis  Storage = "redis"
	StorageSQLite Storage = "sqlite"
)

// Config holds all configuration for the application
type Config struct {
	Storage Storage `env:"BRP_STORAGE" envDefault:"sqlite"`
	Redis   RedisConfig
	SQLite  SQLiteConfig
	Logging LoggingConfig
	Rules   RulesConfig
	// OwnerID is used for characters created without an explicit owner
	OwnerID string `env:"BRP_OWNER" envDefault:"gm"`
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	URL string `env:"REDIS_URL"`
	// DB overrides the database in URL when set
	DB int `env:"REDIS_DB" envDefault:"0"`
}

type SQLiteConfig struct {
	Path string `env:"SQLITE_PATH" envDefault:"brp-sheet.db"`
}

type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"console"`
}

// RulesConfig holds table-wide rule settings
type RulesConfig struct {
	// DiceSeed makes every roll reproducible when set
	DiceSeed       *int64 `env:"BRP_DICE_SEED"`
	ImprovementDie int    `env:"BRP_IMPROVEMENT_DIE" envDefault:"6"`
}

// Load reads .env if it exists and parses the process environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return parse(env.Options{})
}

// LoadFrom parses the given variables instead of the process environment
func LoadFrom(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, brperr.WrapWithCode(err, brperr.CodeParse, "failed to parse environment")
	}
	cfg.Storage = Storage(strings.ToLower(strings.TrimSpace(string(cfg.Storage))))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var problems []error

	switch c.Storage {
	case StorageMemory, StorageSQLite, StorageRedis:
	default:
		problems = append(problems, fmt.Errorf("BRP_STORAGE must be memory, redis or sqlite, got %q", c.Storage))
	}
	if c.Storage == StorageRedis && c.Redis.URL == "" {
		problems = append(problems, errors.New("REDIS_URL is required for redis storage"))
	}
	if c.Redis.DB < 0 {
		problems = append(problems, fmt.Errorf("REDIS_DB must not be negative, got %d", c.Redis.DB))
	}
	if c.Storage == StorageSQLite && strings.TrimSpace(c.SQLite.Path) == "" {
		problems = append(problems, errors.New("SQLITE_PATH is required for sqlite storage"))
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		problems = append(problems, fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format))
	}
	if c.Rules.ImprovementDie < 1 {
		problems = append(problems, fmt.Errorf("BRP_IMPROVEMENT_DIE must be positive, got %d", c.Rules.ImprovementDie))
	}

	if len(problems) == 0 {
		return nil
	}
	return brperr.WrapWithCode(errors.Join(problems...), brperr.CodeValidation, "invalid configuration")
}
