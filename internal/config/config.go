package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Product store backends.
const (
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

// Config holds everything the API needs at startup.
type Config struct {
	Port                string `env:"APP_PORT" envDefault:"8080"`
	DatabaseURL         string `env:"DATABASE_URL,required"`
	ProductStore        string `env:"PRODUCT_STORE" envDefault:"postgres"`
	MongoURI            string `env:"MONGODB_URI"`
	MongoDatabase       string `env:"MONGODB_DATABASE" envDefault:"storefront"`
	DefaultCurrency     string `env:"DEFAULT_CURRENCY" envDefault:"SDG"`
	LogLevel            string `env:"LOG_LEVEL" envDefault:"info"`
	SnapshotConcurrency int    `env:"SNAPSHOT_CONCURRENCY" envDefault:"8"`
}

// Load reads the given .env files (".env" when none are named) and then the
// process environment. A missing .env file is not an error.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.ProductStore {
	case StorePostgres:
	case StoreMongo:
		if c.MongoURI == "" {
			return errors.New("MONGODB_URI is required when PRODUCT_STORE=mongo")
		}
	default:
		return fmt.Errorf("unknown PRODUCT_STORE %q", c.ProductStore)
	}
	if c.SnapshotConcurrency <= 0 {
		return fmt.Errorf("SNAPSHOT_CONCURRENCY must be positive, got %d", c.SnapshotConcurrency)
	}
	return nil
}
