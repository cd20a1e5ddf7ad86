package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port       string `env:"PORT,       default=8080"`
	Env        string `env:"ENV,        default=development"`
	LogLevel   string `env:"LOG_LEVEL,  default=info"`
	JWTSecret  string `env:"JWT_SECRET, required"`
	BcryptCost int    `env:"BCRYPT_COST, default=10"`
	BodyLimit  string `env:"BODY_LIMIT, default=10M"`

	Mongo     MongoConfig
	Redis     RedisConfig
	S3        S3Config
	Cleanup   CleanupConfig
	KeepAlive KeepAliveConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=bookworm"`
}

type RedisConfig struct {
	Addr           string        `env:"REDIS_ADDR,      default=localhost:6379"`
	Password       string        `env:"REDIS_PASSWORD"`
	DB             int           `env:"REDIS_DB,        default=0"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL, default=24h"`
}

type S3Config struct {
	Endpoint  string `env:"S3_ENDPOINT"`
	Region    string `env:"S3_REGION,     default=us-east-1"`
	Bucket    string `env:"S3_BUCKET,     default=book-covers"`
	AccessKey string `env:"S3_ACCESS_KEY"`
	SecretKey string `env:"S3_SECRET_KEY"`
	PublicURL string `env:"S3_PUBLIC_URL"`
	KeyPrefix string `env:"S3_KEY_PREFIX, default=covers/"`

	// URLMarker overrides the substring identifying covers we host.
	URLMarker string `env:"BLOB_URL_MARKER"`
}

type CleanupConfig struct {
	Workers int `env:"CLEANUP_WORKERS, default=2"`
}

type KeepAliveConfig struct {
	URL      string        `env:"KEEPALIVE_URL"`
	Interval time.Duration `env:"KEEPALIVE_INTERVAL, default=14m"`
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration from l and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.BcryptCost < 4 || c.BcryptCost > 14 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", c.BcryptCost)
	}
	if c.Cleanup.Workers <= 0 {
		return errors.New("CLEANUP_WORKERS must be positive")
	}
	if c.KeepAlive.URL != "" && c.KeepAlive.Interval <= 0 {
		return errors.New("KEEPALIVE_INTERVAL must be positive")
	}
	return nil
}
