package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type AuthConfig struct {
	// SigningKey is the HMAC key for token signatures. Required; must be
	// high-entropy material, not a password.
	SigningKey string `env:"JWT_SECRET, required"`
	// AccessTTL is deliberately short; RefreshTTL must exceed it by a
	// large margin (days vs. hours).
	AccessTTL   time.Duration `env:"JWT_ACCESS_TTL,  default=24h"`
	RefreshTTL  time.Duration `env:"JWT_REFRESH_TTL, default=168h"`
	DefaultRole string        `env:"DEFAULT_ROLE,    default=ROLE_VENDEDOR"`
	BcryptCost  int           `env:"BCRYPT_COST,     default=10"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=glp_erp"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Auth.RefreshTTL <= cfg.Auth.AccessTTL {
		return nil, fmt.Errorf("config: JWT_REFRESH_TTL (%s) must exceed JWT_ACCESS_TTL (%s)", cfg.Auth.RefreshTTL, cfg.Auth.AccessTTL)
	}
	return &cfg, nil
}
