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
	CORS  CORSConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type AuthConfig struct {
	// JWTSecret signs access tokens. Required: startup fails without it.
	JWTSecret string `env:"JWT_SECRET"`

	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL, default=15m"`
	ResetTokenTTL  time.Duration `env:"RESET_TOKEN_TTL,  default=1h"`

	// RefreshCookieMaxAge bounds the browser's copy of the refresh
	// cookie. The stored token itself has no server-side expiry.
	RefreshCookieMaxAge time.Duration `env:"REFRESH_COOKIE_MAX_AGE, default=24h"`
	CookieSecure        bool          `env:"COOKIE_SECURE, default=false"`
}

type CORSConfig struct {
	// Origins is the explicit allow-list permitted to send credentialed
	// requests.
	Origins []string `env:"CORS_ORIGINS, default=http://localhost:5173"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=socialblog"`
}

type RedisConfig struct {
	Addr    string        `env:"REDIS_ADDR, default=localhost:6379"`
	DB      int           `env:"REDIS_DB,   default=0"`
	ViewTTL time.Duration `env:"VIEW_DEDUP_TTL, default=1h"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
