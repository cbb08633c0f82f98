// Package config loads the application configuration from environment
// variables into an immutable struct built once at startup. Components that
// need configuration receive it by injection; nothing reads the environment
// after Load returns.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all service configuration.
//
// The two JWT secrets MUST differ: access and refresh tokens are signed with
// separate keys so one kind can never be accepted where the other is
// expected.
type Config struct {
	Port   int    `env:"PORT" envDefault:"8080"`
	DBPath string `env:"DB_PATH" envDefault:"data/plantyard.db"`

	JWTSecretKey        string `env:"JWT_SECRET_KEY,notEmpty"`
	JWTRefreshSecretKey string `env:"JWT_REFRESH_SECRET_KEY,notEmpty"`

	// Token lifetimes, in minutes. Defaults: 60 minutes access,
	// 7 days (10080 minutes) refresh.
	AccessTokenExpireMinutes  int `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"60"`
	RefreshTokenExpireMinutes int `env:"REFRESH_TOKEN_EXPIRE_MINUTES" envDefault:"10080"`

	BcryptCost int `env:"BCRYPT_COST" envDefault:"12"`

	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"http://localhost:3000"`
}

// Load parses the configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}

	if cfg.JWTSecretKey == cfg.JWTRefreshSecretKey {
		return Config{}, errors.New("config: JWT_SECRET_KEY and JWT_REFRESH_SECRET_KEY must differ")
	}
	if cfg.AccessTokenExpireMinutes <= 0 || cfg.RefreshTokenExpireMinutes <= 0 {
		return Config{}, errors.New("config: token expiry minutes must be positive")
	}

	return cfg, nil
}

// AccessTokenTTL returns the access token lifetime as a duration.
func (c Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

// RefreshTokenTTL returns the refresh token lifetime as a duration.
func (c Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.RefreshTokenExpireMinutes) * time.Minute
}
