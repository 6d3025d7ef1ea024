// Package config loads server and tool settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is bound from environment variables. Unset variables keep the defaults
// from Default.
type Config struct {
	Server struct {
		Port           int    `env:"SERVER_PORT"`
		AllowedOrigins string `env:"ALLOWED_ORIGINS"`
		CookieSecure   bool   `env:"COOKIE_SECURE"`
	}

	Store struct {
		Driver      string `env:"STORE_DRIVER"`
		DatabaseURL string `env:"DATABASE_URL"`
		SQLitePath  string `env:"SQLITE_PATH"`
		BcryptCost  int    `env:"BCRYPT_COST"`
	}

	Auth struct {
		JWTSecret      string `env:"JWT_SECRET"`
		SessionSecret  string `env:"SESSION_SECRET"`
		SellerTokenTTL string `env:"SELLER_TOKEN_TTL"`
		SessionTTL     string `env:"SESSION_TTL"`
	}

	Log struct {
		Level  string `env:"LOG_LEVEL"`
		Format string `env:"LOG_FORMAT"`
	}

	OpenAI struct {
		APIKey string `env:"OPENAI_API_KEY"`
		Model  string `env:"OPENAI_MODEL"`
	}
}

// Default returns a Config with every optional setting filled in.
func Default() *Config {
	c := &Config{}
	c.Server.Port = 8080
	c.Store.Driver = DriverPostgres
	c.Store.SQLitePath = "resale.db"
	c.Auth.SellerTokenTTL = "24h"
	c.Auth.SessionTTL = "720h"
	c.Log.Level = "info"
	c.Log.Format = "json"
	c.OpenAI.Model = "gpt-4o-mini"
	return c
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnviron()
}

// FromEnviron binds the current environment over the defaults.
func FromEnviron() (*Config, error) {
	c := Default()
	if _, err := env.UnmarshalFromEnviron(c); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if c.Auth.SessionSecret == "" {
		c.Auth.SessionSecret = c.Auth.JWTSecret
	}
	return c, nil
}

// Validate reports every missing or malformed setting at once.
func (c *Config) Validate() error {
	errs := []error{c.ValidateStore()}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("SERVER_PORT out of range: %d", c.Server.Port))
	}
	if _, err := time.ParseDuration(c.Auth.SellerTokenTTL); err != nil {
		errs = append(errs, fmt.Errorf("SELLER_TOKEN_TTL: %w", err))
	}
	if _, err := time.ParseDuration(c.Auth.SessionTTL); err != nil {
		errs = append(errs, fmt.Errorf("SESSION_TTL: %w", err))
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// ValidateStore checks only the store settings. The command line tools need no
// secrets.
func (c *Config) ValidateStore() error {
	switch c.Store.Driver {
	case DriverPostgres:
		if c.Store.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres store")
		}
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required for the sqlite store")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.Store.Driver)
	}
	return nil
}

// SellerTTL is the lifetime of seller auth tokens. Call after Validate.
func (c *Config) SellerTTL() time.Duration {
	d, _ := time.ParseDuration(c.Auth.SellerTokenTTL)
	return d
}

// StorefrontTTL is the lifetime of storefront session and remember tokens.
func (c *Config) StorefrontTTL() time.Duration {
	d, _ := time.ParseDuration(c.Auth.SessionTTL)
	return d
}

// Origins splits ALLOWED_ORIGINS on commas.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.Server.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
