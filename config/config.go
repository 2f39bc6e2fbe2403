// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Config is read once at startup
type Config struct {
	Environment      string        `env:"APP_ENV" envDefault:"development"`
	Address          string        `env:"HTTP_ADDR" envDefault:":3000"`
	BaseURL          string        `env:"APP_BASE_URL" envDefault:"http://localhost:3000"`
	Debug            bool          `env:"APP_DEBUG" envDefault:"false"`
	ResendAPIKey     string        `env:"RESEND_API_KEY"`
	EmailFrom        string        `env:"EMAIL_FROM" envDefault:"onboarding@resend.dev"`
	EmailSubject     string        `env:"EMAIL_SUBJECT" envDefault:"Confirm your email"`
	DatabaseDSN      string        `env:"DATABASE_DSN" envDefault:"file:merchant-admin.db?cache=shared"`
	StrictValidation bool          `env:"AUTH_STRICT_VALIDATION" envDefault:"false"`
	VerificationTTL  time.Duration `env:"VERIFICATION_TTL" envDefault:"24h"`
	GraphQLPath      string        `env:"GRAPHQL_PATH" envDefault:"/api/graphql"`
}

// Load parses the environment into a Config
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values env tags cannot express
func (c *Config) Validate() error {
	switch c.Environment {
	case EnvDevelopment, EnvProduction, EnvTest:
	default:
		return fmt.Errorf("unknown APP_ENV %q", c.Environment)
	}

	if c.VerificationTTL <= 0 {
		return fmt.Errorf("VERIFICATION_TTL must be positive, got %s", c.VerificationTTL)
	}

	if !strings.HasPrefix(c.GraphQLPath, "/") {
		return fmt.Errorf("GRAPHQL_PATH must start with /, got %q", c.GraphQLPath)
	}

	return nil
}

func (c *Config) GetBaseURL() string {
	return strings.TrimRight(c.BaseURL, "/")
}

func (c *Config) GetVerificationTTL() time.Duration {
	return c.VerificationTTL
}

func (c *Config) GetStrictValidation() bool {
	return c.StrictValidation
}

// IsDevelopment gates the GraphQL explorer
func (c *Config) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

// HasEmailProvider reports whether verification emails can be sent
func (c *Config) HasEmailProvider() bool {
	return strings.TrimSpace(c.ResendAPIKey) != ""
}
