package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full application configuration, loaded from the environment.
type Config struct {
	Server ServerConfig
	Mongo  MongoConfig
	JWT    JWTConfig
	Email  EmailConfig
}

type ServerConfig struct {
	Host        string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port        int    `env:"HTTP_PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	Database string `env:"MONGO_DATABASE" envDefault:"taskhive"`
}

type JWTConfig struct {
	AccessSecret         string        `env:"JWT_ACCESS_SECRET" envDefault:"dev-access-secret-change-in-production"`
	RefreshSecret        string        `env:"JWT_REFRESH_SECRET" envDefault:"dev-refresh-secret-change-in-production"`
	AccessTokenDuration  time.Duration `env:"JWT_ACCESS_TOKEN_DURATION" envDefault:"15m"`
	RefreshTokenDuration time.Duration `env:"JWT_REFRESH_TOKEN_DURATION" envDefault:"168h"`
}

type EmailConfig struct {
	TestingMode  bool   `env:"EMAIL_TESTING_MODE" envDefault:"false"`
	SMTPHost     string `env:"SMTP_HOST" envDefault:"localhost"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	FromEmail    string `env:"EMAIL_FROM_ADDRESS" envDefault:"noreply@taskhive.dev"`
	FromName     string `env:"EMAIL_FROM_NAME" envDefault:"TaskHive"`
	BaseURL      string `env:"APP_BASE_URL" envDefault:"http://localhost:3000"`
	SupportEmail string `env:"SUPPORT_EMAIL" envDefault:"support@taskhive.dev"`
}

// Load parses configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate rejects configurations unsafe to run with outside development.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid HTTP port %d", c.Server.Port)
	}
	if c.Mongo.URI == "" {
		return errors.New("MONGO_URI is required")
	}
	if c.IsProduction() {
		if c.JWT.AccessSecret == "dev-access-secret-change-in-production" ||
			c.JWT.RefreshSecret == "dev-refresh-secret-change-in-production" {
			return errors.New("JWT secrets must be set in production")
		}
	}
	return nil
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
