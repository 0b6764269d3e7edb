// Package config loads the application configuration from an optional YAML
// file overlaid with environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

// Config defines the app configuration.
type Config struct {
	Server struct {
		Port int    `yaml:"port" env:"PORT"`
		Env  string `yaml:"env" env:"ENV"`
	} `yaml:"server"`
	Database struct {
		Driver       string `yaml:"driver" env:"DB_DRIVER"`
		DSN          string `yaml:"dsn" env:"DSN"`
		MaxOpenConns int    `yaml:"max_open_conns" env:"MAXOPENCONNS"`
		MaxIdleConns int    `yaml:"max_idle_conns" env:"MAXIDLECONNS"`
		MaxIdleTime  string `yaml:"max_idle_time" env:"MAXIDLETIME"`
		Migrate      bool   `yaml:"migrate" env:"DB_MIGRATE"`
	} `yaml:"database"`
	SMTP struct {
		Host     string `yaml:"host" env:"SMTPHOST"`
		Port     int    `yaml:"port" env:"SMTPPORT"`
		Username string `yaml:"username" env:"SMTPUSERNAME"`
		Password string `yaml:"password" env:"SMTPPASSWORD"`
		Sender   string `yaml:"sender" env:"SMTPSENDER"`
	} `yaml:"smtp"`
	S3 struct {
		AccessKeyID     string `yaml:"access_key_id" env:"ACCESSKEYID"`
		SecretAccessKey string `yaml:"secret_access_key" env:"SECRETACCESSKEY"`
		Region          string `yaml:"region" env:"REGION"`
		Bucket          string `yaml:"bucket" env:"BUCKET"`
	} `yaml:"s3"`
	Limiter struct {
		RPS     float64 `yaml:"rps" env:"RPS"`
		Burst   int     `yaml:"burst" env:"BURST"`
		Enabled bool    `yaml:"enabled" env:"LENABLED"`
	} `yaml:"limiter"`
	Cors struct {
		TrustedOrigins []string `yaml:"trusted_origins" env:"TRUSTEDORIGINS" env-separator:" "`
	} `yaml:"cors"`
	Metrics struct {
		Enabled bool `yaml:"enabled" env:"MENABLED"`
	} `yaml:"metrics"`
	BasicAuth struct {
		Username string `yaml:"username" env:"BASIC_AUTH_USERNAME"`
		Password string `yaml:"password" env:"BASIC_AUTH_PASSWORD"`
	} `yaml:"basic_auth"`
	Auth struct {
		TokenTTL time.Duration `yaml:"token_ttl" env:"TOKEN_TTL"`
		CacheTTL time.Duration `yaml:"cache_ttl" env:"CACHE_TTL"`
	} `yaml:"auth"`
	Log struct {
		Level string `yaml:"level" env:"LOG_LEVEL"`
	} `yaml:"log"`
}

// Default returns the configuration used for any value that neither the
// YAML file nor the environment sets.
func Default() Config {
	var cfg Config
	cfg.Server.Port = 4000
	cfg.Server.Env = "development"
	cfg.Database.Driver = "postgres"
	cfg.Database.MaxOpenConns = 25
	cfg.Database.MaxIdleConns = 25
	cfg.Database.MaxIdleTime = "15m"
	cfg.Database.Migrate = true
	cfg.SMTP.Port = 25
	cfg.SMTP.Sender = "Book Reviews <no-reply@bookreviews.local>"
	cfg.Limiter.RPS = 4
	cfg.Limiter.Burst = 8
	cfg.Limiter.Enabled = true
	cfg.Auth.TokenTTL = 24 * time.Hour
	cfg.Auth.CacheTTL = 5 * time.Minute
	cfg.Log.Level = "info"
	return cfg
}

// Decode builds the configuration from the defaults, then the YAML file at
// path when path is not empty, then the environment.
func Decode(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Config{}, err
		}
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("decode %s: %w", path, err)
		}
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Database.Driver {
	case "postgres":
		if c.Database.DSN == "" {
			return errors.New("database dsn must be provided for the postgres driver")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth token ttl must be positive")
	}
	return nil
}

// UploadsEnabled reports whether an S3 bucket is configured for book covers.
func (c Config) UploadsEnabled() bool {
	return c.S3.Bucket != "" && c.S3.Region != ""
}

// MailEnabled reports whether an SMTP server is configured.
func (c Config) MailEnabled() bool {
	return c.SMTP.Host != ""
}
