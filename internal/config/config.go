package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Content source kinds
const (
	ContentSourceHTTP     = "http"
	ContentSourcePostgres = "postgres"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port            string        `yaml:"port" env:"SERVER_PORT"`
		Mode            string        `yaml:"mode" env:"SERVER_MODE"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
	} `yaml:"server"`

	Upstream struct {
		Content struct {
			BaseURL string        `yaml:"base_url" env:"CONTENT_SERVICE_URL"`
			Timeout time.Duration `yaml:"timeout" env:"CONTENT_SERVICE_TIMEOUT"`
		} `yaml:"content"`
		Follow struct {
			BaseURL string        `yaml:"base_url" env:"FOLLOW_SERVICE_URL"`
			Timeout time.Duration `yaml:"timeout" env:"FOLLOW_SERVICE_TIMEOUT"`
		} `yaml:"follow"`
		Messaging struct {
			BaseURL string        `yaml:"base_url" env:"MESSAGING_SERVICE_URL"`
			Timeout time.Duration `yaml:"timeout" env:"MESSAGING_SERVICE_TIMEOUT"`
		} `yaml:"messaging"`
		RequestsPerSecond float64       `yaml:"requests_per_second" env:"UPSTREAM_RPS"`
		Burst             int           `yaml:"burst" env:"UPSTREAM_BURST"`
		RetryMaxElapsed   time.Duration `yaml:"retry_max_elapsed" env:"UPSTREAM_RETRY_MAX_ELAPSED"`
	} `yaml:"upstream"`

	Content struct {
		Source   string        `yaml:"source" env:"CONTENT_SOURCE"`
		CacheTTL time.Duration `yaml:"cache_ttl" env:"CONTENT_CACHE_TTL"`
	} `yaml:"content"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	Redis struct {
		Enabled  bool   `yaml:"enabled" env:"REDIS_ENABLED"`
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
	} `yaml:"redis"`

	NATS struct {
		Enabled bool   `yaml:"enabled" env:"NATS_ENABLED"`
		URL     string `yaml:"url" env:"NATS_URL"`
	} `yaml:"nats"`

	JWT struct {
		Secret string `yaml:"secret" env:"JWT_SECRET"`
		Issuer string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// The file is optional, env vars and defaults are enough to boot
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			file, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}

			if err := yaml.Unmarshal(file, config); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if _, err := applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.ShutdownTimeout = 10 * time.Second

	config.Upstream.Content.BaseURL = "http://localhost:9001"
	config.Upstream.Content.Timeout = 5 * time.Second
	config.Upstream.Follow.BaseURL = "http://localhost:9002"
	config.Upstream.Follow.Timeout = 5 * time.Second
	config.Upstream.Messaging.BaseURL = "http://localhost:9003"
	config.Upstream.Messaging.Timeout = 5 * time.Second
	config.Upstream.RequestsPerSecond = 50
	config.Upstream.Burst = 20
	config.Upstream.RetryMaxElapsed = 3 * time.Second

	config.Content.Source = ContentSourceHTTP
	config.Content.CacheTTL = 15 * time.Second

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "alumnet_content"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"

	config.Redis.Addr = "localhost:6379"
	config.NATS.URL = "nats://localhost:4222"

	config.JWT.Issuer = "alumnet.auth"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	upstreams := map[string]string{
		"content":   config.Upstream.Content.BaseURL,
		"follow":    config.Upstream.Follow.BaseURL,
		"messaging": config.Upstream.Messaging.BaseURL,
	}
	for name, raw := range upstreams {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid %s service URL %q", name, raw)
		}
	}

	switch config.Content.Source {
	case ContentSourceHTTP:
	case ContentSourcePostgres:
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required for the postgres content source")
		}
		if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
			return fmt.Errorf("invalid database connection max lifetime: %w", err)
		}
	default:
		return fmt.Errorf("unknown content source %q", config.Content.Source)
	}

	if config.Upstream.RequestsPerSecond <= 0 {
		return fmt.Errorf("upstream requests_per_second must be positive")
	}
	if config.Upstream.Burst < 1 {
		return fmt.Errorf("upstream burst must be at least 1")
	}

	if config.Redis.Enabled && config.Redis.Addr == "" {
		return fmt.Errorf("redis address is required when redis is enabled")
	}
	if config.NATS.Enabled && config.NATS.URL == "" {
		return fmt.Errorf("nats url is required when nats is enabled")
	}

	return nil
}

// IsProduction reports whether the server runs in release mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Mode, "production") || strings.EqualFold(c.Server.Mode, "release")
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
