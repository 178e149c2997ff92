package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds the overall configuration for the application.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Cirrus     UpstreamConfig   `yaml:"cirrus"`
	Oracle     UpstreamConfig   `yaml:"oracle"`
	Auth       AuthConfig       `yaml:"auth"`
	PriceIndex PriceIndexConfig `yaml:"priceIndex"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig holds the server-specific configuration.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
}

// UpstreamConfig holds the connection settings for one upstream HTTP service
// (the cirrus indexer or the oracle feed).
type UpstreamConfig struct {
	BaseURL              string  `yaml:"baseURL"`
	RequestTimeoutMillis int64   `yaml:"requestTimeoutMillis"`
	RateLimitPerSecond   float64 `yaml:"rateLimitPerSecond"`
	RateBurst            int     `yaml:"rateBurst"`
}

// AuthConfig holds the client-credentials settings for the indexer's token
// endpoint. When disabled, requests go out unauthenticated.
type AuthConfig struct {
	Enabled              bool   `yaml:"enabled"`
	TokenURL             string `yaml:"tokenURL"`
	ClientID             string `yaml:"clientID"`
	ClientSecret         string `yaml:"clientSecret"`
	Scope                string `yaml:"scope"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	RefreshLeewaySeconds int    `yaml:"refreshLeewaySeconds"`
}

// PriceIndexConfig holds configuration for the cached price index.
type PriceIndexConfig struct {
	CacheTTLMinutes int `yaml:"cacheTTLMinutes"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // e.g., "debug", "info", "warn", "error"
	File  string `yaml:"file"`
}

// LoadConfig loads configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	if cfg.Server.Port == "" {
		cfg.Server.Port = ":8080"
	}

	applyUpstreamDefaults(&cfg.Cirrus, "cirrus")
	applyUpstreamDefaults(&cfg.Oracle, "oracle")

	if cfg.PriceIndex.CacheTTLMinutes == 0 {
		cfg.PriceIndex.CacheTTLMinutes = 5
		logrus.Infof("PriceIndex.CacheTTLMinutes not set, defaulting to %d minutes", cfg.PriceIndex.CacheTTLMinutes)
	}

	if cfg.Auth.Enabled {
		if cfg.Auth.TokenURL == "" || cfg.Auth.ClientID == "" {
			return nil, fmt.Errorf("auth enabled but tokenURL or clientID missing in %s", path)
		}
		if cfg.Auth.RequestTimeoutMillis == 0 {
			cfg.Auth.RequestTimeoutMillis = 10000
		}
		if cfg.Auth.RefreshLeewaySeconds == 0 {
			cfg.Auth.RefreshLeewaySeconds = 30
		}
	}

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

func applyUpstreamDefaults(u *UpstreamConfig, name string) {
	if u.RequestTimeoutMillis == 0 {
		u.RequestTimeoutMillis = 10000 // Default to 10 seconds
		logrus.Infof("%s.requestTimeoutMillis not set, defaulting to %d ms", name, u.RequestTimeoutMillis)
	}
	if u.RateLimitPerSecond <= 0 {
		u.RateLimitPerSecond = 10
	}
	if u.RateBurst <= 0 {
		u.RateBurst = 5
	}
	if u.BaseURL == "" {
		logrus.Warnf("%s.baseURL is not set; fetches from this source will fail and degrade to empty inputs", name)
	}
}
