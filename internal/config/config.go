package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Server     ServerConfig     `yaml:"server"`
	Gateway    GatewayConfig    `yaml:"gateway"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	Seed       SeedConfig       `yaml:"seed"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type GatewayConfig struct {
	Port      int             `yaml:"port"`
	ServerURL string          `yaml:"server_url"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type RateLimitConfig struct {
	Enabled       bool  `yaml:"enabled"`
	Requests      int64 `yaml:"requests"`
	WindowSeconds int   `yaml:"window_seconds"`
	Burst         int   `yaml:"burst"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type SeedConfig struct {
	Path string `yaml:"path"`
}

// Load reads the yaml config, expanding ${VAR} references from the
// environment (optionally primed from a .env file).
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}
	if c.Gateway.ServerURL == "" {
		return errors.New("gateway server_url is required")
	}
	if c.Gateway.RateLimit.Enabled && c.Gateway.RateLimit.Requests <= 0 {
		return errors.New("rate_limit.requests must be positive when enabled")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "sharehub"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 9090
	}
	if c.Gateway.Port == 0 {
		c.Gateway.Port = 8080
	}
	if c.Gateway.ServerURL == "" {
		c.Gateway.ServerURL = fmt.Sprintf("http://localhost:%d", c.Server.Port)
	}
	if c.Gateway.RateLimit.WindowSeconds == 0 {
		c.Gateway.RateLimit.WindowSeconds = 60
	}
	if c.Gateway.RateLimit.Burst == 0 {
		c.Gateway.RateLimit.Burst = 10
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9100
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}
