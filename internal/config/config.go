package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the server and supplier settings.
type Config struct {
	Addr string `yaml:"addr"`

	Supplier struct {
		BaseURL        string `yaml:"base_url"`
		APIKey         string `yaml:"api_key"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"supplier"`

	LocationCacheTTLSeconds int `yaml:"location_cache_ttl_seconds"`

	RateLimit struct {
		Requests      int `yaml:"requests"`
		WindowSeconds int `yaml:"window_seconds"`
	} `yaml:"rate_limit"`
}

// Default returns a configuration suitable for the demo.
func Default() *Config {
	cfg := &Config{Addr: ":8080"}
	cfg.Supplier.BaseURL = "https://test.api.example.com"
	cfg.Supplier.TimeoutSeconds = 10
	cfg.LocationCacheTTLSeconds = 300
	cfg.RateLimit.Requests = 10
	cfg.RateLimit.WindowSeconds = 60
	return cfg
}

// Load reads a YAML configuration file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overlays environment variables on the configuration.
func (c *Config) ApplyEnv() {
	if p := os.Getenv("PORT"); p != "" {
		c.Addr = ":" + p
	}
	if v := os.Getenv("SUPPLIER_BASE_URL"); v != "" {
		c.Supplier.BaseURL = v
	}
	if v := os.Getenv("SUPPLIER_API_KEY"); v != "" {
		c.Supplier.APIKey = v
	}
}

func (c *Config) SupplierTimeout() time.Duration {
	return time.Duration(c.Supplier.TimeoutSeconds) * time.Second
}

func (c *Config) LocationCacheTTL() time.Duration {
	return time.Duration(c.LocationCacheTTLSeconds) * time.Second
}

func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimit.WindowSeconds) * time.Second
}
