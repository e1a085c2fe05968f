// Package config loads admin console settings from YAML with environment
// overrides.
package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Server configures the HTTP listener.
type Server struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Remote configures the upstream admin backend.
type Remote struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

// Poll configures the order list poller.
type Poll struct {
	Interval time.Duration `yaml:"interval"`
	Page     int           `yaml:"page"`
	Limit    int           `yaml:"limit"`
}

// Logging configures log output.
type Logging struct {
	FilePath   string `yaml:"file_path"`
	Production bool   `yaml:"production"`
}

// Config is the full admin console configuration.
type Config struct {
	Server  Server  `yaml:"server"`
	Remote  Remote  `yaml:"remote"`
	Poll    Poll    `yaml:"poll"`
	Logging Logging `yaml:"logging"`
}

// Default returns the configuration used when no file is provided.
func Default() Config {
	return Config{
		Server: Server{Host: "0.0.0.0", Port: 8080},
		Poll:   Poll{Interval: 5 * time.Second, Page: 1, Limit: 10},
	}
}

// Load reads the optional YAML file at path, then applies environment
// overrides. Variables from a local .env file are loaded first when present.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		f, err := os.Open(path) //nolint:gosec
		if err != nil {
			return Config{}, fmt.Errorf("config: open %s: %w", path, err)
		}
		defer f.Close()
		if err := decode(f, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(r io.Reader, cfg *Config) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && err != io.EOF {
		return err
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("ADMIN_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("ADMIN_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("ADMIN_REMOTE_URL"); v != "" {
		c.Remote.BaseURL = v
	}
	if v := os.Getenv("ADMIN_REMOTE_API_KEY"); v != "" {
		c.Remote.APIKey = v
	}
	if v := os.Getenv("ADMIN_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Poll.Interval = d
		}
	}
	if v := os.Getenv("ADMIN_LOG_FILE"); v != "" {
		c.Logging.FilePath = v
	}
}

// Validate checks invariants the rest of the system relies on.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid server port %d", c.Server.Port)
	}
	if c.Poll.Interval < 0 {
		return fmt.Errorf("config: poll interval must not be negative")
	}
	return nil
}
