// Package config loads the CLI configuration from a YAML or JSON file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration written as "250ms" or "5s" in config files.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.parse(value.Value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	return d.parse(s)
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) parse(s string) error {
	if s == "" {
		*d = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Config is the full CLI configuration.
type Config struct {
	LogLevel string        `yaml:"log_level" json:"log_level"`
	API      APIConfig     `yaml:"api" json:"api"`
	Server   ServerConfig  `yaml:"server" json:"server"`
	FakeAPI  FakeAPIConfig `yaml:"fakeapi" json:"fakeapi"`
}

// APIConfig points the REST client at a server.
type APIConfig struct {
	BaseURL string   `yaml:"base_url" json:"base_url"`
	Timeout Duration `yaml:"timeout" json:"timeout"`
}

// ServerConfig configures `tendril serve`.
type ServerConfig struct {
	Port int `yaml:"port" json:"port"`
}

// FakeAPIConfig configures `tendril fakeapi`.
type FakeAPIConfig struct {
	Port  int         `yaml:"port" json:"port"`
	Delay Duration    `yaml:"delay" json:"delay"`
	Seed  bool        `yaml:"seed" json:"seed"`
	Redis RedisConfig `yaml:"redis" json:"redis"`
}

// RedisConfig selects the Redis backend when Addr is set.
type RedisConfig struct {
	Addr     string `yaml:"addr" json:"addr"`
	Password string `yaml:"password" json:"password"`
	DB       int    `yaml:"db" json:"db"`
	Prefix   string `yaml:"prefix" json:"prefix"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		API: APIConfig{
			BaseURL: "http://localhost:3000",
			Timeout: Duration(10 * time.Second),
		},
		Server: ServerConfig{Port: 8080},
		FakeAPI: FakeAPIConfig{
			Port:  3000,
			Delay: Duration(500 * time.Millisecond),
			Seed:  true,
			Redis: RedisConfig{Prefix: "tendril:"},
		},
	}
}

// Load reads path over the defaults. The format follows the extension
// (.yaml, .yml or .json). A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".json":
		err = json.Unmarshal(data, &cfg)
	default:
		return cfg, fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks ranges.
func (c Config) Validate() error {
	for name, port := range map[string]int{"server.port": c.Server.Port, "fakeapi.port": c.FakeAPI.Port} {
		if port < 0 || port > 65535 {
			return fmt.Errorf("%s out of range: %d", name, port)
		}
	}
	if c.API.Timeout < 0 || c.FakeAPI.Delay < 0 {
		return fmt.Errorf("durations must not be negative")
	}
	return nil
}
