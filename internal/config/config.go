// Package config loads application configuration from defaults, an
// optional yaml file, and environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, first hit wins.
var DefaultConfigPaths = []string{
	"essensfindung.yaml",
	"essensfindung.yml",
	"/etc/essensfindung/config.yaml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "ESSEN_CONFIG_PATH"

const envPrefix = "ESSEN_"

// Config holds all runtime settings.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Places  PlacesConfig  `koanf:"places"`
	Auth    AuthConfig    `koanf:"auth"`
	Storage StorageConfig `koanf:"storage"`
	Recipes RecipesConfig `koanf:"recipes"`
	Log     LogConfig     `koanf:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// PlacesConfig configures the places and geocoding API access.
type PlacesConfig struct {
	APIKey             string        `koanf:"api_key"`
	Language           string        `koanf:"language"`
	RequestMinInterval time.Duration `koanf:"request_min_interval"`
}

// AuthConfig configures session tokens.
type AuthConfig struct {
	SecretKey string        `koanf:"secret_key"`
	TokenTTL  time.Duration `koanf:"token_ttl"`
}

// StorageConfig configures the SQLite database.
type StorageConfig struct {
	Path string `koanf:"path"`
}

// RecipesConfig configures the static recipe dataset.
type RecipesConfig struct {
	DatasetPath string `koanf:"dataset_path"`
}

// LogConfig configures log output.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Places: PlacesConfig{
			Language:           "de",
			RequestMinInterval: 250 * time.Millisecond,
		},
		Auth: AuthConfig{
			TokenTTL: 30 * time.Minute,
		},
		Storage: StorageConfig{
			Path: "essensfindung.db",
		},
		Recipes: RecipesConfig{
			DatasetPath: "data/recipeitems.json",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, the first config file found
// (or the explicit path), and ESSEN_-prefixed environment variables.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path == "" {
		path = os.Getenv(ConfigPathEnvVar)
	}
	if path == "" {
		for _, candidate := range DefaultConfigPaths {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// ESSEN_PLACES__API_KEY -> places.api_key
	err := k.Load(env.Provider(envPrefix, ".", func(key string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, envPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// Validate checks settings the process cannot run without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Places.APIKey) == "" {
		return fmt.Errorf("places.api_key is required")
	}
	if strings.TrimSpace(c.Auth.SecretKey) == "" {
		return fmt.Errorf("auth.secret_key is required")
	}
	return nil
}
