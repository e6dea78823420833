// Package config loads pipeline configuration from the environment and an
// optional YAML file. The API key comes from the environment only and its
// absence is fatal before any generation call is attempted.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrMissingAPIKey is the configuration error for an absent credential.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY not set in environment")

type Config struct {
	AI   AIConfig   `yaml:"ai" validate:"required"`
	Loop LoopConfig `yaml:"loop" validate:"required"`
	HTTP HTTPConfig `yaml:"http" validate:"required"`
}

type AIConfig struct {
	// APIKey is read from the environment, never from the config file.
	APIKey         string          `yaml:"-" validate:"required"`
	Model          string          `yaml:"model" validate:"required"`
	BaseURL        string          `yaml:"base_url" validate:"required,url"`
	TimeoutSeconds int             `yaml:"timeout_seconds" validate:"required,min=5,max=600"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" validate:"required"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" validate:"required,min=1,max=1000"`
	BurstSize         int `yaml:"burst_size" validate:"required,min=1,max=100"`
}

type LoopConfig struct {
	MaxRounds       int     `yaml:"max_rounds" validate:"required,min=1,max=10"`
	AcceptThreshold float64 `yaml:"accept_threshold" validate:"required,min=1,max=10"`
}

type HTTPConfig struct {
	ListenAddr string `yaml:"listen_addr" validate:"required"`
}

// Default returns the built-in configuration, before env overlay.
func Default() Config {
	return Config{
		AI: AIConfig{
			Model:          "gpt-3.5-turbo",
			BaseURL:        "https://api.openai.com/v1",
			TimeoutSeconds: 60,
			RateLimit: RateLimitConfig{
				RequestsPerMinute: 30,
				BurstSize:         10,
			},
		},
		Loop: LoopConfig{
			MaxRounds:       3,
			AcceptThreshold: 7.5,
		},
		HTTP: HTTPConfig{
			ListenAddr: ":8000",
		},
	}
}

// Load builds the configuration: defaults, then the optional YAML file, then
// the environment. A missing API key fails here, before any generation call.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path := configPath(); path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	cfg.AI.APIKey = os.Getenv("OPENAI_API_KEY")
	if cfg.AI.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	if addr := os.Getenv("STORYWEAVER_LISTEN_ADDR"); addr != "" {
		cfg.HTTP.ListenAddr = addr
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func configPath() string {
	if path := os.Getenv("STORYWEAVER_CONFIG"); path != "" {
		return path
	}
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "storyweaver", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "storyweaver", "config.yaml")
}

func (c *Config) validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
