// Package config loads the application configuration: YAML file with
// defaults, overridable through the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

const fileMode = 0o600

type Config struct {
	// DatabasePath is the SQLite file holding the durable task record.
	DatabasePath string `yaml:"database_path"`
	// Mood is forwarded to the assistant with every prompt.
	Mood string `yaml:"mood"`

	Bridge BridgeConfig `yaml:"bridge"`
	Gemini GeminiConfig `yaml:"gemini"`
}

// BridgeConfig describes both sides of the remote suggestion bridge: where
// the relay listens and where the app reaches it.
type BridgeConfig struct {
	ListenAddr     string   `yaml:"listen_addr"`
	RespondURL     string   `yaml:"respond_url"`
	SuggestURL     string   `yaml:"suggest_url"`
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"`
}

// GeminiConfig configures the relay's upstream generative-text call.
type GeminiConfig struct {
	Model          string `yaml:"model"`
	APIKeyEnv      string `yaml:"api_key_env"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		DatabasePath: filepath.Join(home, ".studyflow", "studyflow.db"),
		Mood:         "neutral",
		Bridge: BridgeConfig{
			ListenAddr: "localhost:5000",
			RespondURL: "http://localhost:5000/api/ai/analyze",
			SuggestURL: "http://localhost:5000/api/generateTask",
		},
		Gemini: GeminiConfig{
			Model:          "gemini-1.5-flash",
			APIKeyEnv:      "GEMINI_API_KEY",
			TimeoutSeconds: 30,
		},
	}
}

// Load reads the config at path, layering file values over defaults and
// environment overrides over both. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return FromEnv(cfg), nil
}

// FromEnv applies environment overrides to base.
func FromEnv(base Config) Config {
	cfg := base
	if v := getEnv("STUDYFLOW_DB"); v != "" {
		cfg.DatabasePath = v
	}
	if v := getEnv("STUDYFLOW_MOOD"); v != "" {
		cfg.Mood = v
	}
	if v := getEnv("STUDYFLOW_BRIDGE_ADDR"); v != "" {
		cfg.Bridge.ListenAddr = v
	}
	if v := getEnv("STUDYFLOW_BRIDGE_URL"); v != "" {
		cfg.Bridge.RespondURL = v
	}
	if v := getEnv("STUDYFLOW_SUGGEST_URL"); v != "" {
		cfg.Bridge.SuggestURL = v
	}
	if v := getEnv("STUDYFLOW_GEMINI_MODEL"); v != "" {
		cfg.Gemini.Model = v
	}
	return cfg
}

// APIKey resolves the Gemini key from the configured environment variable.
func (c GeminiConfig) APIKey() string {
	if c.APIKeyEnv == "" {
		return ""
	}
	return getEnv(c.APIKeyEnv)
}

// DefaultPath is the config file location: $STUDYFLOW_CONFIG, or
// ~/.studyflow/config.yaml.
func DefaultPath() string {
	if v := getEnv("STUDYFLOW_CONFIG"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".studyflow", "config.yaml")
}

// Save writes the config to path, creating parent directories.
func Save(cfg Config, path string) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, raw, fileMode); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func getEnv(name string) string {
	return strings.TrimSpace(os.Getenv(name))
}
