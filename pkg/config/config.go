// Package config loads SupportPilot configuration from the environment, an
// optional .env file, and an optional supportpilot.yaml overlay.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Provider selects the LLM backend: "gemini", "anthropic", or "openai".
	Provider string `yaml:"provider"`
	// Model overrides the provider's default model.
	Model string `yaml:"model"`
	// DBPath is the SQLite tickets database location.
	DBPath string `yaml:"db_path"`
	// KBPath is the knowledge base JSON file location.
	KBPath string `yaml:"kb_path"`
	// JWTSecret signs web demo-session tokens. Environment only.
	JWTSecret string `yaml:"-"`
	// Debug enables debug-level logging.
	Debug bool `yaml:"debug"`
}

// Load resolves configuration. Precedence, lowest to highest: defaults, YAML
// file (if present at path), environment variables. A missing YAML file is
// not an error; an unreadable or malformed one is.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Provider: "gemini",
		DBPath:   "data/tickets.db",
		KBPath:   "data/knowledge_base.json",
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	if v := os.Getenv("SUPPORTPILOT_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("SUPPORTPILOT_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("SUPPORTPILOT_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("SUPPORTPILOT_KB"); v != "" {
		cfg.KBPath = v
	}
	if v := os.Getenv("SUPPORTPILOT_DEBUG"); v == "1" || v == "true" {
		cfg.Debug = true
	}
	cfg.JWTSecret = os.Getenv("SUPPORTPILOT_JWT_SECRET")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Provider {
	case "gemini", "anthropic", "openai":
		return nil
	}
	return fmt.Errorf("unsupported provider %q: must be gemini, anthropic, or openai", c.Provider)
}

// APIKey returns the key for the configured provider from its conventional
// environment variable.
func (c *Config) APIKey() string {
	switch c.Provider {
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "gemini":
		return os.Getenv("GOOGLE_API_KEY")
	}
	return ""
}
