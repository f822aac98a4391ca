package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level forall.yaml configuration.
type Config struct {
	LLM LLMConfig `yaml:"llm"`
}

// LLMConfig carries the backend settings for LLM-derived primitives.
// Everything here is host concern: the core pipeline only ever sees a Caller.
type LLMConfig struct {
	// Model is the default model name for declarations whose pragma does not
	// override it (e.g. "gpt-4o-mini").
	Model string `yaml:"model,omitempty"`

	// Temperature is the default sampling temperature.
	Temperature float64 `yaml:"temperature,omitempty"`

	// Endpoint is the chat-completions URL. Empty means no backend is
	// configured and every LLM call resolves through its fallback lambda.
	Endpoint string `yaml:"endpoint,omitempty"`

	// APIKeyEnv names the environment variable holding the API key.
	// The key itself never appears in forall.yaml.
	APIKeyEnv string `yaml:"api_key_env,omitempty"`

	// TimeoutSeconds bounds a single call. A timeout is treated like any
	// other call failure: the fallback lambda runs instead.
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty"`

	// CachePath enables the sqlite response cache when non-empty.
	CachePath string `yaml:"cache_path,omitempty"`
}

// Default returns the configuration used when no forall.yaml is present.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Model:          "gpt-4o-mini",
			Temperature:    0.0,
			APIKeyEnv:      "FORALL_API_KEY",
			TimeoutSeconds: 30,
		},
	}
}

// Load reads and validates a forall.yaml file. A missing file is not an
// error; defaults apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be in [0, 2], got %v", c.LLM.Temperature)
	}
	if c.LLM.TimeoutSeconds < 0 {
		return fmt.Errorf("llm.timeout_seconds must be non-negative, got %d", c.LLM.TimeoutSeconds)
	}
	return nil
}
