package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), ConfigFileName))
	if err != nil {
		t.Fatal(err)
	}
	def := Default()
	if cfg.LLM.Model != def.LLM.Model || cfg.LLM.TimeoutSeconds != def.LLM.TimeoutSeconds {
		t.Errorf("got %+v, want defaults %+v", cfg.LLM, def.LLM)
	}
	if cfg.LLM.Endpoint != "" {
		t.Error("default endpoint must be empty (offline)")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	data := "llm:\n  model: local-model\n  endpoint: http://localhost:8080/v1/chat/completions\n  temperature: 0.7\n  cache_path: .forall-cache.db\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LLM.Model != "local-model" {
		t.Errorf("model = %q", cfg.LLM.Model)
	}
	if cfg.LLM.Endpoint != "http://localhost:8080/v1/chat/completions" {
		t.Errorf("endpoint = %q", cfg.LLM.Endpoint)
	}
	if cfg.LLM.Temperature != 0.7 {
		t.Errorf("temperature = %v", cfg.LLM.Temperature)
	}
	if cfg.LLM.CachePath != ".forall-cache.db" {
		t.Errorf("cache_path = %q", cfg.LLM.CachePath)
	}
	// Untouched keys keep their defaults.
	if cfg.LLM.APIKeyEnv != Default().LLM.APIKeyEnv {
		t.Errorf("api_key_env = %q", cfg.LLM.APIKeyEnv)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad yaml", "llm: [\n"},
		{"temperature out of range", "llm:\n  temperature: 3.5\n"},
		{"negative timeout", "llm:\n  timeout_seconds: -1\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ConfigFileName)
			if err := os.WriteFile(path, []byte(tc.data), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
