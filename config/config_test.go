package config

import (
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name: "valid_minimal_config_after_defaults",
			config: func() *Config {
				c := &Config{}
				c.SetDefaults()
				return c
			}(),
			wantErr: false,
		},
		{
			name: "anthropic_advisor_without_api_key",
			config: &Config{
				Advisor: AdvisorConfig{Provider: AdvisorProviderAnthropic},
			},
			wantErr: true,
		},
		{
			name: "ollama_advisor_without_api_key_is_fine",
			config: func() *Config {
				c := &Config{Advisor: AdvisorConfig{Provider: AdvisorProviderOllama}}
				c.VectorStore.SetDefaults()
				c.Orchestrator.SetDefaults()
				c.Logger.SetDefaults()
				return c
			}(),
			wantErr: false,
		},
		{
			name: "qdrant_vector_store_missing_url",
			config: func() *Config {
				c := &Config{
					Advisor:     AdvisorConfig{Provider: AdvisorProviderOllama},
					VectorStore: VectorStoreConfig{Provider: VectorStoreProviderQdrant, Collection: "chunks"},
				}
				c.Orchestrator.SetDefaults()
				c.Logger.SetDefaults()
				return c
			}(),
			wantErr: true,
		},
		{
			name: "unsupported_logger_level",
			config: func() *Config {
				c := &Config{
					Advisor: AdvisorConfig{Provider: AdvisorProviderOllama},
					Logger:  LoggerConfig{Level: "verbose", Format: "text"},
				}
				c.VectorStore.SetDefaults()
				c.Orchestrator.SetDefaults()
				return c
			}(),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigFromString_ExpandsEnvAndAppliesDefaults(t *testing.T) {
	t.Setenv("TEST_ADVISOR_API_KEY", "sk-test-123")

	raw := `
version: "1"
name: research-default
advisor:
  provider: anthropic
  model: claude-sonnet-4-20250514
  api_key: ${TEST_ADVISOR_API_KEY}
vector_store:
  provider: memory
orchestrator:
  max_iterations: 10
`
	cfg, err := LoadConfigFromString(raw)
	if err != nil {
		t.Fatalf("LoadConfigFromString error: %v", err)
	}
	if cfg.Advisor.APIKey != "sk-test-123" {
		t.Fatalf("expected expanded api key, got %q", cfg.Advisor.APIKey)
	}
	if cfg.Orchestrator.MaxIterations != 10 {
		t.Fatalf("expected max_iterations 10, got %d", cfg.Orchestrator.MaxIterations)
	}
	if cfg.Orchestrator.MaxRerunCount != 2 {
		t.Fatalf("expected default max_rerun_count 2, got %d", cfg.Orchestrator.MaxRerunCount)
	}
}

func TestLoadConfigFromString_RejectsInvalidConfig(t *testing.T) {
	raw := `
advisor:
  provider: anthropic
`
	if _, err := LoadConfigFromString(raw); err == nil {
		t.Fatal("expected validation error for anthropic advisor without api_key")
	}
}
