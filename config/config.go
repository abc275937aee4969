// Package config provides configuration types and utilities for the
// deep-research engine.
//
// The engine is config-first: the orchestrator, its agent roster, the
// LLM advisor, and the vector store are all described in YAML.
//
// Example config:
//
//	version: "1"
//	name: research-default
//
//	advisor:
//	  provider: anthropic
//	  model: claude-sonnet-4-20250514
//	  api_key: ${ANTHROPIC_API_KEY}
//
//	vector_store:
//	  provider: qdrant
//	  url: ${QDRANT_URL}
//	  collection: research_chunks
//
//	agents:
//	  web_search:
//	    enabled: false
//
//	orchestrator:
//	  max_iterations: 15
//	  max_rerun_count: 2
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Version     string            `yaml:"version,omitempty"`
	Name        string            `yaml:"name,omitempty"`
	Description string            `yaml:"description,omitempty"`
	Metadata    map[string]string `yaml:"metadata,omitempty"`

	Advisor      AdvisorConfig      `yaml:"advisor,omitempty"`
	VectorStore  VectorStoreConfig  `yaml:"vector_store,omitempty"`
	Agents       AgentsConfig       `yaml:"agents,omitempty"`
	Orchestrator OrchestratorConfig `yaml:"orchestrator,omitempty"`
	Logger       LoggerConfig       `yaml:"logger,omitempty"`
	Tracing      TracingConfig      `yaml:"tracing,omitempty"`
}

// AdvisorProvider identifies the LLM backend used by the advisor.
type AdvisorProvider string

const (
	AdvisorProviderAnthropic AdvisorProvider = "anthropic"
	AdvisorProviderOpenAI    AdvisorProvider = "openai"
	AdvisorProviderOllama    AdvisorProvider = "ollama"
)

// AdvisorConfig configures the LLM advisor consulted by the orchestrator
// for decisions, plans, and quality assessments.
type AdvisorConfig struct {
	Provider    AdvisorProvider `yaml:"provider,omitempty"`
	Model       string          `yaml:"model,omitempty"`
	APIKey      string          `yaml:"api_key,omitempty"`
	BaseURL     string          `yaml:"base_url,omitempty"`
	Temperature *float64        `yaml:"temperature,omitempty"`
	MaxTokens   int             `yaml:"max_tokens,omitempty"`
}

// SetDefaults applies default values to the advisor config.
func (c *AdvisorConfig) SetDefaults() {
	if c.MaxTokens == 0 {
		c.MaxTokens = 4096
	}
	if c.Temperature == nil {
		t := 0.2
		c.Temperature = &t
	}
}

// Validate checks the advisor config for errors.
func (c *AdvisorConfig) Validate() error {
	switch c.Provider {
	case AdvisorProviderAnthropic, AdvisorProviderOpenAI, AdvisorProviderOllama:
	case "":
	default:
		return fmt.Errorf("unsupported advisor provider %q", c.Provider)
	}
	if c.Provider != AdvisorProviderOllama && c.Provider != "" && c.APIKey == "" {
		return fmt.Errorf("advisor provider %q requires an api_key", c.Provider)
	}
	if c.Temperature != nil && (*c.Temperature < 0 || *c.Temperature > 2) {
		return fmt.Errorf("advisor temperature must be between 0 and 2, got %v", *c.Temperature)
	}
	return nil
}

// VectorStoreProvider identifies the vector-store backend.
type VectorStoreProvider string

const (
	VectorStoreProviderQdrant VectorStoreProvider = "qdrant"
	VectorStoreProviderMemory VectorStoreProvider = "memory"
)

// VectorStoreConfig configures the adapter the orchestrator uses to fetch
// and augment retrieved chunks (§4.1.8).
type VectorStoreConfig struct {
	Provider   VectorStoreProvider `yaml:"provider,omitempty"`
	URL        string              `yaml:"url,omitempty"`
	APIKey     string              `yaml:"api_key,omitempty"`
	Collection string              `yaml:"collection,omitempty"`
	TopK       int                 `yaml:"top_k,omitempty"`
}

// SetDefaults applies default values to the vector store config.
func (c *VectorStoreConfig) SetDefaults() {
	if c.Provider == "" {
		c.Provider = VectorStoreProviderMemory
	}
	if c.TopK == 0 {
		c.TopK = 10
	}
}

// Validate checks the vector store config for errors.
func (c *VectorStoreConfig) Validate() error {
	switch c.Provider {
	case VectorStoreProviderQdrant:
		if c.URL == "" {
			return fmt.Errorf("qdrant vector store requires a url")
		}
		if c.Collection == "" {
			return fmt.Errorf("qdrant vector store requires a collection")
		}
	case VectorStoreProviderMemory, "":
	default:
		return fmt.Errorf("unsupported vector store provider %q", c.Provider)
	}
	if c.TopK < 0 {
		return fmt.Errorf("top_k must be non-negative, got %d", c.TopK)
	}
	return nil
}

// AgentsConfig toggles the optional agents of the pipeline (§4.1, §9).
// The core agents (DataInspector, PlanningAgent, PatternGenerator,
// Extractor, SynthesisCoordinator) are always registered.
type AgentsConfig struct {
	WebSearch      WebSearchAgentConfig `yaml:"web_search,omitempty"`
	ResponseFormat bool                 `yaml:"response_formatter,omitempty"`
}

// WebSearchAgentConfig configures the optional WebSearchAgent.
type WebSearchAgentConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	APIKey  string `yaml:"api_key,omitempty"`
	TopK    int    `yaml:"top_k,omitempty"`
}

// OrchestratorConfig holds the decision-loop limits (§4.1.1). They are
// defaulted and validated here, but orchestrator.New does not take them:
// the orchestrator uses its own fixed caps of 15 iterations, 2 reruns and
// 2 quality retries per agent.
type OrchestratorConfig struct {
	MaxIterations int `yaml:"max_iterations,omitempty"`
	MaxRerunCount int `yaml:"max_rerun_count,omitempty"`
	MaxRetryCount int `yaml:"max_retry_count,omitempty"`
}

// SetDefaults applies default values to the orchestrator config.
func (c *OrchestratorConfig) SetDefaults() {
	if c.MaxIterations == 0 {
		c.MaxIterations = 15
	}
	if c.MaxRerunCount == 0 {
		c.MaxRerunCount = 2
	}
	if c.MaxRetryCount == 0 {
		c.MaxRetryCount = 2
	}
}

// Validate checks the orchestrator config for errors.
func (c *OrchestratorConfig) Validate() error {
	if c.MaxIterations < 1 {
		return fmt.Errorf("max_iterations must be at least 1, got %d", c.MaxIterations)
	}
	if c.MaxRerunCount < 0 {
		return fmt.Errorf("max_rerun_count must be non-negative, got %d", c.MaxRerunCount)
	}
	if c.MaxRetryCount < 0 {
		return fmt.Errorf("max_retry_count must be non-negative, got %d", c.MaxRetryCount)
	}
	return nil
}

// LoggerConfig configures structured logging.
type LoggerConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// TracingConfig toggles OpenTelemetry span sampling for agent invocations.
type TracingConfig struct {
	Enabled      bool    `yaml:"enabled,omitempty"`
	SamplingRate float64 `yaml:"sampling_rate,omitempty"`
}

// SetDefaults applies default values to the logger config.
func (c *LoggerConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "text"
	}
}

// Validate checks the logger config for errors.
func (c *LoggerConfig) Validate() error {
	switch strings.ToLower(c.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported logger level %q", c.Level)
	}
	switch strings.ToLower(c.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported logger format %q", c.Format)
	}
	return nil
}

// SetDefaults applies default values across the whole config tree.
func (c *Config) SetDefaults() {
	c.Advisor.SetDefaults()
	c.VectorStore.SetDefaults()
	c.Orchestrator.SetDefaults()
	c.Logger.SetDefaults()
}

// Validate checks the configuration for errors, aggregating every
// section's complaint rather than stopping at the first one.
func (c *Config) Validate() error {
	var errs []string

	if err := c.Advisor.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("advisor: %v", err))
	}
	if err := c.VectorStore.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("vector_store: %v", err))
	}
	if err := c.Orchestrator.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("orchestrator: %v", err))
	}
	if err := c.Logger.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("logger: %v", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// LoadConfigFromString parses raw YAML into a Config, expanding
// environment variable references and applying defaults before
// validation.
func LoadConfigFromString(raw string) (*Config, error) {
	expanded := expandEnvVars(raw)

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfig loads .env files (if present), then reads and parses the
// YAML config file at path.
func LoadConfig(path string) (*Config, error) {
	if err := LoadEnvFiles(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return LoadConfigFromString(string(data))
}
