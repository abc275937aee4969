// Command research is the CLI for the deep-research engine.
//
// Usage:
//
//	research run --config config.yaml --query "..." --chunks chunks.json
//	research validate --config config.yaml
//	research version
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/invopop/jsonschema"

	"github.com/dax8it/deepresearch-core/agent"
	"github.com/dax8it/deepresearch-core/config"
	"github.com/dax8it/deepresearch-core/llmadvisor"
	"github.com/dax8it/deepresearch-core/orchestrator"
	"github.com/dax8it/deepresearch-core/progress"
	"github.com/dax8it/deepresearch-core/researchctx"
	"github.com/dax8it/deepresearch-core/vectorstore"
)

// CLI defines the command-line interface.
type CLI struct {
	Version  VersionCmd  `cmd:"" help:"Show version information."`
	Run      RunCmd      `cmd:"" help:"Run a research query against a set of chunks."`
	Validate ValidateCmd `cmd:"" help:"Validate a configuration file."`
	Schema   SchemaCmd   `cmd:"" help:"Generate JSON Schema for the config file."`

	Config   string `short:"c" help:"Path to config file." type:"path"`
	LogLevel string `help:"Log level (debug, info, warn, error)." default:"info"`
}

// VersionCmd shows version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	version := "dev"
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "(devel)" && info.Main.Version != "" {
			version = info.Main.Version
		}
	}
	fmt.Printf("deepresearch-core version %s\n", version)
	return nil
}

// ValidateCmd validates a configuration file without running anything.
type ValidateCmd struct{}

func (c *ValidateCmd) Run(cli *CLI) error {
	if cli.Config == "" {
		return fmt.Errorf("--config is required")
	}
	if _, err := config.LoadConfig(cli.Config); err != nil {
		return err
	}
	fmt.Println("config OK")
	return nil
}

// SchemaCmd generates a JSON Schema from the Config struct, for editors
// and config-builder UIs that want inline validation.
type SchemaCmd struct {
	Compact bool `short:"c" help:"Compact JSON output (no indentation)."`
}

func (c *SchemaCmd) Run(cli *CLI) error {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schema := reflector.Reflect(&config.Config{})
	schema.ID = "https://deepresearch.dev/schemas/config.json"
	schema.Title = "Deep Research Configuration Schema"
	schema.Description = "Configuration schema for the deep-research engine"

	var (
		out []byte
		err error
	)
	if c.Compact {
		out, err = json.Marshal(schema)
	} else {
		out, err = json.MarshalIndent(schema, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// RunCmd runs a single research query end-to-end.
type RunCmd struct {
	Query      string `help:"The research question to answer." required:""`
	ChunksFile string `name:"chunks" help:"Path to a JSON file containing an array of researchctx.Chunk." type:"path"`
}

func (c *RunCmd) Run(cli *CLI) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		slog.Warn("shutting down")
		cancel()
	}()

	logger := newLogger(cli.LogLevel)

	cfg := &config.Config{}
	if cli.Config != "" {
		loaded, err := config.LoadConfig(cli.Config)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	} else {
		cfg.SetDefaults()
	}

	if _, err := progress.InitGlobalTracer(ctx, progress.TracingConfig{
		Enabled:      cfg.Tracing.Enabled,
		ServiceName:  "deepresearch",
		SamplingRate: cfg.Tracing.SamplingRate,
	}); err != nil {
		return fmt.Errorf("failed to initialize tracer: %w", err)
	}

	chunks, err := loadChunks(c.ChunksFile)
	if err != nil {
		return fmt.Errorf("failed to load chunks: %w", err)
	}

	advisor, err := buildAdvisor(cfg.Advisor)
	if err != nil {
		return fmt.Errorf("failed to build advisor: %w", err)
	}

	store, err := buildVectorStore(cfg.VectorStore, chunks)
	if err != nil {
		return fmt.Errorf("failed to build vector store: %w", err)
	}

	reg, err := buildRegistry(cfg, advisor, store)
	if err != nil {
		return fmt.Errorf("failed to build agent registry: %w", err)
	}

	recorder := progress.NewPrometheusRecorder()
	tracker := progress.NewTracker(progress.Noop{}, recorder, logger)

	orch := orchestrator.New(reg, advisor, store, tracker, logger)

	answer, err := orch.Research(ctx, c.Query, chunks)
	if err != nil {
		return fmt.Errorf("research run failed: %w", err)
	}

	fmt.Println(answer)
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler)
}

func loadChunks(path string) ([]researchctx.Chunk, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var chunks []researchctx.Chunk
	if err := json.Unmarshal(data, &chunks); err != nil {
		return nil, fmt.Errorf("parse chunks file: %w", err)
	}
	return chunks, nil
}

func buildAdvisor(cfg config.AdvisorConfig) (llmadvisor.Advisor, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}
	temperature := 0.2
	if cfg.Temperature != nil {
		temperature = *cfg.Temperature
	}
	switch cfg.Provider {
	case config.AdvisorProviderAnthropic, "":
		return llmadvisor.NewAnthropicAdvisor(llmadvisor.AnthropicConfig{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			BaseURL:     cfg.BaseURL,
			Temperature: temperature,
			MaxTokens:   cfg.MaxTokens,
		}), nil
	default:
		return nil, fmt.Errorf("advisor provider %q has no wired implementation; supply an Advisor via the library API instead", cfg.Provider)
	}
}

// buildVectorStore wires the configured adapter. Qdrant requires an
// embedding function the CLI has no generic way to obtain, so it is
// left to library callers; the CLI itself only drives the in-memory
// adapter seeded from the --chunks file.
func buildVectorStore(cfg config.VectorStoreConfig, chunks []researchctx.Chunk) (vectorstore.Adapter, error) {
	switch cfg.Provider {
	case config.VectorStoreProviderQdrant:
		return nil, fmt.Errorf("qdrant vector store requires an embedder; wire vectorstore.NewQdrantAdapter directly via the library API")
	case config.VectorStoreProviderMemory, "":
		return vectorstore.NewMemory(chunks), nil
	default:
		return nil, fmt.Errorf("unsupported vector store provider %q", cfg.Provider)
	}
}

func buildRegistry(cfg *config.Config, advisor llmadvisor.Advisor, store vectorstore.Adapter) (*agent.Registry, error) {
	reg := agent.NewRegistry()

	core := []agent.Agent{
		agent.NewDataInspector(advisor),
		agent.NewPlanningAgent(advisor),
		agent.NewPatternGenerator(advisor, store),
		agent.NewExtractor(advisor),
		agent.NewSynthesisCoordinator(advisor),
	}
	for _, ag := range core {
		if err := reg.RegisterAgent(ag, "core"); err != nil {
			return nil, err
		}
	}

	if cfg.Agents.WebSearch.Enabled {
		if err := reg.RegisterAgent(agent.NewWebSearchAgent(nil), "optional"); err != nil {
			return nil, err
		}
	}
	if cfg.Agents.ResponseFormat {
		if err := reg.RegisterAgent(agent.NewResponseFormatter(), "optional"); err != nil {
			return nil, err
		}
	}

	return reg, nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("research"),
		kong.Description("Multi-agent deep-research engine CLI."),
		kong.UsageOnError(),
	)
	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
