package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/tanwk/counselor/internal/analysis"
	"github.com/tanwk/counselor/internal/cache"
	"github.com/tanwk/counselor/internal/embed"
	"github.com/tanwk/counselor/internal/kb"
	"github.com/tanwk/counselor/internal/llm"
	"github.com/tanwk/counselor/internal/model"
	"github.com/tanwk/counselor/internal/ner"
	"github.com/tanwk/counselor/internal/publish"
	"github.com/tanwk/counselor/internal/retrieve"
	"github.com/tanwk/counselor/internal/term"
	"github.com/tanwk/counselor/internal/worker"
)

// loadConfig overlays the config file and environment onto defaults.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}
	cfg.Output.Verbose = cfg.Output.Verbose || verbose
	return cfg, nil
}

// resolveKeys pulls API keys and endpoints from the environment. Keys
// never live in the config file.
func resolveKeys(cfg *model.Config) error {
	switch cfg.LLM.Provider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}

	switch cfg.Embedding.Provider {
	case "openai":
		cfg.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.Embedding.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set (needed for embeddings)")
		}
	case "ollama":
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.Embedding.BaseURL = baseURL
		}
	}
	return nil
}

// pipeline bundles the long-lived request processing components.
type pipeline struct {
	analyzer  *analysis.Analyzer
	publisher *publish.Publisher
	knowledge *kb.KnowledgeBase
}

// buildPipeline wires the full processing pipeline from configuration:
// knowledge base, embedder (with cache), backend provider, recognizer,
// extractor, builder, rate limiter, analyzer and publisher.
func buildPipeline(cfg *model.Config) (*pipeline, error) {
	if err := resolveKeys(cfg); err != nil {
		return nil, err
	}

	knowledge, err := kb.Load(cfg.KB)
	if err != nil {
		return nil, fmt.Errorf("knowledge base: %w", err)
	}
	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Knowledge base loaded: %d categories, %d provisions, %d definitions, %d schedules\n",
			len(knowledge.Categories), knowledge.ProvisionCount(), len(knowledge.Definitions), len(knowledge.Schedules))
	}

	embedder, err := embed.NewEmbedder(embed.ConfigFromModel(cfg.Embedding))
	if err != nil {
		return nil, fmt.Errorf("embedding provider: %w", err)
	}
	if cfg.Embedding.CacheEnabled {
		cacheDir := cfg.Embedding.CacheDir
		if cacheDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("resolve cache dir: %w", err)
			}
			cacheDir = filepath.Join(home, ".counselor", "cache")
		}
		ttl := time.Duration(cfg.Embedding.CacheTTL) * time.Hour
		layered := cache.NewLayeredCache(ttl, cacheDir, ttl)
		embedder = embed.NewCachedEmbedder(embedder, cfg.Embedding.Model, layered, ttl)
	}

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("LLM provider: %w", err)
	}

	extractor := term.NewExtractor(ner.New(provider), cfg.Extract)
	builder := retrieve.NewBuilder(knowledge, embedder, cfg.Retrieval)
	limiter := worker.NewLimiter(cfg.Concurrency.RequestsPerSecond, cfg.Concurrency.Burst)
	analyzer := analysis.New(extractor, builder, provider, limiter, cfg.LLM, cfg.Output.Verbose)

	return &pipeline{
		analyzer:  analyzer,
		publisher: publish.NewPublisher(cfg.Output.Path),
		knowledge: knowledge,
	}, nil
}
