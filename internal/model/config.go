package model

// Config is the full runtime configuration. Defaults come from
// DefaultConfig; viper overlays config file and COUNSELOR_* env vars;
// CLI flags override both.
type Config struct {
	KB          KBConfig          `yaml:"kb" mapstructure:"kb"`
	Extract     ExtractConfig     `yaml:"extract" mapstructure:"extract"`
	Retrieval   RetrievalConfig   `yaml:"retrieval" mapstructure:"retrieval"`
	Embedding   EmbeddingConfig   `yaml:"embedding" mapstructure:"embedding"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// KBConfig locates the four knowledge base documents.
type KBConfig struct {
	CategoriesPath  string `yaml:"categories" mapstructure:"categories"`
	DefinitionsPath string `yaml:"definitions" mapstructure:"definitions"`
	SchedulesPath   string `yaml:"schedules" mapstructure:"schedules"`
	SubsidiaryPath  string `yaml:"subsidiary" mapstructure:"subsidiary"`
}

// ExtractConfig tunes term extraction.
type ExtractConfig struct {
	MaxTerms      int     `yaml:"max_terms" mapstructure:"max_terms"`
	NERConfidence float64 `yaml:"ner_confidence" mapstructure:"ner_confidence"`
}

// RetrievalConfig tunes category matching. The threshold and cap are
// policy knobs, not canonical constants; tests only assert relative
// ranking behavior.
type RetrievalConfig struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold" mapstructure:"similarity_threshold"`
	MaxCategories       int     `yaml:"max_categories" mapstructure:"max_categories"`
}

// EmbeddingConfig selects and tunes the embedding provider.
type EmbeddingConfig struct {
	Provider string `yaml:"provider" mapstructure:"provider"` // "openai", "ollama"
	Model    string `yaml:"model" mapstructure:"model"`
	APIKey   string `yaml:"-" mapstructure:"-"`
	BaseURL  string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout  int    `yaml:"timeout" mapstructure:"timeout"` // seconds

	CacheEnabled bool   `yaml:"cache_enabled" mapstructure:"cache_enabled"`
	CacheDir     string `yaml:"cache_dir,omitempty" mapstructure:"cache_dir"`
	CacheTTL     int    `yaml:"cache_ttl" mapstructure:"cache_ttl"` // hours
}

// LLMConfig selects and tunes the generative backend.
type LLMConfig struct {
	Provider string `yaml:"provider" mapstructure:"provider"` // "openai", "anthropic", "ollama"
	Model    string `yaml:"model" mapstructure:"model"`
	APIKey   string `yaml:"-" mapstructure:"-"` // env only, never persisted
	BaseURL  string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout  int    `yaml:"timeout" mapstructure:"timeout"` // seconds

	MaxTokens int `yaml:"max_tokens" mapstructure:"max_tokens"`
	// MaxParseRetries bounds the stricter re-prompt attempts after
	// malformed output. 1 means at most one retry before surfacing.
	MaxParseRetries int `yaml:"max_parse_retries" mapstructure:"max_parse_retries"`
}

// ConcurrencyConfig controls batch workers and backend rate limiting.
type ConcurrencyConfig struct {
	Workers           int     `yaml:"workers" mapstructure:"workers"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// OutputConfig controls result publication.
type OutputConfig struct {
	Path    string `yaml:"path" mapstructure:"path"`
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		KB: KBConfig{
			CategoriesPath:  "data/categories.json",
			DefinitionsPath: "data/definitions.json",
			SchedulesPath:   "data/schedules.json",
			SubsidiaryPath:  "data/subsidiary.json",
		},
		Extract: ExtractConfig{
			MaxTerms:      15,
			NERConfidence: 0.6,
		},
		Retrieval: RetrievalConfig{
			SimilarityThreshold: 0.30,
			MaxCategories:       3,
		},
		Embedding: EmbeddingConfig{
			Provider:     "openai",
			Timeout:      30,
			CacheEnabled: true,
			CacheTTL:     168, // one week; KB embeddings barely change
		},
		LLM: LLMConfig{
			Provider:        "openai",
			Timeout:         60,
			MaxTokens:       4000,
			MaxParseRetries: 1,
		},
		Concurrency: ConcurrencyConfig{
			Workers:           4,
			RequestsPerSecond: 2,
			Burst:             5,
		},
		Output: OutputConfig{
			Path: "output.json",
		},
	}
}
