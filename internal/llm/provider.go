package llm

import (
	"context"

	"github.com/tanwk/counselor/internal/model"
)

// Provider defines the interface for generative text-completion backends.
// The backend is treated as unreliable: it may be slow, unavailable, or
// return malformed text. Callers own parsing and validation.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete submits a prompt and returns the raw generated text
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest contains the input for a completion call.
type CompletionRequest struct {
	// System sets the assistant role (e.g. the legal analyst persona)
	System string

	// Prompt is the full user prompt including query and legal context
	Prompt string

	// Model overrides the configured model (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int

	// Temperature controls sampling; low values keep analysis focused
	Temperature float32
}

// CompletionResponse contains the backend's raw output.
type CompletionResponse struct {
	// Text is the generated text, possibly malformed
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds generative backend configuration.
type Config struct {
	// Provider name: "openai", "anthropic", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:  "openai",
		Timeout:   60,
		MaxTokens: 4000,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config.
func ConfigFromModel(mc model.LLMConfig) Config {
	return Config{
		Provider:  mc.Provider,
		Model:     mc.Model,
		APIKey:    mc.APIKey,
		BaseURL:   mc.BaseURL,
		Timeout:   mc.Timeout,
		MaxTokens: mc.MaxTokens,
	}
}
