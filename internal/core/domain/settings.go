package domain

import (
	"fmt"
	"time"
)

// Embedding provider identifiers.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Defaults for run configuration.
const (
	DefaultProvider    = ProviderOpenAI
	DefaultConcurrency = 4
	DefaultMaxAttempts = 5
	DefaultRateLimit   = 2.0 // provider requests per second
)

// EmbeddingSettings configures the embedding provider adapter.
type EmbeddingSettings struct {
	// Provider selects the adapter: "openai" or "ollama".
	Provider string

	// APIKey authenticates against hosted providers. Ignored by Ollama.
	APIKey string

	// BaseURL overrides the provider endpoint (Azure, proxies, local).
	BaseURL string

	// Model is the embedding model name.
	Model string

	// Dimensions overrides the model's default vector size.
	Dimensions int

	// Timeout bounds each provider call.
	Timeout time.Duration

	// RateLimit caps provider calls per second. Zero disables throttling.
	RateLimit float64

	// MaxAttempts caps retries of transient provider errors.
	MaxAttempts int
}

// Settings is the one-time configuration snapshot for a run. It is
// assembled at startup from the config file, flags and environment,
// then threaded explicitly into every component constructor; no other
// process-wide state exists.
type Settings struct {
	// Root is the corpus directory containing markdown documents.
	Root string

	// StorePath is the SQLite vector store location.
	StorePath string

	// Exclude holds doublestar glob patterns, matched against the
	// slash-form relative path, for documents to leave out of the corpus.
	Exclude []string

	// Limit is the admission-policy content limit in bytes.
	Limit int

	// Concurrency bounds simultaneous provider and store calls.
	Concurrency int

	Embedding EmbeddingSettings
}

// DefaultSettings returns a Settings with every default applied.
// Root and StorePath have no defaults and must be provided.
func DefaultSettings() Settings {
	return Settings{
		Limit:       DefaultContentLimit,
		Concurrency: DefaultConcurrency,
		Embedding: EmbeddingSettings{
			Provider:    DefaultProvider,
			RateLimit:   DefaultRateLimit,
			MaxAttempts: DefaultMaxAttempts,
		},
	}
}

// Validate checks the snapshot before any work starts. All violations
// wrap ErrConfig.
func (s Settings) Validate() error {
	if s.Root == "" {
		return fmt.Errorf("%w: corpus root is required", ErrConfig)
	}
	if s.StorePath == "" {
		return fmt.Errorf("%w: store path is required", ErrConfig)
	}
	if s.Limit <= 0 {
		return fmt.Errorf("%w: content limit must be positive, got %d", ErrConfig, s.Limit)
	}
	if s.Concurrency <= 0 {
		return fmt.Errorf("%w: concurrency must be positive, got %d", ErrConfig, s.Concurrency)
	}
	switch s.Embedding.Provider {
	case ProviderOpenAI:
		if s.Embedding.APIKey == "" {
			return fmt.Errorf("%w: OpenAI API key is required (flag, config file or OPENAI_API_KEY)", ErrConfig)
		}
	case ProviderOllama:
		// Local provider, no credentials.
	default:
		return fmt.Errorf("%w: unknown embedding provider %q", ErrConfig, s.Embedding.Provider)
	}
	if s.Embedding.MaxAttempts <= 0 {
		return fmt.Errorf("%w: max attempts must be positive, got %d", ErrConfig, s.Embedding.MaxAttempts)
	}
	return nil
}
