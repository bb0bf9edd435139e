package driven

import "context"

// EmbeddingService generates vector embeddings from text. It is a
// remote capability, not a library call: every invocation may fail
// independently, be rate limited, or be retried by a wrapping adapter.
//
// Implementations include:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Ollama (nomic-embed-text, all-minilm)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size (e.g., 768, 1536, 3072).
	// Fixed by the model for the lifetime of an index; must match what
	// the vector store was initialised with.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	// Used at startup so a misconfigured provider fails before any
	// mutation is attempted.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
