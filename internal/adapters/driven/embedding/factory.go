package embedding

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/custodia-labs/vecsync/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/vecsync/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/vecsync/internal/core/domain"
	"github.com/custodia-labs/vecsync/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// NewService builds the configured provider adapter wrapped with
// throttling and retry.
func NewService(settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	var (
		svc driven.EmbeddingService
		err error
	)

	switch settings.Provider {
	case domain.ProviderOpenAI:
		svc, err = openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Timeout:    settings.Timeout,
			Dimensions: settings.Dimensions,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
		}

	case domain.ProviderOllama:
		svc = ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Timeout:    settings.Timeout,
			Dimensions: settings.Dimensions,
		})

	default:
		return nil, fmt.Errorf("%w: unknown embedding provider %q", domain.ErrConfig, settings.Provider)
	}

	return WithRetry(svc, settings.RateLimit, settings.MaxAttempts), nil
}

// NewValidatedService builds the provider and validates connectivity
// before any mutation is attempted.
func NewValidatedService(ctx context.Context, settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := NewService(settings)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("%w: service unreachable: %w", domain.ErrEmbeddingUnavailable, err)
	}
	return svc, nil
}
