// Package embedding wires embedding provider adapters: a factory that
// builds the configured provider and a decorator adding throttling and
// bounded retry of transient failures.
package embedding

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/vecsync/internal/core/domain"
	"github.com/custodia-labs/vecsync/internal/core/ports/driven"
	"github.com/custodia-labs/vecsync/internal/logger"
)

// Ensure RetryingService implements the interface.
var _ driven.EmbeddingService = (*RetryingService)(nil)

// Backoff bounds.
const (
	defaultBaseDelay = 500 * time.Millisecond
	maxDelay         = 30 * time.Second
)

// RetryingService wraps an EmbeddingService with proactive token-bucket
// throttling and exponential-backoff retry of transient errors. Rate
// limits and timeouts are retried up to the attempt cap; auth failures
// and malformed input fail immediately.
type RetryingService struct {
	inner       driven.EmbeddingService
	limiter     *rate.Limiter
	maxAttempts int
	baseDelay   time.Duration
}

// WithRetry decorates svc. requestsPerSecond <= 0 disables throttling;
// maxAttempts < 1 is treated as a single attempt.
func WithRetry(svc driven.EmbeddingService, requestsPerSecond float64, maxAttempts int) *RetryingService {
	var limiter *rate.Limiter
	if requestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &RetryingService{
		inner:       svc,
		limiter:     limiter,
		maxAttempts: maxAttempts,
		baseDelay:   defaultBaseDelay,
	}
}

// Embed calls the wrapped provider, retrying transient failures with
// exponential backoff until the attempt cap is reached.
func (s *RetryingService) Embed(ctx context.Context, text string) ([]float32, error) {
	var lastErr error

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := s.backoff(attempt)
			logger.Debug("Retrying embed in %s (attempt %d/%d): %v", delay, attempt+1, s.maxAttempts, lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		embedding, err := s.inner.Embed(ctx, text)
		if err == nil {
			return embedding, nil
		}
		if !domain.IsRetryable(err) {
			return nil, err
		}
		lastErr = err
	}

	return nil, lastErr
}

// backoff returns the delay before the given retry attempt, doubling
// from baseDelay and capped at maxDelay.
func (s *RetryingService) backoff(attempt int) time.Duration {
	delay := s.baseDelay << (attempt - 1)
	if delay > maxDelay || delay <= 0 {
		return maxDelay
	}
	return delay
}

// Dimensions returns the wrapped provider's vector size.
func (s *RetryingService) Dimensions() int {
	return s.inner.Dimensions()
}

// ModelName returns the wrapped provider's model name.
func (s *RetryingService) ModelName() string {
	return s.inner.ModelName()
}

// Ping validates the wrapped provider is reachable.
func (s *RetryingService) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close releases the wrapped provider's resources.
func (s *RetryingService) Close() error {
	return s.inner.Close()
}
