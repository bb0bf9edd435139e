package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConfig indicates invalid run configuration: a bad corpus root,
	// missing credentials, or an unusable settings file. Fatal before
	// any work starts.
	ErrConfig = errors.New("invalid configuration")

	// ErrStateLoad indicates the remote fingerprint listing could not be
	// obtained. Fatal before any mutation: reconciling against a partial
	// or stale remote view risks spurious deletes.
	ErrStateLoad = errors.New("remote state unavailable")

	// ErrRateLimited indicates the embedding provider rejected a call for
	// rate-limit reasons. Transient: calls wrapping it are retried.
	ErrRateLimited = errors.New("rate limited")

	// ErrTransient indicates a provider or network condition worth
	// retrying (timeout, connection reset, 5xx response).
	ErrTransient = errors.New("transient provider error")

	// ErrModelMismatch indicates the store was built with a different
	// embedding model or dimensionality than this run is configured for.
	// Mixing embedding spaces in one index produces garbage similarity
	// scores, so this is fatal at store open.
	ErrModelMismatch = errors.New("embedding model mismatch")

	// ErrEmbeddingUnavailable indicates the embedding provider is not
	// configured or unreachable.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)

// IsRetryable reports whether an embedding-provider error should be
// retried with backoff. Auth failures and malformed input are permanent
// and fail the item immediately.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrTransient)
}
