package driven

import (
	"context"

	"github.com/custodia-labs/vecsync/internal/core/domain"
)

// VectorStore is the record-oriented store keyed by document identity.
// Each mutation is a single logical operation on one identity; the
// store's own consistency model makes upserts atomic to readers.
type VectorStore interface {
	// Upsert creates or overwrites the record for record.Identity.
	Upsert(ctx context.Context, record domain.Record) error

	// Delete removes the record for identity. Deleting an identity that
	// does not exist is not an error.
	Delete(ctx context.Context, identity string) error

	// ListFingerprints returns the full identity -> fingerprint mapping
	// currently stored. It either succeeds completely or fails; a
	// partial listing is never returned, since reconciling against one
	// could produce spurious deletes.
	ListFingerprints(ctx context.Context) (map[string]string, error)

	// Search returns the k records nearest to the query vector, ordered
	// by descending cosine similarity.
	Search(ctx context.Context, query []float32, k int) ([]domain.SearchHit, error)

	// Close releases resources.
	Close() error
}
