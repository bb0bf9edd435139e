package driving

import (
	"context"

	"github.com/custodia-labs/vecsync/internal/core/domain"
)

// Searcher answers similarity queries over the synced index.
type Searcher interface {
	// Search embeds the query text and returns the top-k nearest
	// documents by cosine similarity.
	Search(ctx context.Context, query string, k int) ([]domain.SearchHit, error)
}
