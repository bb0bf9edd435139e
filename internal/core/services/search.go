package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/vecsync/internal/core/domain"
	"github.com/custodia-labs/vecsync/internal/core/ports/driven"
	"github.com/custodia-labs/vecsync/internal/core/ports/driving"
)

// DefaultTopK is the number of hits returned when the caller does not ask
// for a specific count.
const DefaultTopK = 5

// Ensure SearchService implements the interface.
var _ driving.Searcher = (*SearchService)(nil)

// SearchService answers similarity queries by embedding the query text
// and delegating the nearest-neighbour lookup to the vector store.
type SearchService struct {
	embedder driven.EmbeddingService
	store    driven.VectorStore
}

// NewSearchService creates a search service.
func NewSearchService(embedder driven.EmbeddingService, store driven.VectorStore) *SearchService {
	return &SearchService{embedder: embedder, store: store}
}

// Search returns the top-k documents nearest to the query.
func (s *SearchService) Search(ctx context.Context, query string, k int) ([]domain.SearchHit, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrConfig)
	}
	if k <= 0 {
		k = DefaultTopK
	}

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.store.Search(ctx, embedding, k)
	if err != nil {
		return nil, fmt.Errorf("search store: %w", err)
	}
	return hits, nil
}
