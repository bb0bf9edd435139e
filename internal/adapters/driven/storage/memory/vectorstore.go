// Package memory provides in-memory adapter implementations, used in
// tests and anywhere persistence is not wanted.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/vecsync/internal/core/domain"
	"github.com/custodia-labs/vecsync/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore is an in-memory implementation of driven.VectorStore.
type VectorStore struct {
	mu      sync.RWMutex
	records map[string]domain.Record
}

// NewVectorStore creates a new in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{
		records: make(map[string]domain.Record),
	}
}

// Upsert creates or overwrites the record for record.Identity.
func (s *VectorStore) Upsert(_ context.Context, record domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.Identity] = record
	return nil
}

// Delete removes the record for identity; missing identities are fine.
func (s *VectorStore) Delete(_ context.Context, identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, identity)
	return nil
}

// ListFingerprints returns the identity -> fingerprint mapping.
func (s *VectorStore) ListFingerprints(_ context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fingerprints := make(map[string]string, len(s.records))
	for identity, record := range s.records {
		fingerprints[identity] = record.Fingerprint
	}
	return fingerprints, nil
}

// Search returns the k nearest records by cosine similarity.
func (s *VectorStore) Search(_ context.Context, query []float32, k int) ([]domain.SearchHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var hits []domain.SearchHit
	for _, record := range s.records {
		if len(record.Embedding) != len(query) {
			return nil, fmt.Errorf("%w: stored vector has %d dimensions, query has %d",
				domain.ErrModelMismatch, len(record.Embedding), len(query))
		}
		hits = append(hits, domain.SearchHit{
			Identity:   record.Identity,
			Path:       record.Path,
			Content:    record.Content,
			Similarity: cosine(query, record.Embedding),
		})
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].Similarity > hits[j].Similarity })
	if k > 0 && len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Close releases resources.
func (s *VectorStore) Close() error {
	return nil
}

// Get returns a stored record, for test assertions.
func (s *VectorStore) Get(identity string) (domain.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[identity]
	return record, ok
}

// Len returns the number of stored records.
func (s *VectorStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func cosine(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
