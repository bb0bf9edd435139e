package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vecsync/internal/core/domain"
)

func record(path, content string, embedding []float32) domain.Record {
	return domain.Record{
		Identity:    domain.IdentityOf(path),
		Path:        path,
		Content:     content,
		Fingerprint: domain.Fingerprint(content),
		Embedding:   embedding,
	}
}

func TestVectorStore_UpsertListDelete(t *testing.T) {
	store := NewVectorStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, record("a.md", "hello", []float32{1, 0})))
	require.NoError(t, store.Upsert(ctx, record("a.md", "hello v2", []float32{0, 1})))
	require.NoError(t, store.Upsert(ctx, record("b.md", "world", []float32{1, 1})))

	fingerprints, err := store.ListFingerprints(ctx)
	require.NoError(t, err)
	require.Len(t, fingerprints, 2)
	assert.Equal(t, domain.Fingerprint("hello v2"), fingerprints[domain.IdentityOf("a.md")])

	require.NoError(t, store.Delete(ctx, domain.IdentityOf("a.md")))
	require.NoError(t, store.Delete(ctx, domain.IdentityOf("a.md"))) // idempotent
	assert.Equal(t, 1, store.Len())
}

func TestVectorStore_Search(t *testing.T) {
	store := NewVectorStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, record("x.md", "x", []float32{1, 0})))
	require.NoError(t, store.Upsert(ctx, record("y.md", "y", []float32{0, 1})))

	hits, err := store.Search(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "x.md", hits[0].Path)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-9)
}

func TestVectorStore_Search_DimensionMismatch(t *testing.T) {
	store := NewVectorStore()
	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, record("a.md", "hello", []float32{1, 0})))

	_, err := store.Search(ctx, []float32{1, 0, 0}, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrModelMismatch)
}
