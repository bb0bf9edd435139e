// Package sqlite provides the SQLite-backed vector store adapter.
// Records are keyed by document identity; embeddings are stored as
// little-endian float32 blobs and similarity queries run a brute-force
// cosine scan, which is plenty for corpus-sized indexes.
package sqlite
