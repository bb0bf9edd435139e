package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/vecsync/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/vecsync/internal/core/domain"
	"github.com/custodia-labs/vecsync/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Metadata keys pinned at store initialisation.
const (
	metaModel      = "embedding_model"
	metaDimensions = "embedding_dimensions"
)

// Store is the SQLite-backed vector store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if needed) the store at dbPath and pins it to
// the given embedding model and dimensionality. Opening a store that was
// built with a different model or vector size fails with
// domain.ErrModelMismatch.
func NewStore(dbPath, model string, dimensions int) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("%w: store path is required", domain.ErrConfig)
	}

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	if err := s.checkIndexMeta(model, dimensions); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Upsert creates or overwrites the record for record.Identity. The
// single-statement upsert keeps the overwrite atomic to readers.
func (s *Store) Upsert(ctx context.Context, record domain.Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO records (identity, path, content, fingerprint, embedding, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(identity) DO UPDATE SET
			path = excluded.path,
			content = excluded.content,
			fingerprint = excluded.fingerprint,
			embedding = excluded.embedding,
			updated_at = excluded.updated_at
	`, record.Identity, record.Path, record.Content, record.Fingerprint,
		float32SliceToBytes(record.Embedding))
	if err != nil {
		return fmt.Errorf("upserting record: %w", err)
	}
	return nil
}

// Delete removes the record for identity. Deleting an identity that does
// not exist is not an error.
func (s *Store) Delete(ctx context.Context, identity string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE identity = ?`, identity); err != nil {
		return fmt.Errorf("deleting record: %w", err)
	}
	return nil
}

// ListFingerprints returns the full identity -> fingerprint mapping.
func (s *Store) ListFingerprints(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT identity, fingerprint FROM records`)
	if err != nil {
		return nil, fmt.Errorf("listing fingerprints: %w", err)
	}
	defer rows.Close()

	fingerprints := make(map[string]string)
	for rows.Next() {
		var identity, fingerprint string
		if err := rows.Scan(&identity, &fingerprint); err != nil {
			return nil, fmt.Errorf("scanning fingerprint row: %w", err)
		}
		fingerprints[identity] = fingerprint
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading fingerprint rows: %w", err)
	}
	return fingerprints, nil
}

// Search scans every stored embedding and returns the k records nearest
// to the query vector by cosine similarity, best first.
func (s *Store) Search(ctx context.Context, query []float32, k int) ([]domain.SearchHit, error) {
	if k <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `SELECT identity, path, content, embedding FROM records`)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var hits []domain.SearchHit
	for rows.Next() {
		var hit domain.SearchHit
		var blob []byte
		if err := rows.Scan(&hit.Identity, &hit.Path, &hit.Content, &blob); err != nil {
			return nil, fmt.Errorf("scanning record row: %w", err)
		}
		embedding := bytesToFloat32Slice(blob)
		if len(embedding) != len(query) {
			return nil, fmt.Errorf("%w: stored vector has %d dimensions, query has %d",
				domain.ErrModelMismatch, len(embedding), len(query))
		}
		hit.Similarity = cosineSimilarity(query, embedding)
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading record rows: %w", err)
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].Similarity > hits[j].Similarity })
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// checkIndexMeta records the embedding model and dimensionality on first
// use, and rejects any later run configured differently.
func (s *Store) checkIndexMeta(model string, dimensions int) error {
	storedModel, err := s.getMeta(metaModel)
	if err != nil {
		return err
	}
	storedDims, err := s.getMeta(metaDimensions)
	if err != nil {
		return err
	}

	if storedModel == "" && storedDims == "" {
		if err := s.setMeta(metaModel, model); err != nil {
			return err
		}
		return s.setMeta(metaDimensions, strconv.Itoa(dimensions))
	}

	if storedModel != model {
		return fmt.Errorf("%w: store built with model %q, run configured for %q",
			domain.ErrModelMismatch, storedModel, model)
	}
	if storedDims != strconv.Itoa(dimensions) {
		return fmt.Errorf("%w: store built with %s dimensions, run configured for %d",
			domain.ErrModelMismatch, storedDims, dimensions)
	}
	return nil
}

// getMeta reads one index_meta value; missing keys return "".
func (s *Store) getMeta(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM index_meta WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading index meta %s: %w", key, err)
	}
	return value, nil
}

// setMeta writes one index_meta value.
func (s *Store) setMeta(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO index_meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("writing index meta %s: %w", key, err)
	}
	return nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}
		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// cosineSimilarity computes the cosine of the angle between two vectors
// of equal length. Zero vectors score zero.
func cosineSimilarity(a, b []float32) float64 {
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
