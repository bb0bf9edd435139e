// Package filesystem reads a markdown corpus from a local directory
// tree and watches it for changes.
package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/custodia-labs/vecsync/internal/core/domain"
	"github.com/custodia-labs/vecsync/internal/core/ports/driven"
	"github.com/custodia-labs/vecsync/internal/logger"
)

// Ensure Reader implements the interface.
var _ driven.CorpusReader = (*Reader)(nil)

// markdownExt is the only document format recognised by the walk.
const markdownExt = ".md"

// Reader walks a directory tree and yields every markdown file as a
// document. Paths are reported relative to the root in slash form so
// identities are stable across machines.
type Reader struct {
	root    string
	exclude []string
}

// NewReader creates a corpus reader for the given root directory.
// Exclude patterns use doublestar globs matched against the slash-form
// relative path, e.g. "drafts/**" or "**/README.md".
func NewReader(root string, exclude []string) *Reader {
	return &Reader{root: root, exclude: exclude}
}

// Read walks the tree and returns the corpus snapshot. An unusable root
// wraps domain.ErrConfig; individual unreadable files are collected in
// Corpus.Unreadable and do not fail the walk.
func (r *Reader) Read(ctx context.Context) (*domain.Corpus, error) {
	info, err := os.Stat(r.root)
	if err != nil {
		return nil, fmt.Errorf("%w: corpus root %q: %v", domain.ErrConfig, r.root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: corpus root %q is not a directory", domain.ErrConfig, r.root)
	}

	corpus := &domain.Corpus{}

	err = filepath.WalkDir(r.root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			// An unreadable subdirectory is a per-path failure, not fatal.
			rel := r.relativeOf(path)
			corpus.Unreadable = append(corpus.Unreadable, domain.ReadFailure{Path: rel, Err: walkErr})
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), markdownExt) {
			return nil
		}

		rel := r.relativeOf(path)
		if r.excluded(rel) {
			logger.Debug("Excluded: %s", rel)
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			corpus.Unreadable = append(corpus.Unreadable, domain.ReadFailure{Path: rel, Err: err})
			return nil
		}

		corpus.Documents = append(corpus.Documents, domain.Document{
			Identity: domain.IdentityOf(rel),
			Path:     rel,
			Content:  string(content),
			Size:     len(content),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk corpus: %w", err)
	}

	logger.Info("Corpus: %d documents, %d unreadable", len(corpus.Documents), len(corpus.Unreadable))
	return corpus, nil
}

// relativeOf converts an absolute walk path to the slash-form relative
// path used for identities.
func (r *Reader) relativeOf(path string) string {
	rel, err := filepath.Rel(r.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// excluded reports whether a relative path matches any exclude pattern.
// A malformed pattern counts as no match.
func (r *Reader) excluded(rel string) bool {
	for _, pattern := range r.exclude {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}
