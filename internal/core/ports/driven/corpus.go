package driven

import (
	"context"

	"github.com/custodia-labs/vecsync/internal/core/domain"
)

// CorpusReader produces a snapshot of the local document tree.
type CorpusReader interface {
	// Read walks the corpus root and returns every recognised document
	// plus the files that could not be read. Re-reading an unmodified
	// tree yields the same set; traversal order carries no meaning.
	//
	// An unreadable root is a fatal configuration error. An unreadable
	// individual file is reported in Corpus.Unreadable, not as an error.
	Read(ctx context.Context) (*domain.Corpus, error)
}
