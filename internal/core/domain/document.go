package domain

// Document is a single markdown file captured from the corpus root.
// Documents are ephemeral: they live for one run and are discarded
// after the plan has been executed.
type Document struct {
	// Identity is the stable key derived from the relative path.
	Identity string

	// Path is the path relative to the corpus root, in slash form.
	// It is stable across runs and across machines.
	Path string

	// Content is the document text after admission-policy truncation.
	Content string

	// Size is the content length in bytes before truncation.
	Size int

	// Truncated reports whether the admission filter cut the content.
	Truncated bool
}

// ReadFailure records a file that could not be read during the corpus walk.
// It is a per-document failure, not fatal to the run.
type ReadFailure struct {
	Path string
	Err  error
}

// Corpus is the snapshot of the local document tree for one run.
type Corpus struct {
	Documents  []Document
	Unreadable []ReadFailure
}

// Record is the unit persisted in the vector store. For every stored
// Record, Fingerprint equals the fingerprint of Content as stored, and
// Embedding was computed from exactly that Content.
type Record struct {
	Identity    string
	Path        string
	Content     string
	Fingerprint string
	Embedding   []float32
}

// SearchHit is a similarity query result.
type SearchHit struct {
	Identity string
	Path     string
	Content  string

	// Similarity is the cosine similarity score (-1 to 1, higher is closer).
	Similarity float64
}
