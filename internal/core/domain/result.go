package domain

import "github.com/google/uuid"

// ItemFailure records one plan item that could not be completed.
type ItemFailure struct {
	Identity string
	Path     string
	Action   Action
	Err      error
}

// RunResult aggregates the outcome of executing one reconciliation plan.
// It is owned by the sync runner and returned to the caller; it is never
// persisted.
type RunResult struct {
	// RunID uniquely identifies this run in log output.
	RunID string

	// Counts of successfully completed items per action.
	Inserted int
	Updated  int
	Deleted  int
	Skipped  int

	// Truncated lists paths the admission filter cut down. Truncated
	// documents are still embedded and upserted, but their presence
	// makes the run abnormal.
	Truncated []string

	// Failures lists items that could not be completed, with causes.
	Failures []ItemFailure

	// Cancelled reports that a shutdown signal stopped dispatch before
	// every plan item was attempted.
	Cancelled bool
}

// NewRunResult creates an empty result with a fresh run ID.
func NewRunResult() *RunResult {
	return &RunResult{RunID: uuid.NewString()}
}

// Failed reports whether the run must signal an abnormal outcome: any
// item failure, any truncation, or an interrupted dispatch.
func (r *RunResult) Failed() bool {
	return len(r.Failures) > 0 || len(r.Truncated) > 0 || r.Cancelled
}

// Completed returns the number of successfully processed items.
func (r *RunResult) Completed() int {
	return r.Inserted + r.Updated + r.Deleted + r.Skipped
}
