package driving

import (
	"context"

	"github.com/custodia-labs/vecsync/internal/core/domain"
)

// SyncRunner drives one snapshot-diff-apply cycle against the store.
type SyncRunner interface {
	// Plan computes the reconciliation plan without mutating anything.
	Plan(ctx context.Context) (domain.Plan, error)

	// Run computes the plan and executes it. The returned RunResult is
	// non-nil whenever the run got past the fatal pre-run stage, even if
	// individual items failed.
	Run(ctx context.Context) (*domain.RunResult, error)
}
