package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/vecsync/internal/core/domain"
	"github.com/custodia-labs/vecsync/internal/core/ports/driven"
	"github.com/custodia-labs/vecsync/internal/core/ports/driving"
	"github.com/custodia-labs/vecsync/internal/logger"
)

// Ensure SyncService implements the interface.
var _ driving.SyncRunner = (*SyncService)(nil)

// SyncService drives the snapshot-diff-apply cycle: it reads the corpus,
// loads remote fingerprints, reconciles the two into a plan, and executes
// the plan against the embedding provider and the vector store.
type SyncService struct {
	reader      driven.CorpusReader
	store       driven.VectorStore
	embedder    driven.EmbeddingService
	limit       int
	concurrency int

	// mu guards the RunResult while workers report outcomes.
	mu sync.Mutex
}

// NewSyncService creates a sync runner from its collaborators and the
// run configuration snapshot.
func NewSyncService(
	reader driven.CorpusReader,
	store driven.VectorStore,
	embedder driven.EmbeddingService,
	settings domain.Settings,
) *SyncService {
	return &SyncService{
		reader:      reader,
		store:       store,
		embedder:    embedder,
		limit:       settings.Limit,
		concurrency: settings.Concurrency,
	}
}

// Plan computes the reconciliation plan without mutating anything.
func (s *SyncService) Plan(ctx context.Context) (domain.Plan, error) {
	local, remote, _, err := s.snapshot(ctx)
	if err != nil {
		return domain.Plan{}, err
	}
	return Reconcile(local, remote), nil
}

// Run computes the plan and executes it over a bounded worker pool.
//
// Failures of individual items never abort the run; they are recorded
// in the result and the remaining items proceed. Only the two fatal
// pre-run conditions return an error: an unreadable corpus root and an
// unavailable remote fingerprint listing.
func (s *SyncService) Run(ctx context.Context) (*domain.RunResult, error) {
	local, remote, corpus, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	plan := Reconcile(local, remote)
	result := domain.NewRunResult()

	logger.Info("Run %s: %d local, %d remote, %d mutations planned",
		result.RunID, len(local), len(remote), plan.Mutations())

	// Files the walk could not read count as item failures up front.
	for _, failure := range corpus.Unreadable {
		result.Failures = append(result.Failures, domain.ItemFailure{
			Identity: domain.IdentityOf(failure.Path),
			Path:     failure.Path,
			Err:      failure.Err,
		})
	}

	for _, entry := range local {
		if entry.Document.Truncated {
			logger.Warn("%s exceeds %d bytes, truncating", entry.Document.Path, s.limit)
			result.Truncated = append(result.Truncated, entry.Document.Path)
		}
	}
	sort.Strings(result.Truncated)

	// Cancellation stops dispatch only: items already handed to the pool
	// run to completion on workCtx, bounded by the adapters' own timeouts.
	workCtx := context.WithoutCancel(ctx)

	var g errgroup.Group
	g.SetLimit(s.concurrency)

	for _, item := range plan.Items {
		if item.Action == domain.ActionSkip {
			logger.Debug("Unchanged: %s", item.Path)
			s.bump(result, domain.ActionSkip)
			continue
		}
		if ctx.Err() != nil {
			result.Cancelled = true
			break
		}
		item := item
		g.Go(func() error {
			s.executeItem(workCtx, item, local, result)
			return nil
		})
	}
	_ = g.Wait() // workers report through result, never through errors

	logger.Info("Run %s complete: %d inserted, %d updated, %d deleted, %d skipped, %d failed",
		result.RunID, result.Inserted, result.Updated, result.Deleted, result.Skipped, len(result.Failures))
	return result, nil
}

// snapshot reads both sides of the reconciliation input. The corpus and
// the remote listing are captured sequentially and completely before any
// plan is built; there is no streaming reconciliation.
func (s *SyncService) snapshot(ctx context.Context) (map[string]LocalEntry, map[string]string, *domain.Corpus, error) {
	corpus, err := s.reader.Read(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("read corpus: %w", err)
	}

	remote, err := s.store.ListFingerprints(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %w", domain.ErrStateLoad, err)
	}

	return IndexCorpus(corpus, s.limit), remote, corpus, nil
}

// executeItem performs one Insert, Update or Delete and records the
// outcome. Any failure is isolated to this item.
func (s *SyncService) executeItem(
	ctx context.Context,
	item domain.PlanItem,
	local map[string]LocalEntry,
	result *domain.RunResult,
) {
	switch item.Action {
	case domain.ActionDelete:
		logger.Debug("Removing: %s", item.Identity)
		if err := s.store.Delete(ctx, item.Identity); err != nil {
			s.fail(result, item, fmt.Errorf("delete record: %w", err))
			return
		}
		s.bump(result, item.Action)

	case domain.ActionInsert, domain.ActionUpdate:
		entry, ok := local[item.Identity]
		if !ok {
			s.fail(result, item, fmt.Errorf("document for %s: %w", item.Identity, domain.ErrNotFound))
			return
		}
		if item.Action == domain.ActionInsert {
			logger.Debug("New: %s", entry.Document.Path)
		} else {
			logger.Debug("Updated: %s", entry.Document.Path)
		}

		embedding, err := s.embedder.Embed(ctx, entry.Document.Content)
		if err != nil {
			s.fail(result, item, fmt.Errorf("embed document: %w", err))
			return
		}

		record := domain.Record{
			Identity:    entry.Document.Identity,
			Path:        entry.Document.Path,
			Content:     entry.Document.Content,
			Fingerprint: entry.Fingerprint,
			Embedding:   embedding,
		}
		if err := s.store.Upsert(ctx, record); err != nil {
			s.fail(result, item, fmt.Errorf("upsert record: %w", err))
			return
		}
		s.bump(result, item.Action)
	}
}

// bump counts one completed item under the result lock.
func (s *SyncService) bump(result *domain.RunResult, action domain.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch action {
	case domain.ActionInsert:
		result.Inserted++
	case domain.ActionUpdate:
		result.Updated++
	case domain.ActionDelete:
		result.Deleted++
	case domain.ActionSkip:
		result.Skipped++
	}
}

// fail records one failed item under the result lock.
func (s *SyncService) fail(result *domain.RunResult, item domain.PlanItem, err error) {
	logger.Warn("Failed %s %s: %v", item.Action, item.Path, err)
	s.mu.Lock()
	defer s.mu.Unlock()
	result.Failures = append(result.Failures, domain.ItemFailure{
		Identity: item.Identity,
		Path:     item.Path,
		Action:   item.Action,
		Err:      err,
	})
}
