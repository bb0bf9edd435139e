package services

import (
	"sort"

	"github.com/custodia-labs/vecsync/internal/core/domain"
)

// LocalEntry pairs an admitted corpus document with its content
// fingerprint. The fingerprint is always computed after admission
// truncation, so change detection sees exactly the content that would
// be embedded and stored.
type LocalEntry struct {
	Document    domain.Document
	Fingerprint string
}

// IndexCorpus applies the admission filter to every corpus document and
// fingerprints the admitted content, producing the local side of the
// reconciliation input keyed by identity.
func IndexCorpus(corpus *domain.Corpus, limit int) map[string]LocalEntry {
	local := make(map[string]LocalEntry, len(corpus.Documents))
	for _, doc := range corpus.Documents {
		admitted, ok := domain.Admit(doc.Content, limit)
		doc.Content = admitted
		doc.Truncated = !ok
		local[doc.Identity] = LocalEntry{
			Document:    doc,
			Fingerprint: domain.Fingerprint(admitted),
		}
	}
	return local
}

// Reconcile diffs the local corpus snapshot against the remote
// fingerprint listing and produces the plan for this run:
//
//   - local only               -> Insert
//   - both, fingerprints differ -> Update
//   - both, fingerprints equal  -> Skip
//   - remote only              -> Delete
//
// Every identity lands in exactly one bucket. The function is pure:
// no I/O, no hidden state. An empty local corpus against a non-empty
// remote listing yields an all-Delete plan; full teardown is a valid
// outcome, not an error.
//
// Items are ordered by path (deletes by identity) so plan output is
// stable; executors must not rely on the order.
func Reconcile(local map[string]LocalEntry, remote map[string]string) domain.Plan {
	items := make([]domain.PlanItem, 0, len(local)+len(remote))

	for identity, entry := range local {
		action := domain.ActionInsert
		if remoteFingerprint, ok := remote[identity]; ok {
			if remoteFingerprint == entry.Fingerprint {
				action = domain.ActionSkip
			} else {
				action = domain.ActionUpdate
			}
		}
		items = append(items, domain.PlanItem{
			Identity: identity,
			Path:     entry.Document.Path,
			Action:   action,
		})
	}

	for identity := range remote {
		if _, ok := local[identity]; !ok {
			items = append(items, domain.PlanItem{
				Identity: identity,
				Action:   domain.ActionDelete,
			})
		}
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Path != items[j].Path {
			return items[i].Path < items[j].Path
		}
		return items[i].Identity < items[j].Identity
	})

	return domain.Plan{Items: items}
}
