package domain

// Action is the per-identity operation a reconciliation run decided on.
type Action string

// Plan actions.
const (
	// ActionInsert creates a record for a document new to the store.
	ActionInsert Action = "insert"

	// ActionUpdate overwrites a record whose content changed.
	ActionUpdate Action = "update"

	// ActionDelete removes a record whose document no longer exists locally.
	ActionDelete Action = "delete"

	// ActionSkip leaves an unchanged record untouched. No embedding is
	// computed for skipped documents; this is the cost-saving property
	// the whole system exists for.
	ActionSkip Action = "skip"
)

// PlanItem assigns an action to one identity.
type PlanItem struct {
	Identity string
	Path     string
	Action   Action
}

// Plan is the full set of per-identity actions for one run. It is
// built once from a consistent snapshot of local and remote state,
// immutable after construction, and consumed exactly once.
type Plan struct {
	Items []PlanItem
}

// Count returns the number of items carrying the given action.
func (p Plan) Count(action Action) int {
	n := 0
	for _, item := range p.Items {
		if item.Action == action {
			n++
		}
	}
	return n
}

// Mutations returns the number of items that will touch the store.
func (p Plan) Mutations() int {
	return len(p.Items) - p.Count(ActionSkip)
}
