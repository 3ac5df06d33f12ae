// Package snapshot persists plan recreate-lines (the text a `D N` command
// would render) so a plan can be restored across a process restart without
// replaying every `A *` command from an external log.
package snapshot

import "context"

// Record is one persisted element: the recreate-line text for ElementID
// within PlanID, as last rendered by the Command Gateway's `D N`.
type Record struct {
	PlanID    int32
	ElementID uint16
	Line      string
}

// Store is the Snapshot Store boundary: save and restore recreate-lines
// keyed by (plan id, element id).
type Store interface {
	Save(ctx context.Context, rec Record) error
	Get(ctx context.Context, planID int32, elementID uint16) (Record, bool, error)
	ListByPlan(ctx context.Context, planID int32) ([]Record, error)
	DeletePlan(ctx context.Context, planID int32) error
}
