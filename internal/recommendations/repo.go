package recommendations

import "context"

// Transition carries one lifecycle change request. SelectedTier is required
// for accept and customize, Overrides only for customize.
type Transition struct {
	To           Status
	SelectedTier TierLabel
	Overrides    map[string]any
}

// Repo defines persistence operations for recommendations. Implementations
// must enforce the terminal-state invariant inside Apply so concurrent
// transitions cannot both succeed.
type Repo interface {
	Create(ctx context.Context, rec Recommendation) error
	GetByID(ctx context.Context, tenantID, id string) (Recommendation, error)
	// ListByTenant returns the tenant's recommendations newest first.
	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]Recommendation, error)
	// Apply moves a generated recommendation into a terminal state. Returns
	// ErrNotFound when the recommendation does not exist for the tenant and
	// ErrInvalidTransition when it is already terminal.
	Apply(ctx context.Context, tenantID, id string, tr Transition) (Recommendation, error)
}
