package outcomes

import (
	"context"

	"lensrec-backend/internal/lens"
)

// Repo defines the statistics store consumed by the ranker and mutated by the
// feedback path.
type Repo interface {
	// ListByCategory returns all statistics whose lens type belongs to the
	// category, in deterministic key order.
	ListByCategory(ctx context.Context, category lens.Category) ([]Statistic, error)
	// ListAll returns every statistic in deterministic key order. The ranker
	// uses it as the material-agnostic fallback when a category has no data.
	ListAll(ctx context.Context) ([]Statistic, error)
	// RecordOutcome applies one real-world outcome to the statistic for the
	// configuration key, creating the row on first sight. Implementations must
	// serialize concurrent updates per key so no recording is lost.
	RecordOutcome(ctx context.Context, configurationKey string, outcome OutcomeType) error
}
