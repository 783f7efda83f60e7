package outcomes

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"lensrec-backend/internal/lens"
)

// MemoryRepo stores statistics in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu    sync.RWMutex
	byKey map[string]Statistic
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byKey: make(map[string]Statistic)}
}

// Seed replaces the stored statistics; intended for dev bootstrap and tests.
func (r *MemoryRepo) Seed(stats []Statistic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byKey = make(map[string]Statistic, len(stats))
	for _, s := range stats {
		r.byKey[s.Config.Key()] = s
	}
}

// ListByCategory returns statistics for the category in key order.
func (r *MemoryRepo) ListByCategory(ctx context.Context, category lens.Category) ([]Statistic, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Statistic, 0, len(r.byKey))
	for _, s := range r.byKey {
		if category.Contains(s.Config.Type) {
			out = append(out, s)
		}
	}
	sortByKey(out)
	return out, nil
}

// ListAll returns every statistic in key order.
func (r *MemoryRepo) ListAll(ctx context.Context) ([]Statistic, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Statistic, 0, len(r.byKey))
	for _, s := range r.byKey {
		out = append(out, s)
	}
	sortByKey(out)
	return out, nil
}

// RecordOutcome applies one outcome under the repo lock.
func (r *MemoryRepo) RecordOutcome(ctx context.Context, configurationKey string, outcome OutcomeType) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !outcome.Valid() {
		return ErrInvalidOutcome
	}
	cfg, err := lens.ParseKey(configurationKey)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOutcome, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byKey[cfg.Key()]
	if !ok {
		s = Statistic{Config: cfg}
	}
	s.SampleSize++
	switch outcome {
	case OutcomeSuccess:
		s.Successes++
	case OutcomeNonAdapt:
		s.NonAdapts++
	case OutcomeRemake:
		s.Remakes++
	}
	s.UpdatedAt = time.Now().UTC()
	r.byKey[cfg.Key()] = s
	return nil
}

func sortByKey(stats []Statistic) {
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Config.Key() < stats[j].Config.Key()
	})
}
