package recommendations

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repo used in development and tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Recommendation
}

// NewMemoryRepo constructs an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Recommendation)}
}

// Create inserts a new recommendation.
func (r *MemoryRepo) Create(_ context.Context, rec Recommendation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[rec.ID]; exists {
		return fmt.Errorf("duplicate recommendation id %q", rec.ID)
	}
	r.byID[rec.ID] = rec
	return nil
}

// GetByID fetches one recommendation scoped to the tenant.
func (r *MemoryRepo) GetByID(_ context.Context, tenantID, id string) (Recommendation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.byID[id]
	if !ok || rec.TenantID != tenantID {
		return Recommendation{}, ErrNotFound
	}
	return rec, nil
}

// ListByTenant returns the tenant's recommendations newest first.
func (r *MemoryRepo) ListByTenant(_ context.Context, tenantID string, limit, offset int) ([]Recommendation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]Recommendation, 0, len(r.byID))
	for _, rec := range r.byID {
		if rec.TenantID == tenantID {
			all = append(all, rec)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})

	if offset >= len(all) {
		return []Recommendation{}, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

// Apply moves a generated recommendation into a terminal state.
func (r *MemoryRepo) Apply(_ context.Context, tenantID, id string, tr Transition) (Recommendation, error) {
	if !tr.To.Terminal() {
		return Recommendation{}, fmt.Errorf("%w: target status %q is not terminal", ErrInvalidTransition, tr.To)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byID[id]
	if !ok || rec.TenantID != tenantID {
		return Recommendation{}, ErrNotFound
	}
	if rec.Status != StatusGenerated {
		return Recommendation{}, ErrInvalidTransition
	}

	rec.Status = tr.To
	rec.SelectedTier = tr.SelectedTier
	if tr.Overrides != nil {
		rec.Overrides = tr.Overrides
	}
	rec.UpdatedAt = time.Now().UTC()
	r.byID[id] = rec
	return rec, nil
}
