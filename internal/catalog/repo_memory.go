package catalog

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repo used in development and tests.
type MemoryRepo struct {
	mu       sync.RWMutex
	byTenant map[string][]Product
}

// NewMemoryRepo constructs an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byTenant: make(map[string][]Product)}
}

// ListByTenant returns the tenant's products in SKU order.
func (r *MemoryRepo) ListByTenant(_ context.Context, tenantID string) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := r.byTenant[tenantID]
	out := make([]Product, len(products))
	copy(out, products)
	return out, nil
}

// ReplaceTenantCatalog swaps the tenant's catalog for the given snapshot.
func (r *MemoryRepo) ReplaceTenantCatalog(_ context.Context, tenantID string, products []Product) error {
	now := time.Now().UTC()
	snapshot := make([]Product, len(products))
	copy(snapshot, products)
	for i := range snapshot {
		snapshot[i].TenantID = tenantID
		snapshot[i].LastUpdated = now
	}
	sort.Slice(snapshot, func(i, j int) bool { return snapshot[i].SKU < snapshot[j].SKU })

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byTenant[tenantID] = snapshot
	return nil
}
