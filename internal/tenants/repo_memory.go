package tenants

import (
	"context"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu      sync.RWMutex
	tenants map[string]Tenant
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{tenants: make(map[string]Tenant)}
}

func (r *MemoryRepo) Upsert(ctx context.Context, tenant Tenant) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.tenants[tenant.ID]
	now := time.Now().UTC()
	if !ok {
		tenant.CreatedAt = now
	} else {
		tenant.CreatedAt = existing.CreatedAt
	}
	tenant.UpdatedAt = now
	r.tenants[tenant.ID] = tenant
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, tenantID string) (Tenant, error) {
	if err := ctx.Err(); err != nil {
		return Tenant{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	tenant, ok := r.tenants[tenantID]
	if !ok {
		return Tenant{}, ErrNotFound
	}
	return tenant, nil
}

var _ Repo = (*MemoryRepo)(nil)
