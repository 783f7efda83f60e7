package tenants

import "context"

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "tenant not found" }

type Repo interface {
	Upsert(ctx context.Context, tenant Tenant) error
	GetByID(ctx context.Context, tenantID string) (Tenant, error)
}
