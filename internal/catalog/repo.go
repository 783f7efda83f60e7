package catalog

import "context"

// Repo defines persistence operations for tenant catalogs.
type Repo interface {
	// ListByTenant returns the tenant's products in SKU order.
	ListByTenant(ctx context.Context, tenantID string) ([]Product, error)
	// ReplaceTenantCatalog swaps the tenant's catalog for the given snapshot.
	ReplaceTenantCatalog(ctx context.Context, tenantID string, products []Product) error
}
