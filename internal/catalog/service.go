package catalog

import (
	"context"
	"fmt"
	"time"

	"lensrec-backend/internal/lens"
	"lensrec-backend/internal/outcomes"
	"lensrec-backend/internal/shared/telemetry"
)

const defaultLookupTimeout = 2 * time.Second

// Service owns catalog uploads and the product-matching step of an analysis.
type Service struct {
	Repo          Repo
	LookupTimeout time.Duration
}

// NewService constructs a Service with the default lookup timeout.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo, LookupTimeout: defaultLookupTimeout}
}

// ListProducts returns the tenant's catalog.
func (s *Service) ListProducts(ctx context.Context, tenantID string) ([]Product, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: tenant id is required", ErrInvalidInput)
	}
	return s.Repo.ListByTenant(ctx, tenantID)
}

// Replace validates and stores a full catalog snapshot for the tenant,
// discarding whatever was there before.
func (s *Service) Replace(ctx context.Context, tenantID string, products []Product) error {
	if tenantID == "" {
		return fmt.Errorf("%w: tenant id is required", ErrInvalidInput)
	}
	seen := make(map[string]bool, len(products))
	for i, p := range products {
		if p.SKU == "" {
			return fmt.Errorf("%w: product %d is missing a sku", ErrInvalidInput, i)
		}
		if seen[p.SKU] {
			return fmt.Errorf("%w: duplicate sku %q", ErrInvalidInput, p.SKU)
		}
		seen[p.SKU] = true
		if p.PriceCents < 0 {
			return fmt.Errorf("%w: sku %q has a negative price", ErrInvalidInput, p.SKU)
		}
		if p.StockQuantity < 0 {
			return fmt.Errorf("%w: sku %q has negative stock", ErrInvalidInput, p.SKU)
		}
		if p.Lens != nil {
			if _, err := lens.ParseKey(p.Lens.Key()); err != nil {
				return fmt.Errorf("%w: sku %q: %v", ErrInvalidInput, p.SKU, err)
			}
		}
	}
	return s.Repo.ReplaceTenantCatalog(ctx, tenantID, products)
}

// Snapshot loads the tenant's catalog under the lookup timeout. A missing,
// empty, or unreachable catalog yields available=false rather than an error;
// the orchestrator surfaces that as a quality flag.
func (s *Service) Snapshot(ctx context.Context, tenantID string) (products []Product, available bool) {
	timeout := s.LookupTimeout
	if timeout <= 0 {
		timeout = defaultLookupTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	products, err := s.Repo.ListByTenant(ctx, tenantID)
	if err != nil {
		telemetry.Error("catalog.lookup_failed", map[string]any{
			"tenant_id": tenantID,
			"error":     err.Error(),
		})
		return nil, false
	}
	if len(products) == 0 {
		return nil, false
	}
	return products, true
}

// MatchForTenant composes Snapshot and MatchProducts for callers that do not
// need the raw product list.
func (s *Service) MatchForTenant(ctx context.Context, tenantID string, candidates []outcomes.Candidate) (matches []Match, available bool) {
	products, available := s.Snapshot(ctx, tenantID)
	if !available {
		return nil, false
	}
	return MatchProducts(candidates, products), true
}
