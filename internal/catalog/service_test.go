package catalog

import (
	"context"
	"errors"
	"testing"

	"lensrec-backend/internal/lens"
	"lensrec-backend/internal/outcomes"
)

type failingRepo struct{}

func (failingRepo) ListByTenant(context.Context, string) ([]Product, error) {
	return nil, errors.New("catalog store unavailable")
}

func (failingRepo) ReplaceTenantCatalog(context.Context, string, []Product) error {
	return errors.New("catalog store unavailable")
}

func TestServiceReplaceValidation(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	cases := []struct {
		name     string
		products []Product
	}{
		{"missing sku", []Product{{SKU: ""}}},
		{"duplicate sku", []Product{{SKU: "A"}, {SKU: "A"}}},
		{"negative price", []Product{{SKU: "A", PriceCents: -1}}},
		{"negative stock", []Product{{SKU: "A", StockQuantity: -1}}},
		{"invalid lens attributes", []Product{{
			SKU:  "A",
			Lens: &lens.Configuration{Type: "bifocal", Material: lens.MaterialCR39, Coating: lens.CoatingNone},
		}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Replace(ctx, "tenant-1", tc.products)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestServiceReplaceAndList(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	products := []Product{
		product("SKU-B", lens.TypeSingleVision, lens.MaterialCR39, lens.CoatingHardCoat, 9900, 10),
		product("SKU-A", lens.TypeSingleVision, lens.MaterialPolycarb, lens.CoatingBlueFilter, 14900, 0),
	}
	if err := svc.Replace(ctx, "tenant-1", products); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	got, err := svc.ListProducts(ctx, "tenant-1")
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if len(got) != 2 || got[0].SKU != "SKU-A" || got[1].SKU != "SKU-B" {
		t.Fatalf("expected products in SKU order, got %+v", got)
	}

	// A second upload fully replaces the first.
	if err := svc.Replace(ctx, "tenant-1", products[:1]); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	got, err = svc.ListProducts(ctx, "tenant-1")
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if len(got) != 1 || got[0].SKU != "SKU-B" {
		t.Fatalf("expected replaced catalog, got %+v", got)
	}
}

func TestServiceMatchForTenantDegradation(t *testing.T) {
	ctx := context.Background()
	candidates := []outcomes.Candidate{
		candidate(lens.TypeSingleVision, lens.MaterialCR39, lens.CoatingHardCoat),
	}

	// Unreachable store degrades instead of failing.
	svc := NewService(failingRepo{})
	matches, available := svc.MatchForTenant(ctx, "tenant-1", candidates)
	if available || len(matches) != 0 {
		t.Fatalf("expected degraded result for failing store, got available=%v matches=%+v", available, matches)
	}

	// Empty catalog degrades too.
	svc = NewService(NewMemoryRepo())
	matches, available = svc.MatchForTenant(ctx, "tenant-1", candidates)
	if available || len(matches) != 0 {
		t.Fatalf("expected degraded result for empty catalog, got available=%v matches=%+v", available, matches)
	}
}

func TestServiceMatchForTenantReturnsMatches(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	if err := repo.ReplaceTenantCatalog(ctx, "tenant-1", []Product{
		product("SKU-1", lens.TypeSingleVision, lens.MaterialCR39, lens.CoatingHardCoat, 9900, 4),
	}); err != nil {
		t.Fatalf("ReplaceTenantCatalog: %v", err)
	}

	matches, available := svc.MatchForTenant(ctx, "tenant-1", []outcomes.Candidate{
		candidate(lens.TypeSingleVision, lens.MaterialCR39, lens.CoatingHardCoat),
	})
	if !available {
		t.Fatal("expected catalog to be available")
	}
	if len(matches) != 1 || matches[0].Product.SKU != "SKU-1" {
		t.Fatalf("unexpected matches: %+v", matches)
	}
}
