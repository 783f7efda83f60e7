package catalog

import (
	"math"
	"testing"

	"lensrec-backend/internal/lens"
	"lensrec-backend/internal/outcomes"
)

func candidate(t lens.Type, m lens.Material, c lens.Coating) outcomes.Candidate {
	return outcomes.Candidate{
		Config:        lens.Configuration{Type: t, Material: m, Coating: c},
		ClinicalScore: 1.0,
		SampleSize:    50,
	}
}

func product(sku string, t lens.Type, m lens.Material, c lens.Coating, priceCents int64, stock int) Product {
	return Product{
		SKU:           sku,
		Lens:          &lens.Configuration{Type: t, Material: m, Coating: c},
		PriceCents:    priceCents,
		StockQuantity: stock,
	}
}

func TestMatchProductsExactMatchScoresFull(t *testing.T) {
	candidates := []outcomes.Candidate{
		candidate(lens.TypeProgressive, lens.MaterialTrivex, lens.CoatingAntiReflect),
	}
	products := []Product{
		product("EXACT", lens.TypeProgressive, lens.MaterialTrivex, lens.CoatingAntiReflect, 28900, 5),
		product("CLOSE", lens.TypeProgressive, lens.MaterialTrivex, lens.CoatingBlueFilter, 19900, 5),
	}

	matches := MatchProducts(candidates, products)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Product.SKU != "EXACT" {
		t.Fatalf("expected exact product to win, got %s", matches[0].Product.SKU)
	}
	if math.Abs(matches[0].Score-1.0) > 1e-9 {
		t.Fatalf("expected full score for exact match, got %f", matches[0].Score)
	}
}

func TestMatchProductsSkipsOutOfStockAndNonLensItems(t *testing.T) {
	candidates := []outcomes.Candidate{
		candidate(lens.TypeSingleVision, lens.MaterialCR39, lens.CoatingHardCoat),
	}
	frame := Product{SKU: "FRAME-1", PriceCents: 9900, StockQuantity: 10}
	products := []Product{
		frame,
		product("OOS", lens.TypeSingleVision, lens.MaterialCR39, lens.CoatingHardCoat, 9900, 0),
		product("AVAIL", lens.TypeSingleVision, lens.MaterialCR39, lens.CoatingHardCoat, 12900, 3),
	}

	matches := MatchProducts(candidates, products)
	if len(matches) != 1 || matches[0].Product.SKU != "AVAIL" {
		t.Fatalf("expected only the in-stock lens product, got %+v", matches)
	}
}

func TestMatchProductsEnforcesScoreFloor(t *testing.T) {
	candidates := []outcomes.Candidate{
		candidate(lens.TypeProgressive, lens.MaterialHiIndex167, lens.CoatingAntiReflect),
	}

	// Same type only: 0.20, below the floor.
	weak := product("WEAK", lens.TypeProgressive, lens.MaterialCR39, lens.CoatingNone, 9900, 5)
	if got := matchScore(candidates[0].Config, *weak.Lens); got >= minMatchScore {
		t.Fatalf("expected type-only score below floor, got %f", got)
	}
	if matches := MatchProducts(candidates, []Product{weak}); len(matches) != 0 {
		t.Fatalf("expected no matches below the floor, got %+v", matches)
	}

	// Same type plus a high-index substitute and a different real coating:
	// 0.20 + 0.20 + 0.15 survives the floor.
	near := product("NEAR", lens.TypeProgressive, lens.MaterialHiIndex160, lens.CoatingHardCoat, 9900, 5)
	matches := MatchProducts(candidates, []Product{near})
	if len(matches) != 1 {
		t.Fatalf("expected partial-credit match to survive, got %+v", matches)
	}
	if math.Abs(matches[0].Score-0.55) > 1e-9 {
		t.Fatalf("expected partial score 0.55, got %f", matches[0].Score)
	}
}

func TestMatchProductsRequiresSameLensType(t *testing.T) {
	candidates := []outcomes.Candidate{
		candidate(lens.TypeProgressive, lens.MaterialTrivex, lens.CoatingAntiReflect),
	}
	products := []Product{
		product("SV", lens.TypeSingleVision, lens.MaterialTrivex, lens.CoatingAntiReflect, 9900, 5),
	}
	if matches := MatchProducts(candidates, products); len(matches) != 0 {
		t.Fatalf("expected no cross-type matches, got %+v", matches)
	}
}

func TestMatchProductsDeduplicatesSharedBestProduct(t *testing.T) {
	// Both candidates resolve to the same stocked product.
	candidates := []outcomes.Candidate{
		candidate(lens.TypeProgressive, lens.MaterialTrivex, lens.CoatingAntiReflect),
		candidate(lens.TypeProgressive, lens.MaterialPolycarb, lens.CoatingAntiReflect),
	}
	products := []Product{
		product("ONLY", lens.TypeProgressive, lens.MaterialTrivex, lens.CoatingAntiReflect, 24900, 2),
	}

	matches := MatchProducts(candidates, products)
	if len(matches) != 1 {
		t.Fatalf("expected shared product to appear once, got %d matches", len(matches))
	}
	if matches[0].Candidate.Config.Material != lens.MaterialTrivex {
		t.Fatalf("expected the higher-scoring candidate to keep the product, got %s",
			matches[0].Candidate.Config.Key())
	}
}

func TestMatchProductsOrdersTiersByPriceDescending(t *testing.T) {
	candidates := []outcomes.Candidate{
		candidate(lens.TypeProgressive, lens.MaterialTrivex, lens.CoatingAntiReflect),
		candidate(lens.TypeProgressive, lens.MaterialPolycarb, lens.CoatingBlueFilter),
		candidate(lens.TypeProgressive, lens.MaterialCR39, lens.CoatingHardCoat),
	}
	products := []Product{
		product("MID", lens.TypeProgressive, lens.MaterialPolycarb, lens.CoatingBlueFilter, 19900, 4),
		product("TOP", lens.TypeProgressive, lens.MaterialTrivex, lens.CoatingAntiReflect, 28900, 4),
		product("BASE", lens.TypeProgressive, lens.MaterialCR39, lens.CoatingHardCoat, 10900, 4),
	}

	matches := MatchProducts(candidates, products)
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
	want := []string{"TOP", "MID", "BASE"}
	for i, sku := range want {
		if matches[i].Product.SKU != sku {
			t.Fatalf("tier %d: expected %s, got %s", i, sku, matches[i].Product.SKU)
		}
	}
}

func TestMatchProductsCapsAtThreeTiers(t *testing.T) {
	candidates := []outcomes.Candidate{
		candidate(lens.TypeProgressive, lens.MaterialTrivex, lens.CoatingAntiReflect),
		candidate(lens.TypeProgressive, lens.MaterialPolycarb, lens.CoatingAntiReflect),
		candidate(lens.TypeProgressive, lens.MaterialCR39, lens.CoatingAntiReflect),
		candidate(lens.TypeProgressive, lens.MaterialHiIndex160, lens.CoatingAntiReflect),
	}
	products := []Product{
		product("A", lens.TypeProgressive, lens.MaterialTrivex, lens.CoatingAntiReflect, 40000, 1),
		product("B", lens.TypeProgressive, lens.MaterialPolycarb, lens.CoatingAntiReflect, 30000, 1),
		product("C", lens.TypeProgressive, lens.MaterialCR39, lens.CoatingAntiReflect, 20000, 1),
		product("D", lens.TypeProgressive, lens.MaterialHiIndex160, lens.CoatingAntiReflect, 10000, 1),
	}

	matches := MatchProducts(candidates, products)
	if len(matches) != 3 {
		t.Fatalf("expected at most 3 tiers, got %d", len(matches))
	}
	if matches[2].Product.SKU != "C" {
		t.Fatalf("expected the cheapest survivor to be dropped, got %+v", matches)
	}
}

func TestMatchProductsEmptyCatalog(t *testing.T) {
	candidates := []outcomes.Candidate{
		candidate(lens.TypeSingleVision, lens.MaterialCR39, lens.CoatingHardCoat),
	}
	if matches := MatchProducts(candidates, nil); len(matches) != 0 {
		t.Fatalf("expected no matches for empty catalog, got %+v", matches)
	}
}
