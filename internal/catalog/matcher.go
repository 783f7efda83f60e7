package catalog

import (
	"sort"

	"lensrec-backend/internal/lens"
	"lensrec-backend/internal/outcomes"
)

// Match-score weights are fixed platform-wide so identical inputs always
// produce identical tiers. Price never enters the match score; it is only
// used afterwards for tier bucketing.
const (
	typeWeight     = 0.20
	materialWeight = 0.45
	coatingWeight  = 0.35

	partialMaterialCredit = 0.20
	partialCoatingCredit  = 0.15

	// minMatchScore drops pairs where only the lens type lines up.
	minMatchScore = 0.35

	maxTierMatches = 3
)

// MatchProducts pairs each candidate configuration with its best in-stock
// product, deduplicates products across candidates, and returns at most three
// survivors in tier order (match score descending, price descending on ties).
// An empty catalog simply yields no matches; the caller flags catalog
// availability.
func MatchProducts(candidates []outcomes.Candidate, products []Product) []Match {
	matches := make([]Match, 0, len(candidates))
	for _, candidate := range candidates {
		best, ok := bestProductFor(candidate, products)
		if !ok {
			continue
		}
		matches = append(matches, best)
	}

	matches = dedupeBySKU(matches)

	// Score first so the tier ordering invariant holds, price breaks ties so
	// premium products land in the top tier.
	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Product.PriceCents != b.Product.PriceCents {
			return a.Product.PriceCents > b.Product.PriceCents
		}
		return a.Product.SKU < b.Product.SKU
	})

	if len(matches) > maxTierMatches {
		matches = matches[:maxTierMatches]
	}
	return matches
}

func bestProductFor(candidate outcomes.Candidate, products []Product) (Match, bool) {
	best := Match{Candidate: candidate}
	found := false
	for _, product := range products {
		if product.Lens == nil || !product.InStock() {
			continue
		}
		score := matchScore(candidate.Config, *product.Lens)
		if score < minMatchScore {
			continue
		}
		if !found || score > best.Score ||
			(score == best.Score && product.SKU < best.Product.SKU) {
			best.Product = product
			best.Score = score
			found = true
		}
	}
	return best, found
}

// matchScore is a weighted attribute overlap. Lens type must match exactly;
// material and coating earn full weight on exact match and a partial credit
// for near substitutes.
func matchScore(want, got lens.Configuration) float64 {
	if want.Type != got.Type {
		return 0
	}
	score := typeWeight

	switch {
	case want.Material == got.Material:
		score += materialWeight
	case want.Material.HighIndex() && got.Material.HighIndex(),
		want.Material.WrapTolerant() && got.Material.WrapTolerant():
		score += partialMaterialCredit
	}

	switch {
	case want.Coating == got.Coating:
		score += coatingWeight
	case want.Coating != lens.CoatingNone && got.Coating != lens.CoatingNone:
		score += partialCoatingCredit
	}
	return score
}

// dedupeBySKU keeps one match per product, preferring the higher score and
// breaking ties on the candidate's configuration key.
func dedupeBySKU(matches []Match) []Match {
	bestBySKU := make(map[string]Match, len(matches))
	order := make([]string, 0, len(matches))
	for _, m := range matches {
		existing, ok := bestBySKU[m.Product.SKU]
		if !ok {
			bestBySKU[m.Product.SKU] = m
			order = append(order, m.Product.SKU)
			continue
		}
		if m.Score > existing.Score ||
			(m.Score == existing.Score && m.Candidate.Config.Key() < existing.Candidate.Config.Key()) {
			bestBySKU[m.Product.SKU] = m
		}
	}
	out := make([]Match, 0, len(order))
	for _, sku := range order {
		out = append(out, bestBySKU[sku])
	}
	return out
}
