package catalog

import (
	"time"

	"lensrec-backend/internal/lens"
	"lensrec-backend/internal/outcomes"
)

// Product is one tenant-scoped catalog record. Lens attributes are nil for
// non-lens items (frames, accessories), which the matcher skips. Records are
// created and replaced by catalog upload, read-only to the matching engine.
type Product struct {
	TenantID      string              `json:"-"`
	SKU           string              `json:"sku"`
	Lens          *lens.Configuration `json:"attributes,omitempty"`
	PriceCents    int64               `json:"priceCents"`
	StockQuantity int                 `json:"stockQuantity"`
	LastUpdated   time.Time           `json:"lastUpdated"`
}

// InStock reports whether the product can be dispensed today.
func (p Product) InStock() bool {
	return p.StockQuantity > 0
}

// Match pairs a ranked candidate configuration with its best-matching in-stock
// product. Created fresh per request, never persisted.
type Match struct {
	Candidate outcomes.Candidate `json:"candidate"`
	Product   Product            `json:"product"`
	Score     float64            `json:"matchScore"`
}
