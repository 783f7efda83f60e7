package recommendations

import (
	"time"

	"lensrec-backend/internal/intent"
	"lensrec-backend/internal/lens"
)

// TierLabel names a tier slot within one recommendation. Labels are unique per
// recommendation and assigned in order from the highest-ranked match down.
type TierLabel string

const (
	TierBest   TierLabel = "BEST"
	TierBetter TierLabel = "BETTER"
	TierGood   TierLabel = "GOOD"
)

func tierLabels() []TierLabel {
	return []TierLabel{TierBest, TierBetter, TierGood}
}

// Valid reports whether the label is one of the three known tier labels.
func (l TierLabel) Valid() bool {
	switch l {
	case TierBest, TierBetter, TierGood:
		return true
	}
	return false
}

// Status is the recommendation lifecycle state. Generated is the only
// non-terminal state; every transition out of it is final.
type Status string

const (
	StatusGenerated  Status = "generated"
	StatusAccepted   Status = "accepted"
	StatusCustomized Status = "customized"
	StatusRejected   Status = "rejected"
)

// Terminal reports whether no further transitions are allowed.
func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusCustomized || s == StatusRejected
}

// Quality flags attached to a degraded but still usable recommendation.
const (
	FlagInsufficientData   = "insufficientData"
	FlagCatalogUnavailable = "catalogUnavailable"
)

// Tier is one priced, justified entry of a recommendation.
type Tier struct {
	Label                  TierLabel          `json:"tierLabel"`
	SKU                    string             `json:"sku"`
	PriceCents             int64              `json:"priceCents"`
	Configuration          lens.Configuration `json:"lensConfiguration"`
	MatchScore             float64            `json:"matchScore"`
	ClinicalScore          float64            `json:"clinicalScore"`
	ClinicalJustification  string             `json:"clinicalJustification"`
	LifestyleJustification string             `json:"lifestyleJustification"`
}

// Recommendation is the persisted output of one analysis. Tiers and the intent
// snapshot are immutable after creation; only the lifecycle fields change, and
// only through Repo.Transition.
type Recommendation struct {
	ID                string         `json:"recommendationId"`
	TenantID          string         `json:"-"`
	OrderID           string         `json:"orderId"`
	Status            Status         `json:"status"`
	Tiers             []Tier         `json:"tiers"`
	Intent            intent.Result  `json:"intent"`
	OverallConfidence float64        `json:"overallConfidence"`
	QualityFlags      []string       `json:"qualityFlags"`
	SelectedTier      TierLabel      `json:"selectedTier,omitempty"`
	Overrides         map[string]any `json:"overrides,omitempty"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

// TierByLabel returns the tier with the given label.
func (r Recommendation) TierByLabel(label TierLabel) (Tier, bool) {
	for _, t := range r.Tiers {
		if t.Label == label {
			return t, true
		}
	}
	return Tier{}, false
}
