package outcomes

import (
	"context"
	"math"
	"sort"
	"time"

	"lensrec-backend/internal/intent"
	"lensrec-backend/internal/lens"
	"lensrec-backend/internal/rx"
	"lensrec-backend/internal/shared/telemetry"
)

const (
	defaultLookupTimeout = 2 * time.Second
	defaultMaxCandidates = 5
)

// Ranker turns historical outcome statistics into a ranked list of ideal lens
// configurations for one request. It holds no per-request state and is safe
// for concurrent use.
type Ranker struct {
	Repo          Repo
	LookupTimeout time.Duration
	MaxCandidates int
}

// NewRanker constructs a Ranker with default bounds.
func NewRanker(repo Repo) *Ranker {
	return &Ranker{
		Repo:          repo,
		LookupTimeout: defaultLookupTimeout,
		MaxCandidates: defaultMaxCandidates,
	}
}

// Rank returns candidates ordered by descending adjusted clinical score. The
// second return reports degraded output: when the store times out, errors, or
// holds no data at all, Rank falls back to a single low-confidence default
// instead of failing.
func (r *Ranker) Rank(ctx context.Context, p rx.Prescription, frame rx.Frame, res intent.Result) ([]Candidate, bool) {
	timeout := r.LookupTimeout
	if timeout <= 0 {
		timeout = defaultLookupTimeout
	}
	lookupCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	category := p.Category()
	stats, err := r.Repo.ListByCategory(lookupCtx, category)
	if err != nil {
		telemetry.Error("outcomes.lookup_failed", map[string]any{
			"category": string(category),
			"error":    err.Error(),
		})
		return defaultCandidates(category), true
	}
	if len(stats) == 0 {
		// Broaden to every category before giving up.
		stats, err = r.Repo.ListAll(lookupCtx)
		if err != nil || len(stats) == 0 {
			if err != nil {
				telemetry.Error("outcomes.lookup_failed", map[string]any{
					"category": "all",
					"error":    err.Error(),
				})
			}
			return defaultCandidates(category), true
		}
	}

	in := ruleInput{Prescription: p, Frame: frame, Intent: res}
	candidates := make([]Candidate, 0, len(stats))
	for _, s := range stats {
		candidates = append(candidates, score(in, s))
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.ClinicalScore != b.ClinicalScore {
			return a.ClinicalScore > b.ClinicalScore
		}
		if a.SampleSize != b.SampleSize {
			return a.SampleSize > b.SampleSize
		}
		return a.Config.Key() < b.Config.Key()
	})

	limit := r.MaxCandidates
	if limit <= 0 {
		limit = defaultMaxCandidates
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, false
}

// score computes the evidence-weighted base score and applies every firing
// risk rule. The log(sampleSize+1) weight lets thin samples contribute without
// letting a lucky rate outrank well-evidenced configurations.
func score(in ruleInput, s Statistic) Candidate {
	base := s.SuccessRate() * math.Log(float64(s.SampleSize)+1)
	notes := append([]string(nil), s.RiskNotes...)

	for _, rule := range riskRules {
		if !rule.applies(in) {
			continue
		}
		delta, note := rule.adjust(in, s)
		if delta == 0 {
			continue
		}
		base += delta
		if note != "" {
			notes = append(notes, note)
		}
	}
	if base < 0 {
		base = 0
	}
	return Candidate{
		Config:          s.Config,
		ClinicalScore:   base,
		SampleSize:      s.SampleSize,
		ClinicalContext: notes,
	}
}

func defaultCandidates(category lens.Category) []Candidate {
	cfg := lens.Configuration{
		Type:     category.Types()[0],
		Material: lens.MaterialCR39,
		Coating:  lens.CoatingHardCoat,
	}
	return []Candidate{{
		Config:           cfg,
		ClinicalScore:    0.1,
		ClinicalContext:  []string{"no historical outcome data available for this prescription category"},
		InsufficientData: true,
	}}
}
