package recommendations

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"lensrec-backend/internal/catalog"
	"lensrec-backend/internal/intent"
	"lensrec-backend/internal/outcomes"
	"lensrec-backend/internal/rx"
	"lensrec-backend/internal/shared/metrics"
	"lensrec-backend/internal/shared/telemetry"
)

const (
	defaultPersistAttempts = 3
	defaultPersistBackoff  = 100 * time.Millisecond

	confidenceIntentWeight   = 0.35
	confidenceEvidenceWeight = 0.35
	confidenceMatchWeight    = 0.30

	// Sample sizes at or above this count as full evidence.
	evidenceSampleCap = 50
)

// AnalyzeRequest is one analysis invocation for an order.
type AnalyzeRequest struct {
	TenantID      string
	OrderID       string
	Prescription  rx.Prescription
	Frame         rx.Frame
	ClinicalNotes string
}

// Service is the fusion orchestrator. It sequences intent extraction, outcome
// ranking, and catalog matching into a persisted tiered recommendation, and
// owns the recommendation lifecycle.
type Service struct {
	Repo      Repo
	Extractor *intent.Extractor
	Ranker    *outcomes.Ranker
	Catalog   *catalog.Service

	PersistAttempts int
	PersistBackoff  time.Duration
}

// NewService constructs a Service with default persistence bounds.
func NewService(repo Repo, extractor *intent.Extractor, ranker *outcomes.Ranker, catalogSvc *catalog.Service) *Service {
	return &Service{
		Repo:            repo,
		Extractor:       extractor,
		Ranker:          ranker,
		Catalog:         catalogSvc,
		PersistAttempts: defaultPersistAttempts,
		PersistBackoff:  defaultPersistBackoff,
	}
}

// Analyze runs the full pipeline for one order. The prescription is validated
// up front as the only hard input failure; every downstream degradation is
// folded into quality flags on a best-effort result. Persistence is retried
// and its exhaustion is the only hard failure after validation, since an
// unpersisted recommendation could never be accepted or rejected later.
func (s *Service) Analyze(ctx context.Context, req AnalyzeRequest) (Recommendation, error) {
	if req.TenantID == "" {
		return Recommendation{}, fmt.Errorf("%w: tenant id is required", ErrInvalidInput)
	}
	if req.OrderID == "" {
		return Recommendation{}, fmt.Errorf("%w: order id is required", ErrInvalidInput)
	}
	if err := req.Prescription.Validate(); err != nil {
		return Recommendation{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	metrics.IncAnalysisStarted()
	start := time.Now()

	// Intent extraction and the catalog load are independent legs.
	var (
		res       intent.Result
		products  []catalog.Product
		catalogOK bool
	)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		res = s.Extractor.Extract(req.ClinicalNotes)
	}()
	go func() {
		defer wg.Done()
		products, catalogOK = s.Catalog.Snapshot(ctx, req.TenantID)
	}()
	wg.Wait()

	candidates, statsDegraded := s.Ranker.Rank(ctx, req.Prescription, req.Frame, res)

	var matches []catalog.Match
	if catalogOK {
		matches = catalog.MatchProducts(candidates, products)
	}

	flags := make([]string, 0, 2)
	if statsDegraded {
		flags = append(flags, FlagInsufficientData)
	}
	if !catalogOK {
		flags = append(flags, FlagCatalogUnavailable)
	}

	now := time.Now().UTC()
	rec := Recommendation{
		ID:                uuid.NewString(),
		TenantID:          req.TenantID,
		OrderID:           req.OrderID,
		Status:            StatusGenerated,
		Tiers:             assembleTiers(matches, res),
		Intent:            res,
		OverallConfidence: overallConfidence(res, candidates, matches),
		QualityFlags:      flags,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.persist(ctx, rec); err != nil {
		metrics.IncAnalysisFailed()
		telemetry.Error("analysis.persist_failed", map[string]any{
			"tenant_id": req.TenantID,
			"order_id":  req.OrderID,
			"error":     err.Error(),
		})
		return Recommendation{}, err
	}

	metrics.IncAnalysisCompleted()
	if len(flags) > 0 {
		metrics.IncAnalysisDegraded()
	}
	metrics.ObserveAnalysisDurationMs(float64(time.Since(start).Milliseconds()))
	telemetry.Info("analysis.completed", map[string]any{
		"tenant_id":         req.TenantID,
		"order_id":          req.OrderID,
		"recommendation_id": rec.ID,
		"tier_count":        len(rec.Tiers),
		"confidence":        rec.OverallConfidence,
		"quality_flags":     flags,
	})
	return rec, nil
}

// Get fetches one recommendation scoped to the tenant.
func (s *Service) Get(ctx context.Context, tenantID, id string) (Recommendation, error) {
	return s.Repo.GetByID(ctx, tenantID, id)
}

// List returns the tenant's recommendations newest first.
func (s *Service) List(ctx context.Context, tenantID string, limit, offset int) ([]Recommendation, error) {
	return s.Repo.ListByTenant(ctx, tenantID, limit, offset)
}

// AcceptTier marks one tier as the dispensed choice and closes the
// recommendation.
func (s *Service) AcceptTier(ctx context.Context, tenantID, id string, label TierLabel) (Recommendation, error) {
	if err := s.requireTier(ctx, tenantID, id, label); err != nil {
		return Recommendation{}, err
	}
	return s.apply(ctx, tenantID, id, Transition{To: StatusAccepted, SelectedTier: label})
}

// CustomizeTier records the caller's overrides against one tier and closes
// the recommendation. The original tiers stay untouched for audit.
func (s *Service) CustomizeTier(ctx context.Context, tenantID, id string, label TierLabel, overrides map[string]any) (Recommendation, error) {
	if len(overrides) == 0 {
		return Recommendation{}, fmt.Errorf("%w: overrides are required", ErrInvalidInput)
	}
	if err := s.requireTier(ctx, tenantID, id, label); err != nil {
		return Recommendation{}, err
	}
	return s.apply(ctx, tenantID, id, Transition{To: StatusCustomized, SelectedTier: label, Overrides: overrides})
}

// Reject closes the recommendation without a selection.
func (s *Service) Reject(ctx context.Context, tenantID, id string) (Recommendation, error) {
	return s.apply(ctx, tenantID, id, Transition{To: StatusRejected})
}

func (s *Service) requireTier(ctx context.Context, tenantID, id string, label TierLabel) error {
	if !label.Valid() {
		return fmt.Errorf("%w: unknown tier label %q", ErrInvalidInput, label)
	}
	rec, err := s.Repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if _, ok := rec.TierByLabel(label); !ok {
		return fmt.Errorf("%w: recommendation has no %s tier", ErrInvalidInput, label)
	}
	return nil
}

func (s *Service) apply(ctx context.Context, tenantID, id string, tr Transition) (Recommendation, error) {
	rec, err := s.Repo.Apply(ctx, tenantID, id, tr)
	if err != nil {
		return Recommendation{}, err
	}
	telemetry.Info("recommendation.transition", map[string]any{
		"tenant_id":         tenantID,
		"recommendation_id": id,
		"status_transition": fmt.Sprintf("%s->%s", StatusGenerated, tr.To),
		"selected_tier":     string(tr.SelectedTier),
	})
	return rec, nil
}

func (s *Service) persist(ctx context.Context, rec Recommendation) error {
	attempts := s.PersistAttempts
	if attempts <= 0 {
		attempts = defaultPersistAttempts
	}
	backoff := s.PersistBackoff
	if backoff <= 0 {
		backoff = defaultPersistBackoff
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("%w: %v", ErrPersistenceFailure, ctx.Err())
			case <-time.After(backoff << (attempt - 1)):
			}
		}
		if lastErr = s.Repo.Create(ctx, rec); lastErr == nil {
			return nil
		}
		telemetry.Warn("analysis.persist_retry", map[string]any{
			"recommendation_id": rec.ID,
			"attempt":           attempt + 1,
			"error":             lastErr.Error(),
		})
	}
	return fmt.Errorf("%w: %v", ErrPersistenceFailure, lastErr)
}

// assembleTiers maps the ordered matches onto the fixed tier labels. Fewer
// matches yield fewer tiers; a missing tier is never fabricated.
func assembleTiers(matches []catalog.Match, res intent.Result) []Tier {
	labels := tierLabels()
	n := len(matches)
	if n > len(labels) {
		n = len(labels)
	}
	tiers := make([]Tier, 0, n)
	for i := 0; i < n; i++ {
		m := matches[i]
		clinical, lifestyle := buildJustifications(m, res)
		tiers = append(tiers, Tier{
			Label:                  labels[i],
			SKU:                    m.Product.SKU,
			PriceCents:             m.Product.PriceCents,
			Configuration:          *m.Product.Lens,
			MatchScore:             m.Score,
			ClinicalScore:          m.Candidate.ClinicalScore,
			ClinicalJustification:  clinical,
			LifestyleJustification: lifestyle,
		})
	}
	return tiers
}

// overallConfidence blends the three legs: mean tag confidence, evidence depth
// behind the strongest candidate, and the best match score. Each leg is in
// [0,1], so the weighted sum is too.
func overallConfidence(res intent.Result, candidates []outcomes.Candidate, matches []catalog.Match) float64 {
	var maxSample int
	for _, c := range candidates {
		if !c.InsufficientData && c.SampleSize > maxSample {
			maxSample = c.SampleSize
		}
	}
	evidence := math.Log(float64(maxSample)+1) / math.Log(float64(evidenceSampleCap)+1)
	if evidence > 1 {
		evidence = 1
	}

	var bestMatch float64
	if len(matches) > 0 {
		bestMatch = matches[0].Score
	}

	v := confidenceIntentWeight*res.ConfidenceAvg() +
		confidenceEvidenceWeight*evidence +
		confidenceMatchWeight*bestMatch
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
