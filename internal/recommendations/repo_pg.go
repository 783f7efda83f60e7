package recommendations

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"lensrec-backend/internal/intent"
)

// PGRepo implements Repo using Postgres. Tiers, the intent snapshot, quality
// flags, and customization overrides are stored as JSONB.
type PGRepo struct {
	DB *sql.DB
}

const recommendationColumns = `id, tenant_id, order_id, status, tiers, intent, quality_flags, overall_confidence, selected_tier, overrides, created_at, updated_at`

// Create inserts a new recommendation.
func (r *PGRepo) Create(ctx context.Context, rec Recommendation) error {
	tiers, err := json.Marshal(rec.Tiers)
	if err != nil {
		return err
	}
	snapshot, err := json.Marshal(rec.Intent)
	if err != nil {
		return err
	}
	flags, err := json.Marshal(rec.QualityFlags)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(ctx, `
INSERT INTO recommendations (id, tenant_id, order_id, status, tiers, intent, quality_flags, overall_confidence, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rec.ID, rec.TenantID, rec.OrderID, string(rec.Status),
		tiers, snapshot, flags, rec.OverallConfidence,
		rec.CreatedAt, rec.UpdatedAt)
	return err
}

// GetByID fetches one recommendation scoped to the tenant.
func (r *PGRepo) GetByID(ctx context.Context, tenantID, id string) (Recommendation, error) {
	row := r.DB.QueryRowContext(ctx, `
SELECT `+recommendationColumns+`
FROM recommendations
WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	return scanRecommendation(row)
}

// ListByTenant returns the tenant's recommendations newest first.
func (r *PGRepo) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]Recommendation, error) {
	rows, err := r.DB.QueryContext(ctx, `
SELECT `+recommendationColumns+`
FROM recommendations
WHERE tenant_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3`, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Recommendation, 0, limit)
	for rows.Next() {
		rec, err := scanRecommendation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Apply moves a generated recommendation into a terminal state. The guarded
// UPDATE keeps concurrent transitions from both succeeding.
func (r *PGRepo) Apply(ctx context.Context, tenantID, id string, tr Transition) (Recommendation, error) {
	if !tr.To.Terminal() {
		return Recommendation{}, fmt.Errorf("%w: target status %q is not terminal", ErrInvalidTransition, tr.To)
	}

	var overrides any
	if tr.Overrides != nil {
		raw, err := json.Marshal(tr.Overrides)
		if err != nil {
			return Recommendation{}, err
		}
		overrides = raw
	}
	var selected any
	if tr.SelectedTier != "" {
		selected = string(tr.SelectedTier)
	}

	res, err := r.DB.ExecContext(ctx, `
UPDATE recommendations SET
  status = $1,
  selected_tier = $2,
  overrides = $3,
  updated_at = now()
WHERE tenant_id = $4 AND id = $5 AND status = $6`,
		string(tr.To), selected, overrides, tenantID, id, string(StatusGenerated))
	if err != nil {
		return Recommendation{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Recommendation{}, err
	}
	if affected == 0 {
		// Either the row is missing or it is already terminal.
		if _, err := r.GetByID(ctx, tenantID, id); err != nil {
			return Recommendation{}, err
		}
		return Recommendation{}, ErrInvalidTransition
	}
	return r.GetByID(ctx, tenantID, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecommendation(row rowScanner) (Recommendation, error) {
	var rec Recommendation
	var status string
	var tiers, snapshot, flags []byte
	var selected sql.NullString
	var overrides []byte

	err := row.Scan(&rec.ID, &rec.TenantID, &rec.OrderID, &status,
		&tiers, &snapshot, &flags, &rec.OverallConfidence,
		&selected, &overrides, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Recommendation{}, ErrNotFound
		}
		return Recommendation{}, err
	}

	rec.Status = Status(status)
	if err := json.Unmarshal(tiers, &rec.Tiers); err != nil {
		return Recommendation{}, err
	}
	rec.Intent = intent.Result{}
	if len(snapshot) > 0 {
		if err := json.Unmarshal(snapshot, &rec.Intent); err != nil {
			return Recommendation{}, err
		}
	}
	if len(flags) > 0 {
		if err := json.Unmarshal(flags, &rec.QualityFlags); err != nil {
			return Recommendation{}, err
		}
	}
	if selected.Valid {
		rec.SelectedTier = TierLabel(selected.String)
	}
	if len(overrides) > 0 {
		if err := json.Unmarshal(overrides, &rec.Overrides); err != nil {
			return Recommendation{}, err
		}
	}
	return rec, nil
}
