package outcomes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"lensrec-backend/internal/lens"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const statisticColumns = `lens_type, lens_material, coating, sample_size, successes, non_adapts, remakes, risk_notes, updated_at`

// ListByCategory returns statistics for every lens type in the category.
func (r *PGRepo) ListByCategory(ctx context.Context, category lens.Category) ([]Statistic, error) {
	types := category.Types()
	args := make([]any, 0, len(types))
	placeholders := ""
	for i, t := range types {
		if i > 0 {
			placeholders += ", "
		}
		placeholders += fmt.Sprintf("$%d", i+1)
		args = append(args, string(t))
	}
	query := `
SELECT ` + statisticColumns + `
FROM outcome_statistics
WHERE lens_type IN (` + placeholders + `)
ORDER BY lens_type, lens_material, coating`
	return r.list(ctx, query, args...)
}

// ListAll returns every statistic row.
func (r *PGRepo) ListAll(ctx context.Context) ([]Statistic, error) {
	query := `
SELECT ` + statisticColumns + `
FROM outcome_statistics
ORDER BY lens_type, lens_material, coating`
	return r.list(ctx, query)
}

// RecordOutcome increments the counters for one configuration under a row
// lock. The row is created on first outcome; sample size always grows by
// exactly one per call regardless of concurrent interleaving.
func (r *PGRepo) RecordOutcome(ctx context.Context, configurationKey string, outcome OutcomeType) error {
	if !outcome.Valid() {
		return ErrInvalidOutcome
	}
	cfg, err := lens.ParseKey(configurationKey)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOutcome, err)
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Serialize per configuration key to avoid lost updates.
	var exists bool
	row := tx.QueryRowContext(ctx, `
SELECT true FROM outcome_statistics
WHERE lens_type = $1 AND lens_material = $2 AND coating = $3
FOR UPDATE`, string(cfg.Type), string(cfg.Material), string(cfg.Coating))
	if err := row.Scan(&exists); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO outcome_statistics (lens_type, lens_material, coating, sample_size, successes, non_adapts, remakes, updated_at)
VALUES ($1, $2, $3, 1, $4, $5, $6, now())
ON CONFLICT (lens_type, lens_material, coating) DO UPDATE SET
  sample_size = outcome_statistics.sample_size + 1,
  successes = outcome_statistics.successes + EXCLUDED.successes,
  non_adapts = outcome_statistics.non_adapts + EXCLUDED.non_adapts,
  remakes = outcome_statistics.remakes + EXCLUDED.remakes,
  updated_at = now()`,
			string(cfg.Type), string(cfg.Material), string(cfg.Coating),
			delta(outcome, OutcomeSuccess), delta(outcome, OutcomeNonAdapt), delta(outcome, OutcomeRemake)); err != nil {
			return err
		}
		return tx.Commit()
	}

	if _, err := tx.ExecContext(ctx, `
UPDATE outcome_statistics SET
  sample_size = sample_size + 1,
  successes = successes + $4,
  non_adapts = non_adapts + $5,
  remakes = remakes + $6,
  updated_at = now()
WHERE lens_type = $1 AND lens_material = $2 AND coating = $3`,
		string(cfg.Type), string(cfg.Material), string(cfg.Coating),
		delta(outcome, OutcomeSuccess), delta(outcome, OutcomeNonAdapt), delta(outcome, OutcomeRemake)); err != nil {
		return err
	}
	return tx.Commit()
}

func delta(got, want OutcomeType) int {
	if got == want {
		return 1
	}
	return 0
}

func (r *PGRepo) list(ctx context.Context, query string, args ...any) ([]Statistic, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Statistic, 0, 16)
	for rows.Next() {
		var s Statistic
		var lensType, material, coating string
		var riskNotes sql.NullString
		if err := rows.Scan(&lensType, &material, &coating,
			&s.SampleSize, &s.Successes, &s.NonAdapts, &s.Remakes,
			&riskNotes, &s.UpdatedAt); err != nil {
			return nil, err
		}
		s.Config = lens.Configuration{
			Type:     lens.Type(lensType),
			Material: lens.Material(material),
			Coating:  lens.Coating(coating),
		}
		if riskNotes.Valid && riskNotes.String != "" {
			s.RiskNotes = splitNotes(riskNotes.String)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func splitNotes(raw string) []string {
	parts := strings.Split(raw, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
