package tenants

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Upsert(ctx context.Context, tenant Tenant) error {
	const query = `
INSERT INTO tenants (id, practice_name, email, created_at, updated_at)
VALUES ($1, $2, $3, now(), now())
ON CONFLICT (id) DO UPDATE SET
  practice_name = EXCLUDED.practice_name,
  email = EXCLUDED.email,
  updated_at = now()`
	_, err := r.DB.ExecContext(ctx, query,
		tenant.ID,
		tenant.PracticeName,
		tenant.Email,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, tenantID string) (Tenant, error) {
	const query = `
SELECT id, practice_name, email, created_at, updated_at
FROM tenants
WHERE id = $1
LIMIT 1`
	var tenant Tenant
	var updatedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, tenantID).Scan(
		&tenant.ID,
		&tenant.PracticeName,
		&tenant.Email,
		&tenant.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Tenant{}, ErrNotFound
		}
		return Tenant{}, err
	}
	if updatedAt.Valid {
		tenant.UpdatedAt = updatedAt.Time
	} else {
		tenant.UpdatedAt = time.Now().UTC()
	}
	return tenant, nil
}

var _ Repo = (*PGRepo)(nil)
