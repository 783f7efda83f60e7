package catalog

import (
	"context"
	"database/sql"

	"lensrec-backend/internal/lens"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const productColumns = `sku, lens_type, lens_material, coating, price_cents, stock_quantity, updated_at`

// ListByTenant returns the tenant's products in SKU order.
func (r *PGRepo) ListByTenant(ctx context.Context, tenantID string) ([]Product, error) {
	rows, err := r.DB.QueryContext(ctx, `
SELECT `+productColumns+`
FROM catalog_products
WHERE tenant_id = $1
ORDER BY sku`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Product, 0, 32)
	for rows.Next() {
		var p Product
		var lensType, material, coating sql.NullString
		if err := rows.Scan(&p.SKU, &lensType, &material, &coating,
			&p.PriceCents, &p.StockQuantity, &p.LastUpdated); err != nil {
			return nil, err
		}
		p.TenantID = tenantID
		if lensType.Valid {
			p.Lens = &lens.Configuration{
				Type:     lens.Type(lensType.String),
				Material: lens.Material(material.String),
				Coating:  lens.Coating(coating.String),
			}
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ReplaceTenantCatalog swaps the tenant's catalog for the given snapshot in a
// single transaction so readers never observe a half-replaced catalog.
func (r *PGRepo) ReplaceTenantCatalog(ctx context.Context, tenantID string, products []Product) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM catalog_products WHERE tenant_id = $1`, tenantID); err != nil {
		return err
	}

	for _, p := range products {
		var lensType, material, coating any
		if p.Lens != nil {
			lensType = string(p.Lens.Type)
			material = string(p.Lens.Material)
			coating = string(p.Lens.Coating)
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO catalog_products (tenant_id, sku, lens_type, lens_material, coating, price_cents, stock_quantity, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now())`,
			tenantID, p.SKU, lensType, material, coating, p.PriceCents, p.StockQuantity); err != nil {
			return err
		}
	}
	return tx.Commit()
}
