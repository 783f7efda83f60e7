package notes

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

const noteColumns = `id, tenant_id, order_id, file_name, mime_type, size_bytes, storage_provider, storage_key, extracted_text_key, extracted_at, created_at`

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new note document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO note_documents (
    id,
    tenant_id,
    order_id,
    file_name,
    mime_type,
    size_bytes,
    storage_provider,
    storage_key,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	provider := doc.StorageProvider
	if provider == "" {
		provider = "local"
	}

	var storageKey sql.NullString
	if doc.StorageKey != "" {
		storageKey = sql.NullString{String: doc.StorageKey, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.TenantID,
		doc.OrderID,
		doc.FileName,
		doc.MimeType,
		doc.SizeBytes,
		provider,
		storageKey,
		doc.CreatedAt,
	)
	return err
}

// GetByID fetches a note document scoped to a tenant.
func (r *PGRepo) GetByID(ctx context.Context, tenantID, noteID string) (Document, error) {
	const query = `
SELECT ` + noteColumns + `
FROM note_documents
WHERE tenant_id = $1 AND id = $2
LIMIT 1`
	return scanDocument(r.DB.QueryRowContext(ctx, query, tenantID, noteID))
}

// GetCurrentByOrder returns the latest note document for an order.
func (r *PGRepo) GetCurrentByOrder(ctx context.Context, tenantID, orderID string) (Document, error) {
	const query = `
SELECT ` + noteColumns + `
FROM note_documents
WHERE tenant_id = $1 AND order_id = $2
ORDER BY created_at DESC
LIMIT 1`
	return scanDocument(r.DB.QueryRowContext(ctx, query, tenantID, orderID))
}

// ListByTenant lists note documents newest-first.
func (r *PGRepo) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]Document, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT ` + noteColumns + `
FROM note_documents
WHERE tenant_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// UpdateExtraction stores the extracted text key once per document.
func (r *PGRepo) UpdateExtraction(ctx context.Context, tenantID, noteID, extractedKey string, extractedAt time.Time) error {
	const query = `
UPDATE note_documents
SET extracted_text_key = $1, extracted_at = $2
WHERE tenant_id = $3 AND id = $4 AND extracted_text_key IS NULL`
	_, err := r.DB.ExecContext(ctx, query, extractedKey, extractedAt, tenantID, noteID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var provider sql.NullString
	var storageKey sql.NullString
	var extractedKey sql.NullString
	var extractedAt sql.NullTime
	err := row.Scan(
		&doc.ID,
		&doc.TenantID,
		&doc.OrderID,
		&doc.FileName,
		&doc.MimeType,
		&doc.SizeBytes,
		&provider,
		&storageKey,
		&extractedKey,
		&extractedAt,
		&doc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	if provider.Valid {
		doc.StorageProvider = provider.String
	}
	if storageKey.Valid {
		doc.StorageKey = storageKey.String
	}
	if extractedKey.Valid {
		doc.ExtractedTextKey = extractedKey.String
	}
	if extractedAt.Valid {
		doc.ExtractedAt = &extractedAt.Time
	}
	return doc, nil
}

var _ Repo = (*PGRepo)(nil)
