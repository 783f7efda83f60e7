package notes

import (
	"context"
	"time"
)

// Repo defines persistence operations for note documents.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, tenantID, noteID string) (Document, error)
	GetCurrentByOrder(ctx context.Context, tenantID, orderID string) (Document, error)
	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]Document, error)
	UpdateExtraction(ctx context.Context, tenantID, noteID, extractedKey string, extractedAt time.Time) error
}
