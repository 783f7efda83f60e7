package notes

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Document // tenantID -> documents
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string][]Document),
	}
}

// Create appends a note document for a tenant.
func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[doc.TenantID] = append(r.data[doc.TenantID], doc)
	return nil
}

// GetByID returns a note document by id for a tenant.
func (r *MemoryRepo) GetByID(ctx context.Context, tenantID, noteID string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, doc := range r.data[tenantID] {
		if doc.ID == noteID {
			return doc, nil
		}
	}
	return Document{}, ErrNotFound
}

// GetCurrentByOrder returns the most recent note document for an order.
func (r *MemoryRepo) GetCurrentByOrder(ctx context.Context, tenantID, orderID string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	docs := r.data[tenantID]
	for i := len(docs) - 1; i >= 0; i-- {
		if docs[i].OrderID == orderID {
			return docs[i], nil
		}
	}
	return Document{}, ErrNotFound
}

// ListByTenant returns note documents newest first, honoring limit/offset.
func (r *MemoryRepo) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	tenantDocs := r.data[tenantID]
	r.mu.RUnlock()

	if len(tenantDocs) == 0 || offset >= len(tenantDocs) {
		return []Document{}, nil
	}

	docs := make([]Document, len(tenantDocs))
	copy(docs, tenantDocs)
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})

	end := len(docs)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	return docs[offset:end], nil
}

// UpdateExtraction stores the extracted text key once per document.
func (r *MemoryRepo) UpdateExtraction(ctx context.Context, tenantID, noteID, extractedKey string, extractedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	docs := r.data[tenantID]
	for i := range docs {
		if docs[i].ID == noteID {
			if docs[i].ExtractedTextKey == "" {
				docs[i].ExtractedTextKey = extractedKey
				docs[i].ExtractedAt = &extractedAt
				r.data[tenantID] = docs
			}
			return nil
		}
	}
	return ErrNotFound
}

var _ Repo = (*MemoryRepo)(nil)
