package notes

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"lensrec-backend/internal/extract"
	"lensrec-backend/internal/shared/storage/object"
)

// Service contains business logic for clinical-note documents.
type Service struct {
	Store object.ObjectStore
	Repo  Repo
}

// Upload saves the file to object storage and records the note document.
func (s *Service) Upload(ctx context.Context, tenantID, orderID, fileName string, r io.Reader) (Document, error) {
	if strings.TrimSpace(tenantID) == "" {
		return Document{}, fmt.Errorf("%w: tenant id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(orderID) == "" {
		return Document{}, fmt.Errorf("%w: orderId is required", ErrInvalidInput)
	}
	if fileName == "" {
		return Document{}, fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}

	storageKey, size, mimeType, err := s.Store.Save(ctx, tenantID, fileName, r)
	if err != nil {
		return Document{}, err
	}

	doc := Document{
		ID:         uuid.NewString(),
		TenantID:   tenantID,
		OrderID:    orderID,
		FileName:   fileName,
		MimeType:   mimeType,
		SizeBytes:  size,
		StorageKey: storageKey,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, err
	}

	return doc, nil
}

// CreateFromS3 records a note document already uploaded through a presigned URL.
func (s *Service) CreateFromS3(ctx context.Context, tenantID, orderID, s3Key, fileName, contentType string, sizeBytes int64) (Document, error) {
	if strings.TrimSpace(tenantID) == "" {
		return Document{}, fmt.Errorf("%w: tenant id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(orderID) == "" {
		return Document{}, fmt.Errorf("%w: orderId is required", ErrInvalidInput)
	}

	doc := Document{
		ID:              uuid.NewString(),
		TenantID:        tenantID,
		OrderID:         orderID,
		FileName:        fileName,
		MimeType:        contentType,
		SizeBytes:       sizeBytes,
		StorageProvider: "s3",
		StorageKey:      s3Key,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, err
	}

	return doc, nil
}

// CurrentForOrder returns the latest note document attached to an order.
func (s *Service) CurrentForOrder(ctx context.Context, tenantID, orderID string) (Document, error) {
	if strings.TrimSpace(orderID) == "" {
		return Document{}, fmt.Errorf("%w: orderId is required", ErrInvalidInput)
	}
	return s.Repo.GetCurrentByOrder(ctx, tenantID, orderID)
}

// List returns a tenant's note documents newest first.
func (s *Service) List(ctx context.Context, tenantID string, limit, offset int) ([]Document, error) {
	return s.Repo.ListByTenant(ctx, tenantID, limit, offset)
}

// ExtractText pulls plain text out of a stored note document and records the
// derived text key on the document. Repeated calls reuse the stored copy.
func (s *Service) ExtractText(ctx context.Context, tenantID, noteID string) (Document, string, error) {
	doc, err := s.Repo.GetByID(ctx, tenantID, noteID)
	if err != nil {
		return Document{}, "", err
	}
	if doc.StorageKey == "" {
		return Document{}, "", fmt.Errorf("%w: note document has no stored file", ErrInvalidInput)
	}

	if doc.ExtractedTextKey != "" {
		body, err := s.Store.Open(ctx, doc.ExtractedTextKey)
		if err == nil {
			defer body.Close()
			raw, readErr := io.ReadAll(body)
			if readErr == nil {
				return doc, string(raw), nil
			}
		}
	}

	text, err := extract.ExtractText(ctx, s.Store, doc.StorageKey, doc.MimeType, doc.FileName)
	if err != nil {
		return Document{}, "", err
	}

	extractedAt := time.Now().UTC()
	extractedKey := doc.StorageKey + ".extracted.txt"
	if err := s.Repo.UpdateExtraction(ctx, tenantID, noteID, extractedKey, extractedAt); err != nil {
		return Document{}, "", err
	}
	doc.ExtractedTextKey = extractedKey
	doc.ExtractedAt = &extractedAt

	return doc, text, nil
}
