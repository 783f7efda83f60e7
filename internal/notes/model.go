package notes

import "time"

// Document is an uploaded clinical-notes file attached to a tenant's order.
type Document struct {
	ID               string
	TenantID         string
	OrderID          string
	FileName         string
	MimeType         string
	SizeBytes        int64
	StorageProvider  string
	StorageKey       string
	ExtractedTextKey string
	ExtractedAt      *time.Time
	CreatedAt        time.Time
}
