package tenants

import (
	"context"
	"errors"
	"strings"
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// UpsertFromAuth persists the practice identity from OAuth so recommendations
// and catalogs stay attached to a stable tenant id.
func (s *Service) UpsertFromAuth(ctx context.Context, tenant Tenant) error {
	if s == nil || s.Repo == nil {
		return errors.New("tenants service not configured")
	}
	if strings.TrimSpace(tenant.ID) == "" || strings.TrimSpace(tenant.Email) == "" {
		return errors.New("tenant id and email are required")
	}
	if strings.TrimSpace(tenant.PracticeName) == "" {
		tenant.PracticeName = tenant.Email
	}
	return s.Repo.Upsert(ctx, tenant)
}

func (s *Service) GetByID(ctx context.Context, tenantID string) (Tenant, error) {
	if s == nil || s.Repo == nil {
		return Tenant{}, errors.New("tenants service not configured")
	}
	if strings.TrimSpace(tenantID) == "" {
		return Tenant{}, errors.New("tenant id is required")
	}
	return s.Repo.GetByID(ctx, tenantID)
}
