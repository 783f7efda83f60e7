package tenants

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lensrec-backend/internal/shared/server/middleware"
	"lensrec-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
}

func (h *Handler) me(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}
	tenantID := middleware.TenantIDFromContext(c)
	tenant, err := h.Svc.GetByID(c.Request.Context(), tenantID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "tenant not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load tenant", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"id":           tenant.ID,
		"practiceName": tenant.PracticeName,
		"email":        tenant.Email,
	})
}
