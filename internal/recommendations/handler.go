package recommendations

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lensrec-backend/internal/rx"
	"lensrec-backend/internal/shared/server/middleware"
	"lensrec-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis and lifecycle routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/orders/:id/analyze", h.analyze)
	rg.GET("/recommendations", h.list)
	rg.GET("/recommendations/:id", h.get)
	rg.POST("/recommendations/:id/accept", h.accept)
	rg.POST("/recommendations/:id/customize", h.customize)
	rg.POST("/recommendations/:id/reject", h.reject)
}

type analyzeRequest struct {
	Prescription  rx.Prescription `json:"prescription"`
	Frame         rx.Frame        `json:"frame"`
	ClinicalNotes string          `json:"clinicalNotes"`
}

func (h *Handler) analyze(c *gin.Context) {
	tenantID := middleware.TenantIDFromContext(c)
	orderID := c.Param("id")

	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	rec, err := h.Svc.Analyze(c.Request.Context(), AnalyzeRequest{
		TenantID:      tenantID,
		OrderID:       orderID,
		Prescription:  req.Prescription,
		Frame:         req.Frame,
		ClinicalNotes: req.ClinicalNotes,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput), errors.Is(err, rx.ErrInvalidPrescription):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, ErrPersistenceFailure):
			respond.Error(c, http.StatusServiceUnavailable, "persistence_failure", "recommendation could not be stored", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "analysis failed", nil)
		}
		return
	}

	respond.Created(c, rec)
}

func (h *Handler) get(c *gin.Context) {
	tenantID := middleware.TenantIDFromContext(c)

	rec, err := h.Svc.Get(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "recommendation not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch recommendation", nil)
		}
		return
	}
	respond.OK(c, rec)
}

func (h *Handler) list(c *gin.Context) {
	tenantID := middleware.TenantIDFromContext(c)

	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit < 0 {
		limit = 0
	}
	if limit > 50 {
		limit = 50
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}

	recs, err := h.Svc.List(c.Request.Context(), tenantID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list recommendations", nil)
		return
	}
	respond.OK(c, recs)
}

type acceptRequest struct {
	TierLabel TierLabel `json:"tierLabel"`
}

func (h *Handler) accept(c *gin.Context) {
	tenantID := middleware.TenantIDFromContext(c)

	var req acceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	rec, err := h.Svc.AcceptTier(c.Request.Context(), tenantID, c.Param("id"), req.TierLabel)
	if err != nil {
		h.transitionError(c, err)
		return
	}
	respond.OK(c, rec)
}

type customizeRequest struct {
	TierLabel TierLabel      `json:"tierLabel"`
	Overrides map[string]any `json:"overrides"`
}

func (h *Handler) customize(c *gin.Context) {
	tenantID := middleware.TenantIDFromContext(c)

	var req customizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	rec, err := h.Svc.CustomizeTier(c.Request.Context(), tenantID, c.Param("id"), req.TierLabel, req.Overrides)
	if err != nil {
		h.transitionError(c, err)
		return
	}
	respond.OK(c, rec)
}

func (h *Handler) reject(c *gin.Context) {
	tenantID := middleware.TenantIDFromContext(c)

	rec, err := h.Svc.Reject(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		h.transitionError(c, err)
		return
	}
	respond.OK(c, rec)
}

func (h *Handler) transitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "recommendation not found", nil)
	case errors.Is(err, ErrInvalidTransition):
		respond.Error(c, http.StatusConflict, "invalid_transition", "recommendation is already in a terminal state", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update recommendation", nil)
	}
}
