package catalog

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"lensrec-backend/internal/lens"
	"lensrec-backend/internal/shared/server/middleware"
	"lensrec-backend/internal/shared/server/respond"
)

const maxCatalogProducts = 5000

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches catalog routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/catalog", h.list)
	rg.PUT("/catalog", h.replace)
}

type productPayload struct {
	SKU           string              `json:"sku"`
	Attributes    *lens.Configuration `json:"attributes"`
	PriceCents    int64               `json:"priceCents"`
	StockQuantity int                 `json:"stockQuantity"`
}

type replaceRequest struct {
	Products []productPayload `json:"products"`
}

type productResponse struct {
	SKU           string              `json:"sku"`
	Attributes    *lens.Configuration `json:"attributes,omitempty"`
	PriceCents    int64               `json:"priceCents"`
	StockQuantity int                 `json:"stockQuantity"`
	InStock       bool                `json:"inStock"`
	LastUpdated   time.Time           `json:"lastUpdated"`
}

func (h *Handler) list(c *gin.Context) {
	tenantID := middleware.TenantIDFromContext(c)

	products, err := h.Svc.ListProducts(c.Request.Context(), tenantID)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list catalog", nil)
		}
		return
	}

	resp := make([]productResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, productResponse{
			SKU:           p.SKU,
			Attributes:    p.Lens,
			PriceCents:    p.PriceCents,
			StockQuantity: p.StockQuantity,
			InStock:       p.InStock(),
			LastUpdated:   p.LastUpdated,
		})
	}
	respond.OK(c, gin.H{"products": resp})
}

func (h *Handler) replace(c *gin.Context) {
	tenantID := middleware.TenantIDFromContext(c)

	var req replaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if len(req.Products) > maxCatalogProducts {
		respond.Error(c, http.StatusBadRequest, "validation_error", "catalog exceeds product limit", nil)
		return
	}

	products := make([]Product, 0, len(req.Products))
	for _, p := range req.Products {
		products = append(products, Product{
			SKU:           strings.TrimSpace(p.SKU),
			Lens:          p.Attributes,
			PriceCents:    p.PriceCents,
			StockQuantity: p.StockQuantity,
		})
	}

	if err := h.Svc.Replace(c.Request.Context(), tenantID, products); err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to replace catalog", nil)
		}
		return
	}

	respond.OK(c, gin.H{"productCount": len(products)})
}
