package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	googleauth "lensrec-backend/internal/auth"
	"lensrec-backend/internal/catalog"
	"lensrec-backend/internal/notes"
	"lensrec-backend/internal/outcomes"
	"lensrec-backend/internal/recommendations"
	"lensrec-backend/internal/shared/config"
	"lensrec-backend/internal/shared/metrics"
	"lensrec-backend/internal/shared/server/middleware"
	"lensrec-backend/internal/shared/server/respond"
	"lensrec-backend/internal/tenants"
	"lensrec-backend/internal/uploads"
)

// RouterDeps carries the handlers wired by bootstrap.
type RouterDeps struct {
	Config                config.Config
	CatalogHandler        *catalog.Handler
	RecommendationHandler *recommendations.Handler
	OutcomesHandler       *outcomes.Handler
	NotesHandler          *notes.Handler
	TenantsHandler        *tenants.Handler
	GoogleAuth            *googleauth.GoogleService
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Config.Env),
		middleware.RateLimit(rateLimitConfig()),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	api.GET("/metrics", metrics.Handler())

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.TenantsHandler != nil {
		deps.TenantsHandler.RegisterRoutes(api)
	}
	if deps.CatalogHandler != nil {
		deps.CatalogHandler.RegisterRoutes(api)
	}
	if deps.RecommendationHandler != nil {
		deps.RecommendationHandler.RegisterRoutes(api)
	}
	if deps.OutcomesHandler != nil {
		deps.OutcomesHandler.RegisterRoutes(api)
	}
	if deps.NotesHandler != nil {
		deps.NotesHandler.RegisterRoutes(api)
	}
	uploads.RegisterRoutes(api)

	return r
}

// Polling a recommendation by id gets a higher budget than mutating calls so
// dispensing screens can refresh without tripping the default limit.
func rateLimitConfig() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		DefaultGroup: "DEFAULT",
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodGet && c.FullPath() == "/api/v1/recommendations/:id" {
				return "POLLING"
			}
			return "DEFAULT"
		},
		Rules: map[string]middleware.RateLimitRule{
			"DEFAULT": {Rate: 5, Burst: 20},
			"POLLING": {Rate: 20, Burst: 60},
		},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
