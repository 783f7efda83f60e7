package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "lensrec-backend/internal/auth"
	"lensrec-backend/internal/catalog"
	"lensrec-backend/internal/intent"
	"lensrec-backend/internal/notes"
	"lensrec-backend/internal/outcomes"
	"lensrec-backend/internal/queue"
	"lensrec-backend/internal/recommendations"
	"lensrec-backend/internal/shared/config"
	"lensrec-backend/internal/shared/server"
	"lensrec-backend/internal/shared/storage/db"
	"lensrec-backend/internal/shared/storage/object"
	localstore "lensrec-backend/internal/shared/storage/object/local"
	s3store "lensrec-backend/internal/shared/storage/object/s3"
	"lensrec-backend/internal/tenants"
)

// App holds shared dependencies for the API server and the feedback worker.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Queue  queue.Client

	OutcomesRepo        outcomes.Repo
	CatalogRepo         catalog.Repo
	RecommendationsRepo recommendations.Repo
	NotesRepo           notes.Repo
	TenantsRepo         tenants.Repo

	CatalogService        *catalog.Service
	RecommendationService *recommendations.Service
	NotesService          *notes.Service
	TenantsService        *tenants.Service

	CatalogHandler        *catalog.Handler
	RecommendationHandler *recommendations.Handler
	OutcomesHandler       *outcomes.Handler
	NotesHandler          *notes.Handler
	TenantsHandler        *tenants.Handler
	GoogleAuth            *googleauth.GoogleService
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queueClient, err := buildQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Queue:  queueClient,
	}

	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:                app.Config,
		CatalogHandler:        app.CatalogHandler,
		RecommendationHandler: app.RecommendationHandler,
		OutcomesHandler:       app.OutcomesHandler,
		NotesHandler:          app.NotesHandler,
		TenantsHandler:        app.TenantsHandler,
		GoogleAuth:            app.GoogleAuth,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		opts := db.OptionsFromEnv(db.DefaultLambdaOptions())
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, opts)
	} else {
		opts := db.OptionsFromEnv(db.DefaultServerOptions())
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, opts)
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	if strings.TrimSpace(cfg.FeedbackQueueURL) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx, cfg.FeedbackQueueURL)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) {
	var outcomesRepo outcomes.Repo
	var catalogRepo catalog.Repo
	var recRepo recommendations.Repo
	var notesRepo notes.Repo
	var tenantsRepo tenants.Repo

	if app.DB != nil {
		outcomesRepo = &outcomes.PGRepo{DB: app.DB}
		catalogRepo = &catalog.PGRepo{DB: app.DB}
		recRepo = &recommendations.PGRepo{DB: app.DB}
		notesRepo = &notes.PGRepo{DB: app.DB}
		tenantsRepo = &tenants.PGRepo{DB: app.DB}
	} else {
		outcomesRepo = outcomes.NewMemoryRepo()
		catalogRepo = catalog.NewMemoryRepo()
		recRepo = recommendations.NewMemoryRepo()
		notesRepo = notes.NewMemoryRepo()
		tenantsRepo = tenants.NewMemoryRepo()
	}

	catalogSvc := catalog.NewService(catalogRepo)
	ranker := outcomes.NewRanker(outcomesRepo)
	extractor := intent.NewExtractor()
	recSvc := recommendations.NewService(recRepo, extractor, ranker, catalogSvc)
	notesSvc := &notes.Service{Store: app.Store, Repo: notesRepo}
	tenantsSvc := tenants.NewService(tenantsRepo)

	googleAuthSvc := googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		tenantsSvc,
	)

	app.OutcomesRepo = outcomesRepo
	app.CatalogRepo = catalogRepo
	app.RecommendationsRepo = recRepo
	app.NotesRepo = notesRepo
	app.TenantsRepo = tenantsRepo
	app.CatalogService = catalogSvc
	app.RecommendationService = recSvc
	app.NotesService = notesSvc
	app.TenantsService = tenantsSvc
	app.CatalogHandler = catalog.NewHandler(catalogSvc)
	app.RecommendationHandler = recommendations.NewHandler(recSvc)
	app.OutcomesHandler = outcomes.NewHandler(outcomesRepo, app.Queue)
	app.NotesHandler = notes.NewHandler(notesSvc)
	app.TenantsHandler = tenants.NewHandler(tenantsSvc)
	app.GoogleAuth = googleAuthSvc
}
