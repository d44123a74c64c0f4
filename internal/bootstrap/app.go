package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"legal-docs-backend/internal/analyses"
	"legal-docs-backend/internal/chats"
	"legal-docs-backend/internal/documents"
	"legal-docs-backend/internal/extract"
	"legal-docs-backend/internal/llm"
	"legal-docs-backend/internal/llm/gemini"
	"legal-docs-backend/internal/services/health"
	"legal-docs-backend/internal/shared/config"
	"legal-docs-backend/internal/shared/server"
	"legal-docs-backend/internal/shared/storage/db"
	"legal-docs-backend/internal/shared/storage/object"
	localstore "legal-docs-backend/internal/shared/storage/object/local"
	miniostore "legal-docs-backend/internal/shared/storage/object/minio"
	s3store "legal-docs-backend/internal/shared/storage/object/s3"
	"legal-docs-backend/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	Store            object.ObjectStore
	DocumentsRepo    documents.Repo
	ChatsRepo        chats.Repo
	Extractor        *extract.Extractor
	LLM              llm.Client
	DocumentsService *documents.Service
	AnalysesService  *analyses.Service
	DocumentsHandler *documents.Handler
	AnalysisHandler  *analyses.Handler
	Health           *health.Service
}

// Build prepares shared dependencies and the HTTP router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	ocr, err := buildOCR(ctx, cfg, store)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:    cfg,
		DB:        sqlDB,
		Store:     store,
		Extractor: extract.New(store, ocr),
		LLM: gemini.NewClient(gemini.Config{
			APIKey:      cfg.GeminiAPIKey,
			Endpoint:    cfg.GeminiEndpoint,
			Model:       cfg.GeminiModel,
			MaxAttempts: cfg.LLMMaxAttempts,
			Timeout:     cfg.LLMTimeout,
			BaseDelay:   cfg.LLMRetryBase,
		}),
	}
	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		telemetry.Warn("bootstrap.gemini_key_missing", map[string]any{
			"env": cfg.Env,
		})
	}

	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		DocumentHandler: app.DocumentsHandler,
		AnalysisHandler: app.AnalysisHandler,
		Health:          app.Health,
	})

	return app, nil
}

// Close releases the database pool, if any.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Info("bootstrap.memory_repositories", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "database connect failed", "error": err})
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	case "minio":
		return miniostore.New(ctx, miniostore.Config{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			Region:    cfg.AWSRegion,
			UseSSL:    cfg.MinioUseSSL,
		})
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildOCR(ctx context.Context, cfg config.Config, store object.ObjectStore) (extract.OCR, error) {
	switch cfg.OCRProvider {
	case "textract":
		return extract.NewTextractOCR(ctx, cfg.TextractRegion, store)
	default:
		return extract.PlaceholderOCR{}, nil
	}
}

func buildServices(app *App) {
	if app.DB != nil {
		app.DocumentsRepo = &documents.PGRepo{DB: app.DB}
		app.ChatsRepo = &chats.PGRepo{DB: app.DB}
	} else {
		app.DocumentsRepo = documents.NewMemoryRepo()
		app.ChatsRepo = chats.NewMemoryRepo()
	}

	app.DocumentsService = &documents.Service{
		Store:    app.Store,
		Repo:     app.DocumentsRepo,
		Chats:    app.ChatsRepo,
		MaxBytes: app.Config.MaxUploadSizeMB << 20,
	}
	app.AnalysesService = &analyses.Service{
		Docs:      app.DocumentsRepo,
		Chats:     app.ChatsRepo,
		Extractor: app.Extractor,
		LLM:       app.LLM,
	}
	app.DocumentsHandler = documents.NewHandler(app.DocumentsService)
	app.AnalysisHandler = analyses.NewHandler(app.AnalysesService)

	var pinger health.Pinger
	if app.DB != nil {
		pinger = app.DB
	}
	app.Health = health.NewService(pinger, app.Config.ObjectStoreType, strings.TrimSpace(app.Config.GeminiAPIKey) != "")
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
