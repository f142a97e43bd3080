// Package bootstrap builds the application dependency graph once so the API
// server, the queue worker, and tests all share the same wiring.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "resume-screener/internal/auth"
	"resume-screener/internal/documents"
	"resume-screener/internal/jobsearch"
	"resume-screener/internal/llm"
	openai "resume-screener/internal/llm/openai"
	"resume-screener/internal/match"
	"resume-screener/internal/parser"
	"resume-screener/internal/queue"
	"resume-screener/internal/screenings"
	"resume-screener/internal/services/health"
	"resume-screener/internal/shared/config"
	"resume-screener/internal/shared/server"
	"resume-screener/internal/shared/storage/db"
	"resume-screener/internal/shared/storage/object"
	localstore "resume-screener/internal/shared/storage/object/local"
	s3store "resume-screener/internal/shared/storage/object/s3"
	"resume-screener/internal/shared/telemetry"
	"resume-screener/internal/users"
)

// App holds the shared dependencies for the binaries.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Queue  queue.Client

	DocumentsRepo  documents.Repo
	ScreeningsRepo screenings.Repo
	UsersRepo      users.Repo

	DocumentsService  *documents.Service
	ScreeningsService *screenings.Service
	UsersService      *users.Service

	DocumentsHandler  *documents.Handler
	ScreeningsHandler *screenings.Handler
	JobSearchHandler  *jobsearch.Handler
	UsersHandler      *users.Handler
	GoogleAuth        *googleauth.GoogleService
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

	queueClient, err := buildQueue(ctx)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Queue:  queueClient,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           app.Config,
		Health:           health.NewService(),
		ScreeningHandler: app.ScreeningsHandler,
		DocumentHandler:  app.DocumentsHandler,
		JobSearchHandler: app.JobSearchHandler,
		UserHandler:      app.UsersHandler,
		GoogleAuth:       app.GoogleAuth,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Info("bootstrap.db.memory", map[string]any{
				"reason": "DATABASE_URL empty",
			})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.db.memory", map[string]any{
				"reason": "connect failed",
				"error":  err.Error(),
			})
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
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context) (queue.Client, error) {
	if strings.TrimSpace(os.Getenv("SQS_QUEUE_URL")) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) error {
	var docRepo documents.Repo
	var screeningRepo screenings.Repo
	var userRepo users.Repo

	if app.DB != nil {
		docRepo = &documents.PGRepo{DB: app.DB}
		screeningRepo = &screenings.PGRepo{DB: app.DB}
		userRepo = &users.PGRepo{DB: app.DB}
	} else {
		docRepo = documents.NewMemoryRepo()
		screeningRepo = screenings.NewMemoryRepo()
		userRepo = users.NewMemoryRepo()
	}

	llmClient := llm.Client(llm.PlaceholderClient{})
	if app.Config.LLMProvider == "openai" {
		client, err := openai.NewClient(os.Getenv("OPENAI_API_KEY"), app.Config.LLMModel)
		if err != nil {
			return err
		}
		llmClient = client
	}

	extractor := parser.New()
	scorer := match.NewScorer(match.NewTFIDF())

	docSvc := &documents.Service{Store: app.Store, Repo: docRepo}

	screeningSvc := &screenings.Service{
		Repo:             screeningRepo,
		DocRepo:          docRepo,
		Store:            app.Store,
		Queue:            app.Queue,
		LLM:              llmClient,
		Parser:           extractor,
		Scorer:           scorer,
		AnomalyThreshold: app.Config.AnomalyThreshold,
		RankWorkers:      app.Config.RankWorkers,
	}

	var jobSource jobsearch.Source
	if strings.TrimSpace(app.Config.JobSearchURL) != "" {
		jobSource = jobsearch.NewRemoteSource(app.Config.JobSearchURL)
	} else {
		jobSource = jobsearch.SampleSource{}
	}

	userSvc := users.NewService(userRepo)

	app.DocumentsRepo = docRepo
	app.ScreeningsRepo = screeningRepo
	app.UsersRepo = userRepo
	app.DocumentsService = docSvc
	app.ScreeningsService = screeningSvc
	app.UsersService = userSvc
	app.DocumentsHandler = documents.NewHandler(docSvc)
	app.ScreeningsHandler = screenings.NewHandler(screeningSvc)
	app.JobSearchHandler = jobsearch.NewHandler(jobSource, extractor, scorer, app.Config.MatchThreshold)
	app.UsersHandler = users.NewHandler(userSvc)
	app.GoogleAuth = googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		userSvc,
	)

	return nil
}
