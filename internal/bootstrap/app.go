package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"signaldrift-backend/internal/docstore"
	"signaldrift-backend/internal/documents"
	"signaldrift-backend/internal/llm"
	"signaldrift-backend/internal/llm/anthropic"
	"signaldrift-backend/internal/prompts"
	"signaldrift-backend/internal/runs"
	"signaldrift-backend/internal/shared/config"
	"signaldrift-backend/internal/shared/server"
	"signaldrift-backend/internal/shared/storage/db"
	"signaldrift-backend/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  *docstore.Store

	PromptsRepo prompts.Repo
	RunsRepo    runs.Repo

	DocumentsService *documents.Service
	PromptsService   *prompts.Service
	RunsService      *runs.Service

	DocumentsHandler *documents.Handler
	PromptsHandler   *prompts.Handler
	RunsHandler      *runs.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	telemetry.SetLevel(cfg.LogLevel)
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  docstore.New(cfg.UploadDir),
	}

	if err := buildServices(ctx, app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		DocumentHandler: app.DocumentsHandler,
		PromptHandler:   app.PromptsHandler,
		RunHandler:      app.RunsHandler,
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

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return sqlDB, nil
}

func buildServices(ctx context.Context, app *App) error {
	var promptRepo prompts.Repo
	var runRepo runs.Repo

	if app.DB != nil {
		promptRepo = &prompts.PGRepo{DB: app.DB}
		runRepo = &runs.PGRepo{DB: app.DB}
	} else {
		promptRepo = prompts.NewMemoryRepo()
		runRepo = runs.NewMemoryRepo(promptRepo)
	}

	promptSvc := &prompts.Service{Repo: promptRepo}
	if err := promptSvc.EnsureDefault(ctx); err != nil {
		return fmt.Errorf("seed default prompt: %w", err)
	}

	var llmClient llm.Client
	if strings.TrimSpace(app.Config.AnthropicAPIKey) != "" {
		client, err := anthropic.NewClient(app.Config.AnthropicAPIKey, app.Config.AnthropicModel)
		if err != nil {
			return err
		}
		llmClient = client
	} else {
		log.Printf("bootstrap: ANTHROPIC_API_KEY empty; analyse requests will be rejected")
	}

	docSvc := &documents.Service{Store: app.Store}
	runSvc := &runs.Service{
		Repo:    runRepo,
		Prompts: promptRepo,
		Docs:    app.Store,
		LLM:     llmClient,
		Model:   app.Config.AnthropicModel,
	}

	app.PromptsRepo = promptRepo
	app.RunsRepo = runRepo
	app.DocumentsService = docSvc
	app.PromptsService = promptSvc
	app.RunsService = runSvc
	app.DocumentsHandler = documents.NewHandler(docSvc)
	app.PromptsHandler = prompts.NewHandler(promptSvc)
	app.RunsHandler = runs.NewHandler(runSvc)

	return nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
