package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"pagesmith/internal/auth"
	"pagesmith/internal/config"
	"pagesmith/internal/handler"
	"pagesmith/internal/llm"
	"pagesmith/internal/llm/prompts"
	"pagesmith/internal/llm/providers/anthropic"
	"pagesmith/internal/llm/providers/lorem"
	"pagesmith/internal/middleware"
	"pagesmith/internal/repository/postgres"
	"pagesmith/internal/service"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
	)

	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatalf("Failed to create token issuer: %v", err)
	}

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("Failed to ensure database schema: %v", err)
	}

	logger.Info("database connected")

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Logger: logger,
	}
	userRepo := postgres.NewUserRepository(repoConfig)
	projectRepo := postgres.NewProjectRepository(repoConfig)
	sitemapRepo := postgres.NewSitemapRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Load the prompt catalog
	catalog, err := prompts.NewCatalog()
	if err != nil {
		log.Fatalf("Failed to load prompt catalog: %v", err)
	}

	// Setup LLM providers. The anthropic provider requires an API key; the
	// lorem provider is always registered so "lorem-" models work in dev.
	var providers []llm.Provider
	if cfg.AnthropicAPIKey != "" {
		anthropicProvider, err := anthropic.NewProvider(cfg.AnthropicAPIKey)
		if err != nil {
			log.Fatalf("Failed to create anthropic provider: %v", err)
		}
		providers = append(providers, anthropicProvider)
	}
	providers = append(providers, lorem.NewProvider())

	gateway, err := llm.NewClient(cfg.DefaultModel, logger, providers...)
	if err != nil {
		log.Fatalf("Failed to create LLM gateway: %v", err)
	}

	// Create services
	authService := service.NewAuthService(userRepo, tokens, logger)
	projectService := service.NewProjectService(projectRepo, sitemapRepo, logger)
	sitemapService := service.NewSitemapService(projectRepo, sitemapRepo, txManager, gateway, catalog, logger)
	websiteService := service.NewWebsiteService(
		sitemapRepo,
		projectRepo,
		gateway,
		catalog,
		cfg.MaxConcurrentGenerations,
		cfg.LLMTimeout,
		logger,
	)

	// Create handlers
	authHandler := handler.NewAuthHandler(authService, logger)
	projectHandler := handler.NewProjectHandler(projectService, logger)
	sitemapHandler := handler.NewSitemapHandler(sitemapService, logger)
	websiteHandler := handler.NewWebsiteHandler(websiteService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Auth routes
	mux.HandleFunc("POST /auth/register", authHandler.Register)
	mux.HandleFunc("POST /auth/login", authHandler.Login)

	// Project routes
	mux.HandleFunc("GET /projects", projectHandler.ListProjects)
	mux.HandleFunc("POST /projects", projectHandler.CreateProject)
	mux.HandleFunc("GET /projects/{id}", projectHandler.GetProject)
	mux.HandleFunc("PUT /projects/{id}", projectHandler.UpdateProject)
	mux.HandleFunc("DELETE /projects/{id}", projectHandler.DeleteProject)

	// Sitemap routes
	mux.HandleFunc("POST /sitemap/generate", sitemapHandler.Generate)
	mux.HandleFunc("POST /sitemap/save/{project_id}", sitemapHandler.Save)
	mux.HandleFunc("GET /sitemap/{project_id}", sitemapHandler.GetActive)

	// Website routes
	mux.HandleFunc("POST /website/create-website", websiteHandler.Create)

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	h = middleware.Auth(tokens, logger)(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute, // Website assembly fans out many LLM calls
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
