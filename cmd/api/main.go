package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alfredoptarigan/office-letters/internal/auth"
	"alfredoptarigan/office-letters/internal/config"
	"alfredoptarigan/office-letters/internal/handlers"
	"alfredoptarigan/office-letters/internal/logger"
	"alfredoptarigan/office-letters/internal/middleware"
	"alfredoptarigan/office-letters/internal/repositories"
	"alfredoptarigan/office-letters/internal/server"
	"alfredoptarigan/office-letters/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.IsDevelopment())
	log.Info().Str("config", cfg.String()).Msg("config loaded")

	// Initialize database
	db, err := config.InitDatabase(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	docRepo := repositories.NewDocumentRepository(db)

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.Root)
	if err := storageService.EnsureGeneratedDir(); err != nil {
		log.Fatal().Err(err).Msg("failed to create generated directory")
	}

	authService := services.NewAuthService(userRepo)
	seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	created, err := authService.EnsureSeedUser(seedCtx, cfg.Auth.SeedUsername, cfg.Auth.SeedPassword)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Str("username", cfg.Auth.SeedUsername).Msg("failed to seed user")
	}
	if created {
		log.Info().Str("username", cfg.Auth.SeedUsername).Msg("seed user created")
	}

	emitters := services.DefaultEmitters(services.ArabicLabels, cfg.Letter.PDFFontPath)
	docService := services.NewDocumentService(db, docRepo, storageService, emitters, log)
	pdfParser := services.NewPDFParserService()
	log.Info().Msg("services initialized")

	// Initialize handlers
	session := &middleware.Auth{
		Signer:       auth.NewSigner(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.SessionMaxAge),
		CookieSecure: cfg.Auth.CookieSecure,
		Log:          log,
	}

	app := server.New(server.Dependencies{
		Log:              log,
		Session:          session,
		Storage:          storageService,
		AuthHandler:      handlers.NewAuthHandler(authService, session, log),
		DashboardHandler: handlers.NewDashboardHandler(docService),
		DocumentHandler:  handlers.NewDocumentHandler(docService, storageService, pdfParser, log),
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info().Msg("shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("server forced to shutdown")
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info().Str("addr", addr).Msg("server starting")

	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server stopped")
}
