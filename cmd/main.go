package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chessclub/arena/board"
	"github.com/chessclub/arena/cache"
	"github.com/chessclub/arena/config"
	"github.com/chessclub/arena/db"
	"github.com/chessclub/arena/handlers"
	"github.com/chessclub/arena/middleware"
	"github.com/chessclub/arena/repositories"
	api "github.com/chessclub/arena/routes"
	"github.com/chessclub/arena/services"
	"github.com/chessclub/arena/sheets"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

const sheetFetchTimeout = 15 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.Int("sheet_sources", len(cfg.Sources)),
	)

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	// Sheet cache: Redis when configured, in-process memory otherwise.
	var sheetCache cache.Cache
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			logger.Error("failed to connect to redis", slog.Any("error", err))
			os.Exit(1)
		}
		sheetCache = redisCache
		logger.Info("redis sheet cache initialized")
	} else {
		sheetCache = cache.NewMemoryCache()
		logger.Info("in-memory sheet cache initialized")
	}
	defer sheetCache.Close()

	// Live board hub
	boardHub := board.NewHub(logger)
	go boardHub.Run()
	logger.Info("board hub started")

	// Repositories
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	auditRepo := repositories.NewPostgresAuditRepository(dbConn)
	adminRepo := repositories.NewPostgresAdminRepository(dbConn)
	logger.Info("repositories initialized")

	// Services
	fetcher := sheets.NewHTTPFetcher(sheetFetchTimeout)
	auditLogger := services.NewAuditLogger(auditRepo, logger)
	matchService := services.NewMatchService(matchRepo, auditLogger, boardHub, logger)
	standingsService := services.NewStandingsService(cfg, fetcher, sheetCache, logger)
	syncService := services.NewSyncService(cfg.Sources, fetcher, matchRepo, auditLogger, logger)
	logger.Info("services initialized")

	// Optional background import of concluded games from the round sheets
	if cfg.SyncInterval > 0 {
		go func() {
			ticker := time.NewTicker(cfg.SyncInterval)
			defer ticker.Stop()
			logger.Info("sheet sync scheduler started", slog.Duration("interval", cfg.SyncInterval))

			for range ticker.C {
				report, err := syncService.SyncAll(context.Background(), "scheduler")
				if err != nil {
					logger.Error("scheduled sheet sync failed", slog.Any("error", err))
					continue
				}
				logger.Info("scheduled sheet sync finished",
					slog.Int("inserted", report.Inserted),
					slog.Int("skipped", report.Skipped),
				)
			}
		}()
	}

	// HTTP handlers
	auth := middleware.NewAdminAuth(adminRepo, cfg.AdminEmails, cfg.JWTSecretKey)
	matchHandler := handlers.NewMatchHandler(matchService)
	standingsHandler := handlers.NewStandingsHandler(standingsService)
	auditHandler := handlers.NewAuditHandler(auditLogger)
	syncHandler := handlers.NewSyncHandler(syncService)
	webSocketHandler := handlers.NewWebSocketHandler(boardHub)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		auth,
		matchHandler,
		standingsHandler,
		auditHandler,
		syncHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		} else {
			logger.Info("server stopped gracefully")
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		} else {
			logger.Info("server shutdown complete")
		}
	}
	logger.Info("application exited")
}
