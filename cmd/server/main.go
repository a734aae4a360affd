// Package main provides the entry point for the HTTP server.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/festy23/github_inbox/internal/config"
	"github.com/festy23/github_inbox/internal/database/database"
	"github.com/festy23/github_inbox/internal/database/migrate"
	githubclient "github.com/festy23/github_inbox/internal/github"
	"github.com/festy23/github_inbox/internal/health"
	installationRouter "github.com/festy23/github_inbox/internal/installation/router"
	installationService "github.com/festy23/github_inbox/internal/installation/service"
	"github.com/festy23/github_inbox/internal/middleware"
	notificationRouter "github.com/festy23/github_inbox/internal/notification/router"
	notificationService "github.com/festy23/github_inbox/internal/notification/service"
	"github.com/festy23/github_inbox/internal/worker"
	pkgLogger "github.com/festy23/github_inbox/pkg/logger"
)

func main() {
	cfg := config.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger, err := pkgLogger.NewWithConfig(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck // flushing on shutdown is best effort

	gin.SetMode(cfg.GinMode)

	db, err := database.New()
	if err != nil {
		logger.Fatalw("failed to connect to database", "error", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Warnw("failed to close database", "error", err)
		}
	}()

	if err := migrate.Migrate(db); err != nil {
		logger.Fatalw("failed to apply migrations", "error", err)
	}

	clients := func(token string) notificationService.ThreadClient {
		return githubclient.NewUserClient(token, logger)
	}

	var appAPI installationService.AppAPI
	if cfg.Github.AppConfigured() {
		appClient, err := githubclient.NewAppClient(cfg.Github.AppID, cfg.Github.PrivateKey, logger)
		if err != nil {
			logger.Fatalw("failed to create github app client", "error", err)
		}
		appAPI = appClient
	} else {
		logger.Infow("github app credentials not configured, installation sync disabled")
	}

	r := gin.New()
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recovery(logger))

	healthHandler := health.New(db, logger)
	r.GET("/health", healthHandler.Check)

	notifSvc := notificationRouter.RegisterRoutes(r, db, clients, cfg.Github, logger)
	installationRouter.RegisterRoutes(r, db, appAPI, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var pool *worker.Pool
	if cfg.WorkerQueueSize > 0 {
		pool = worker.NewPool(cfg.WorkerQueueSize, cfg.WorkerCount, func(ctx context.Context, task worker.Task) error {
			return notifSvc.ExecuteRemote(ctx, task.Kind, task.UserID, task.GithubIDs)
		}, logger)
		pool.Start(ctx)
		notifSvc.SetDispatcher(pool)
	}

	srv := &http.Server{
		Addr:         cfg.Server.GetAddress(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Infow("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalw("failed to start server", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("server shutdown failed", "error", err)
	}

	if pool != nil {
		pool.Wait()
	}
}
