package app

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

	"go-workspace-service/internal/config"
	"go-workspace-service/internal/database"
	"go-workspace-service/internal/handler"
	"go-workspace-service/internal/identity"
	"go-workspace-service/internal/middleware"
	"go-workspace-service/internal/repository"
	"go-workspace-service/internal/router"
	"go-workspace-service/internal/service"
	"go-workspace-service/internal/storage"
)

type App struct {
	server       *http.Server
	db           *database.DB
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	nodeRepo := repository.NewNodeRepository(db.Pool)
	trashRepo := repository.NewTrashRepository(db.Pool)
	slog.Info("database ready")

	objectStorage, err := storage.NewS3Storage(context.Background(), storage.S3Config{
		Bucket:          cfg.S3Bucket,
		Region:          cfg.S3Region,
		Endpoint:        cfg.S3Endpoint,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		PutURLTTL:       cfg.PutURLTTL,
		GetURLTTL:       cfg.GetURLTTL,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize object storage: %w", err)
	}

	identityClient := identity.NewClient(cfg.UserServiceURL)

	workspaceService := service.NewWorkspaceService(nodeRepo, trashRepo, objectStorage, identityClient)

	identityMiddleware := middleware.NewIdentityMiddleware(cfg.IdentityHeader)
	workspaceHandler := handler.NewWorkspaceHandler(workspaceService)
	documentHandler := handler.NewDocumentHandler(workspaceService)
	trashHandler := handler.NewTrashHandler(workspaceService)

	appRouter := router.New(cfg, identityMiddleware, workspaceHandler, documentHandler, trashHandler)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      appRouter,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		db:     db,
		cleanupFuncs: []func(){
			func() {
				db.Close()
			},
		},
	}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	slog.Info("server stopped")
	return nil
}
