// Package server initializes and runs the application: configuration,
// database, identity and object-storage delegates, services and the HTTP
// endpoint with graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/filevault/internal/logging"
	"github.com/dmitrijs2005/filevault/internal/server/config"
	"github.com/dmitrijs2005/filevault/internal/server/httpapi"
	"github.com/dmitrijs2005/filevault/internal/server/identity"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filevault/internal/server/services"
	"github.com/dmitrijs2005/filevault/internal/server/storage"
)

type App struct {
	config *config.Config
	logger logging.Logger
	rm     repomanager.RepositoryManager
	server *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	rm, err := repomanager.NewPostgresRepositoryManager(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	store, err := storage.NewS3Storage(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("object storage init error: %w", err)
	}

	provider := identity.NewClient(cfg.IdentityBaseURL, cfg.IdentityServiceKey, cfg.IdentityJWTSecret)

	authService := services.NewAuthService(rm.Users(), provider, store, logger)
	userService := services.NewUserService(rm, logger)
	fileService := services.NewFileService(rm.Files(), store, logger)

	router := httpapi.Router(provider, rm.Users(),
		httpapi.NewAuthHandler(authService),
		httpapi.NewUsersHandler(userService),
		httpapi.NewFilesHandler(fileService))

	return &App{
		config: cfg,
		logger: logger,
		rm:     rm,
		server: httpapi.NewServer(cfg, logger, router),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
	}

	if err := app.rm.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
