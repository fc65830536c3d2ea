package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/octobees/accounts/api/internal/config"
	"github.com/octobees/accounts/api/internal/credentials"
	"github.com/octobees/accounts/api/internal/database"
	"github.com/octobees/accounts/api/internal/handler"
	middlewarepkg "github.com/octobees/accounts/api/internal/middleware"
	"github.com/octobees/accounts/api/internal/repository"
	"github.com/octobees/accounts/api/internal/router"
	"github.com/octobees/accounts/api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	usersRepo, closeStorage, err := openStorage(cfg)
	if err != nil {
		slog.Error("failed to open storage", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}
	defer closeStorage()

	hasher := credentials.NewBcryptHasher(cfg.BcryptCost)
	registrationService := service.NewRegistrationService(usersRepo, hasher, service.WithAdminSignup(cfg.AllowAdminSignup))
	directoryService := service.NewDirectoryService(usersRepo)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewRequestValidator()
	e.HTTPErrorHandler = handler.HTTPErrorHandler

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging(logger))
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.BodyLimit("64K"))

	router.Register(e, cfg, router.Handlers{
		Users:   handler.NewUsersHandler(registrationService, directoryService),
		Storage: directoryService,
	})

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "port", cfg.Port, "storage", cfg.StorageDriver)
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down", "signal", sig.String())
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

func openStorage(cfg *config.Config) (repository.UsersRepository, func(), error) {
	if cfg.StorageDriver == config.StorageMemory {
		slog.Warn("using in-memory storage; registered users are lost on restart")
		return repository.NewMemoryUsersRepository(), func() {}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, cfg.DatabaseURL, cfg.DatabaseSchema); err != nil {
			return nil, nil, err
		}
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL, cfg.DatabaseSchema)
	if err != nil {
		return nil, nil, err
	}
	return repository.NewPGXUsersRepository(pool), pool.Close, nil
}
