package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"toolchain_config/internal/app/bootstrap"
	"toolchain_config/internal/config"
	"toolchain_config/internal/infrastructure/restapi"
	"toolchain_config/internal/pkg/logger"
	"toolchain_config/internal/pkg/metrics"
)

const shutdownTimeout = 5 * time.Second

func main() {
	settingsPath := flag.String("settings", "", "runtime settings file (or TOOLCHAIN_SETTINGS_FILE)")
	flag.Parse()

	settings, err := config.Load(*settingsPath)
	if err != nil {
		logger.Fatal("Failed to load runtime settings", "error", err)
	}

	flush, err := logger.Init(settings.LoggerOptions())
	if err != nil {
		logger.Fatal("Failed to initialize logger", "error", err)
	}
	defer flush()

	appLogger := logger.NewSlogAdapter()
	appLogger.Info("Toolchain config daemon starting", "listen", settings.Server.ListenAddr, "settings_file", settings.Source)

	// Конфигурация загружается один раз; при отсутствии ключей процесс не стартует.
	app, err := bootstrap.New(settings, appLogger, logger.Zap())
	if err != nil {
		logger.Fatal("Failed to load toolchain configuration", "error", bootstrap.DescribeLoadError(err))
	}
	defer app.Close()

	cfg := app.Config.GetConfig()
	appLogger.Info("Configuration loaded",
		"compiler", cfg.Compiler.Version,
		"networks", cfg.NetworkNames(),
		"default_network", cfg.DefaultNetwork,
		"verification_key_set", cfg.Verification.HasAPIKey())

	srv := newServer(app)

	go func() {
		appLogger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", "error", err)
		}
	}()

	// Ожидание сигнала завершения (например, Ctrl+C)
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	<-signalChan

	appLogger.Info("Shutdown signal received, stopping HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Graceful shutdown failed", "error", err)
	} else {
		appLogger.Info("HTTP server stopped")
	}
}

// newServer builds the HTTP server for the config API.
func newServer(app *bootstrap.App) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	handler := restapi.NewConfigHandler(app.Config, app.Preflight, app.Logger)
	router := restapi.SetupRouter(handler, restapi.RouterOptions{
		Logger:         app.Logger,
		Metrics:        metrics.NewHTTP(app.Registry),
		Gatherer:       app.Registry,
		AllowedOrigins: app.Settings.Server.AllowedOrigins,
	})

	return &http.Server{
		Addr:         app.Settings.Server.ListenAddr,
		Handler:      router,
		ReadTimeout:  app.Settings.Server.ReadTimeout,
		WriteTimeout: app.Settings.Server.WriteTimeout,
		IdleTimeout:  app.Settings.Server.IdleTimeout,
	}
}
