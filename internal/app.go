package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"

	"bilibili-favorites-service/internal/adapters/bilibili"
	logger_adapter "bilibili-favorites-service/internal/adapters/logger"
	"bilibili-favorites-service/internal/adapters/rest"
	"bilibili-favorites-service/internal/configs"
	"bilibili-favorites-service/internal/core/port"
	"bilibili-favorites-service/internal/core/usecase"
	fluentlogger "bilibili-favorites-service/pkg/fluentlogger"
)

type App struct {
	config    *configs.AppConfig
	apiServer *rest.Server

	fluentClient *fluent.Fluent
	logger       port.LoggerPort
}

// NewApp loads the configuration and wires loggers, the upstream client, use cases and the REST server.
func NewApp(envPath ...string) (*App, error) {
	appConfig, err := configs.LoadConfig(envPath...)
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- loggers ---
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		UseColor: true,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
			Async:     true,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{"service_name": appConfig.AppName})
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	// --- upstream client ---
	bilibiliClient, err := bilibili.NewClient(bilibili.Config{
		BaseURL:  appConfig.Bilibili.BaseURL,
		SESSDATA: appConfig.Bilibili.SESSDATA,
		Timeout:  appConfig.Bilibili.Timeout,
	})
	if err != nil {
		appLogger.Error("Failed to create bilibili client", err, nil)
		if fluentClient != nil {
			fluentClient.Close()
		}
		return nil, fmt.Errorf("failed to create bilibili client: %w", err)
	}
	appLogger.Info("Bilibili client initialized", port.Fields{
		"address":       bilibiliClient.Address(),
		"authenticated": appConfig.Bilibili.SESSDATA != "",
	})

	// --- use cases ---
	getVideoListUseCase := usecase.NewGetVideoListUseCase(bilibiliClient)
	getPageUseCase := usecase.NewGetPageUseCase(bilibiliClient)
	getVideoPagesUseCase := usecase.NewGetVideoPagesUseCase(bilibiliClient)

	apiHandlers := rest.NewFavoritesHandler(getVideoListUseCase, getPageUseCase, getVideoPagesUseCase)
	imageProxy := bilibili.NewImageProxy(appConfig.Bilibili.ImageHosts)
	apiServer := rest.NewServer(appConfig.Rest.PORT, apiHandlers, imageProxy, baseLogger, appConfig.Rest.AllowedOrigins)
	appLogger.Info("REST API server configured.", nil)

	return &App{
		config:       appConfig,
		apiServer:    apiServer,
		fluentClient: fluentClient,
		logger:       appLogger,
	}, nil
}

// Run serves until SIGINT/SIGTERM or a server failure, then shuts down gracefully.
func (a *App) Run() error {
	defer func() {
		a.logger.Info("Application shut down gracefully.", nil)

		if a.fluentClient != nil {
			if err := a.fluentClient.Close(); err != nil {
				// fluent may already be gone
				fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
			}
		}
	}()

	serverErrors := make(chan error, 1)
	go func() {
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	a.logger.Info("Application running. Waiting for signals or server error...", port.Fields{"port": a.config.Rest.PORT})

	var runErr error
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case err := <-serverErrors:
		a.logger.Error("Server failed, shutting down", err, nil)
		runErr = err
	}

	a.logger.Info("Shutdown sequence initiated...", nil)
	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout())
	defer cancel()
	if err := a.apiServer.Stop(ctx); err != nil {
		a.logger.Error("Error during API server shutdown", err, nil)
	}

	return runErr
}

func (a *App) shutdownTimeout() time.Duration {
	if a.config.ShutdownTimeout <= 0 {
		return 10 * time.Second
	}
	return a.config.ShutdownTimeout
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
