package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/visumlabs/distributor-content/pkg/distcontent/adminuser"
	"github.com/visumlabs/distributor-content/pkg/distcontent/api"
	"github.com/visumlabs/distributor-content/pkg/distcontent/config"
	"github.com/visumlabs/distributor-content/pkg/distcontent/repo/postgres"
)

// ServerEnv holds HTTP server runtime knobs, separate from the service
// configuration in pkg/distcontent/config.
type ServerEnv struct {
	Host            string        `env:"HOST" env-default:""`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" env-default:"30s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" env-default:"120s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
	LogFormat       string        `env:"LOG_FORMAT" env-default:"text"` // text, json
	LogLevel        string        `env:"LOG_LEVEL" env-default:"info"`
}

func main() {
	var env ServerEnv
	if err := cleanenv.ReadEnv(&env); err != nil {
		slog.Error("Failed to read server environment", "err", err)
		os.Exit(1)
	}

	logger := newLogger(env)
	slog.SetDefault(logger)

	serverConfig, err := config.Load(config.WithEnv(""))
	if err != nil {
		logger.Error("Failed to load server configuration", "err", err)
		os.Exit(1)
	}

	if serverConfig.DatabaseType == "postgres" {
		if err := config.PingPostgres(serverConfig.DatabaseURL, serverConfig.DBSchema); err != nil {
			logger.Error("Database check failed", "err", err)
			os.Exit(1)
		}
		if serverConfig.MigrateOnStartup {
			if err := postgres.Migrate(serverConfig.DatabaseURL); err != nil {
				logger.Error("Migrations failed", "err", err)
				os.Exit(1)
			}
			logger.Info("Migrations applied")
		}
	}

	svc, err := serverConfig.BuildService()
	if err != nil {
		logger.Error("Failed to build service", "err", err)
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(api.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(api.Metrics())
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	contentHandler := api.NewContentHandler(svc)
	batchHandler := api.NewBatchHandler(svc)
	releaseHandler := api.NewReleaseHandler(svc)
	translateHandler := api.NewTranslateHandler(svc)

	var adminClient *adminuser.Client
	if serverConfig.AdminURL != "" {
		adminClient = adminuser.New(adminuser.Config{
			Endpoint: serverConfig.AdminURL,
			APIKey:   serverConfig.AdminAPIKey,
		})
	}
	adminHandler := api.NewAdminHandler(adminClient)

	r.Route("/api/v1", func(r chi.Router) {
		if serverConfig.JWTSecret != "" {
			for _, mw := range api.RequireAuth(api.NewTokenAuth(serverConfig.JWTSecret)) {
				r.Use(mw)
			}
		} else {
			logger.Warn("JWT_SECRET not set, admin API is unauthenticated")
		}

		r.Mount("/content", contentHandler.Routes())
		r.Mount("/batch", batchHandler.Routes())
		r.Mount("/releases", releaseHandler.Routes())
		r.Mount("/translate", translateHandler.Routes())
		r.Mount("/admin", adminHandler.Routes())
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", env.Host, serverConfig.Port),
		Handler:      r,
		ReadTimeout:  env.ReadTimeout,
		WriteTimeout: env.WriteTimeout,
	}

	go func() {
		logger.Info("Distributor content server starting",
			"port", serverConfig.Port,
			"env", serverConfig.Environment,
			"database", serverConfig.DatabaseType,
			"storage", serverConfig.Storage.Type)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), env.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "err", err)
		os.Exit(1)
	}

	logger.Info("Server exiting")
}

func newLogger(env ServerEnv) *slog.Logger {
	var level slog.Level
	switch env.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if env.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
