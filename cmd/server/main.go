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

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Raphi52/OnlyVIP-sub000/common/id"
	"github.com/Raphi52/OnlyVIP-sub000/common/logger"
	"github.com/Raphi52/OnlyVIP-sub000/common/otel"
	"github.com/Raphi52/OnlyVIP-sub000/core/config"
	"github.com/Raphi52/OnlyVIP-sub000/core/db"
	"github.com/Raphi52/OnlyVIP-sub000/internal/app"
	"github.com/Raphi52/OnlyVIP-sub000/internal/http/middleware"
	httprouter "github.com/Raphi52/OnlyVIP-sub000/internal/http/router"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "ai server starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.InfoContext(ctx, "database connected")

	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	slog.InfoContext(ctx, "redis connected", "task_stream", cfg.Redis.TaskStream)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	pipeline, err := app.New(ctx, cfg, database, redisClient, registry)
	if err != nil {
		slog.ErrorContext(ctx, "failed to build response pipeline", "error", err)
		os.Exit(1)
	}
	defer pipeline.Close()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, pipeline, registry)
	// A paced batch sleeps between every step of every entry, so the write
	// timeout has to cover a whole batch.
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func setupRouter(cfg config.Config, pipeline *app.App, gatherer prometheus.Gatherer) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger("/health", "/metrics"))

	httprouter.SetupRoutes(router, httprouter.Dependencies{
		Processor:  pipeline.Processor,
		Attributor: pipeline.Attributor,
	}, httprouter.RouterConfig{
		CronSecret:      cfg.CronSecret,
		TraceHeaderName: cfg.Redis.TraceHeaderName,
		Gatherer:        gatherer,
	})

	return router
}

const banner = `
 ██████╗ ███╗   ██╗██╗  ██╗   ██╗██╗   ██╗██╗██████╗      █████╗ ██╗
██╔═══██╗████╗  ██║██║  ╚██╗ ██╔╝██║   ██║██║██╔══██╗    ██╔══██╗██║
██║   ██║██╔██╗ ██║██║   ╚████╔╝ ██║   ██║██║██████╔╝    ███████║██║
██║   ██║██║╚██╗██║██║    ╚██╔╝  ╚██╗ ██╔╝██║██╔═══╝     ██╔══██║██║
╚██████╔╝██║ ╚████║███████╗██║    ╚████╔╝ ██║██║         ██║  ██║██║
 ╚═════╝ ╚═╝  ╚═══╝╚══════╝╚═╝     ╚═══╝  ╚═╝╚═╝         ╚═╝  ╚═╝╚═╝
`
