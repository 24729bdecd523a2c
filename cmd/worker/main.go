package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/Raphi52/OnlyVIP-sub000/common/id"
	"github.com/Raphi52/OnlyVIP-sub000/common/logger"
	"github.com/Raphi52/OnlyVIP-sub000/common/otel"
	"github.com/Raphi52/OnlyVIP-sub000/core/config"
	"github.com/Raphi52/OnlyVIP-sub000/core/db"
	"github.com/Raphi52/OnlyVIP-sub000/internal/app"
	"github.com/Raphi52/OnlyVIP-sub000/internal/http/middleware"
	"github.com/Raphi52/OnlyVIP-sub000/internal/queue"
	"github.com/Raphi52/OnlyVIP-sub000/internal/worker"
)

// runner is anything started in its own goroutine and stopped on shutdown.
type runner interface {
	Run(ctx context.Context)
	Stop()
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeWorker)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	fmt.Printf("%s\n", banner)

	telemetry, err := otel.Setup(ctx, cfg)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	slog.InfoContext(ctx, "ai worker starting",
		"env", cfg.Env,
		"consumer_group", cfg.Redis.TaskGroup,
		"consumer_name", cfg.Redis.TaskConsumer,
		"poll_interval", cfg.Queue.PollInterval)

	// Different node ID than the server
	if err := id.Init(2); err != nil {
		slog.ErrorContext(ctx, "failed to initialize id generator", "error", err)
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

	runners := []runner{
		worker.NewScheduler(pipeline.Processor, cfg.Queue.PollInterval, time.Now),
		worker.NewQueueReclaimer(pipeline.Stores.Queue(), worker.QueueReclaimerConfig{
			StaleAfter: cfg.Queue.StaleAfter,
			Interval:   cfg.Queue.ReclaimInterval,
		}, pipeline.Metrics, time.Now),
	}

	var taskWorker *worker.TaskWorker
	if cfg.MemoryLLM.Enabled() {
		taskWorker, err = setupTaskWorker(ctx, cfg, pipeline, redisClient, &runners)
		if err != nil {
			slog.ErrorContext(ctx, "failed to set up task worker", "error", err)
			os.Exit(1)
		}
	} else {
		slog.WarnContext(ctx, "memory llm not configured, background tasks will not be consumed")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	metricsServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           setupMetricsRouter(registry),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.InfoContext(ctx, "metrics server starting", "port", cfg.Port)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.ErrorContext(ctx, "metrics server error", "error", err)
		}
	}()

	var wg sync.WaitGroup
	for _, r := range runners {
		wg.Add(1)
		go func(r runner) {
			defer wg.Done()
			r.Run(ctx)
		}(r)
	}

	errCh := make(chan error, 1)
	if taskWorker != nil {
		go func() {
			errCh <- taskWorker.Run(ctx)
		}()
	}

	slog.InfoContext(ctx, "worker initialized and running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down worker...")

	// A paced entry can take well over a minute to finish.
	shutdownCtx, cancel := context.WithTimeout(ctx, 3*time.Minute)
	defer cancel()

	done := make(chan struct{})
	go func() {
		for _, r := range runners {
			r.Stop()
		}
		if taskWorker != nil {
			taskWorker.Stop()
		}
		wg.Wait()
		if taskWorker != nil {
			if err := <-errCh; err != nil {
				slog.ErrorContext(ctx, "task worker error during shutdown", "error", err)
			}
		}
		close(done)
	}()

	select {
	case <-shutdownCtx.Done():
		slog.WarnContext(ctx, "shutdown timeout exceeded")
	case <-done:
	}

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "metrics server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(ctx, "worker shutdown complete")
}

func setupTaskWorker(ctx context.Context, cfg config.Config, pipeline *app.App, redisClient *redis.Client, runners *[]runner) (*worker.TaskWorker, error) {
	consumer, err := queue.NewRedisConsumer(ctx, redisClient, queue.ConsumerConfig{
		Stream:       cfg.Redis.TaskStream,
		Group:        cfg.Redis.TaskGroup,
		Consumer:     cfg.Redis.TaskConsumer,
		DLQStream:    cfg.Redis.TaskDLQStream,
		BatchSize:    10,
		Block:        5 * time.Second,
		MaxAttempts:  3,
		RequeueDelay: time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("creating consumer: %w", err)
	}

	handler, err := pipeline.NewBackgroundHandler(cfg)
	if err != nil {
		return nil, err
	}

	taskWorker := worker.NewTaskWorker(consumer, handler, worker.TaskWorkerConfig{MaxAttempts: 3})

	*runners = append(*runners, worker.NewRedisReclaimer(redisClient, worker.RedisReclaimerConfig{
		Stream:    cfg.Redis.TaskStream,
		Group:     cfg.Redis.TaskGroup,
		Consumer:  cfg.Redis.TaskConsumer + "-reclaimer",
		MinIdle:   5 * time.Minute,
		Interval:  time.Minute,
		BatchSize: 10,
	}, consumer, taskWorker.ProcessMessage))

	return taskWorker, nil
}

func setupMetricsRouter(gatherer prometheus.Gatherer) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Recovery())
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	return router
}

const banner = `
 ██████╗ ███╗   ██╗██╗  ██╗   ██╗██╗   ██╗██╗██████╗     ██╗    ██╗ ██████╗ ██████╗ ██╗  ██╗███████╗██████╗
██╔═══██╗████╗  ██║██║  ╚██╗ ██╔╝██║   ██║██║██╔══██╗    ██║    ██║██╔═══██╗██╔══██╗██║ ██╔╝██╔════╝██╔══██╗
██║   ██║██╔██╗ ██║██║   ╚████╔╝ ██║   ██║██║██████╔╝    ██║ █╗ ██║██║   ██║██████╔╝█████╔╝ █████╗  ██████╔╝
██║   ██║██║╚██╗██║██║    ╚██╔╝  ╚██╗ ██╔╝██║██╔═══╝     ██║███╗██║██║   ██║██╔══██╗██╔═██╗ ██╔══╝  ██╔══██╗
╚██████╔╝██║ ╚████║███████╗██║    ╚████╔╝ ██║██║         ╚███╔███╔╝╚██████╔╝██║  ██║██║  ██╗███████╗██║  ██║
 ╚═════╝ ╚═╝  ╚═══╝╚══════╝╚═╝     ╚═══╝  ╚═╝╚═╝          ╚══╝╚══╝  ╚═════╝ ╚═╝  ╚═╝╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝
`
