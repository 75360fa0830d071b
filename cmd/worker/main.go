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
	"github.com/redis/go-redis/v9"

	"callnote.app/server/common/id"
	"callnote.app/server/common/logger"
	"callnote.app/server/common/metrics"
	"callnote.app/server/common/otel"
	"callnote.app/server/core/config"
	"callnote.app/server/core/db"
	"callnote.app/server/internal/http/middleware"
	"callnote.app/server/internal/intelligence"
	"callnote.app/server/internal/provider/meetingbaas"
	"callnote.app/server/internal/queue"
	"callnote.app/server/internal/service"
	"callnote.app/server/internal/store"
	"callnote.app/server/internal/worker"
)

const maxAttempts = 3

func main() {
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeWorker)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	fmt.Printf("%s\n", banner)

	telemetry, err := otel.Setup(ctx, cfg, config.ServiceTypeWorker)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	slog.InfoContext(ctx, "callnote worker starting",
		"env", cfg.Env,
		"consumer_group", cfg.Pipeline.RedisGroup,
		"consumer_name", cfg.Pipeline.RedisConsumer)

	if err := id.Init(id.NodeWorker); err != nil {
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

	redisOpts, err := redis.ParseURL(cfg.Pipeline.RedisURL)
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
	slog.InfoContext(ctx, "redis connected", "stream", cfg.Pipeline.RedisStream)

	consumer, err := queue.NewRedisConsumer(redisClient, queue.ConsumerConfig{
		Stream:       cfg.Pipeline.RedisStream,
		Group:        cfg.Pipeline.RedisGroup,
		Consumer:     cfg.Pipeline.RedisConsumer,
		DLQStream:    cfg.Pipeline.RedisDLQStream,
		BatchSize:    1,
		Block:        5 * time.Second,
		MaxAttempts:  maxAttempts,
		RequeueDelay: time.Second,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create consumer", "error", err)
		os.Exit(1)
	}

	taskProducer := queue.NewRedisProducer(redisClient, cfg.Pipeline.RedisStream, slog.Default())
	defer taskProducer.Close()

	provider := meetingbaas.NewClient(meetingbaas.Config{
		APIKey:     cfg.Recording.APIKey,
		BaseURL:    cfg.Recording.BaseURL,
		Timeout:    cfg.Recording.Timeout,
		MaxRetries: cfg.Recording.MaxRetries,
	})

	analyzer, err := intelligence.NewAnalyzer(cfg.Enrichment)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create analyzer", "error", err)
		os.Exit(1)
	}

	m := metrics.New()
	stores := store.NewStores(database.Queries())

	// The worker always enriches from the queue; inline mode only changes how the server triggers.
	workerCfg := cfg
	workerCfg.Enrichment.Mode = config.EnrichmentModeQueue
	services := service.NewServices(
		workerCfg,
		stores,
		service.NewTxRunner(database),
		taskProducer,
		provider,
		analyzer,
		m,
	)
	defer services.Close()

	processor := worker.NewProcessor(services.Enrichment(), services.Sync(), services.Calendar())
	w := worker.New(consumer, processor, m, worker.Config{MaxAttempts: maxAttempts})

	reclaimer := worker.NewRedisReclaimer(redisClient, worker.RedisReclaimerConfig{
		Stream:    cfg.Pipeline.RedisStream,
		Group:     cfg.Pipeline.RedisGroup,
		Consumer:  cfg.Pipeline.RedisConsumer + "-reclaimer",
		MinIdle:   cfg.Enrichment.Timeout + time.Minute,
		Interval:  time.Minute,
		BatchSize: 10,
	}, consumer, w.HandleMessage)

	backstop := worker.NewBackstop(stores.Meetings(), taskProducer, m, worker.BackstopConfig{
		Interval:   cfg.Backstop.Interval,
		StaleAfter: cfg.Backstop.StaleAfter,
		BatchSize:  cfg.Backstop.BatchSize,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- w.Run(ctx)
	}()
	go reclaimer.Run(ctx)
	go backstop.Run(ctx)

	metricsServer := newMetricsServer(cfg, m)
	go func() {
		slog.InfoContext(ctx, "metrics server starting", "port", cfg.Port)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.ErrorContext(ctx, "metrics server error", "error", err)
		}
	}()

	slog.InfoContext(ctx, "worker initialized and running", "analyzer", analyzer.Name())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down worker...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// Quick loops first; the worker may be mid-task.
	backstop.Stop()
	reclaimer.Stop()
	w.Stop()

	select {
	case <-shutdownCtx.Done():
		slog.WarnContext(ctx, "shutdown timeout exceeded")
	case err := <-errCh:
		if err != nil {
			slog.ErrorContext(ctx, "worker error during shutdown", "error", err)
		}
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

func newMetricsServer(cfg config.Config, m *metrics.Metrics) *http.Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.Recovery())
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(m.Handler()))

	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

const banner = `
 ██████╗ █████╗ ██╗     ██╗     ███╗   ██╗ ██████╗ ████████╗███████╗
██╔════╝██╔══██╗██║     ██║     ████╗  ██║██╔═══██╗╚══██╔══╝██╔════╝
██║     ███████║██║     ██║     ██╔██╗ ██║██║   ██║   ██║   █████╗
██║     ██╔══██║██║     ██║     ██║╚██╗██║██║   ██║   ██║   ██╔══╝
╚██████╗██║  ██║███████╗███████╗██║ ╚████║╚██████╔╝   ██║   ███████╗
 ╚═════╝╚═╝  ╚═╝╚══════╝╚══════╝╚═╝  ╚═══╝ ╚═════╝    ╚═╝   ╚══════╝
                         worker
`
