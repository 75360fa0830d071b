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
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"callnote.app/server/common/id"
	"callnote.app/server/common/logger"
	"callnote.app/server/common/metrics"
	"callnote.app/server/common/otel"
	"callnote.app/server/core/config"
	"callnote.app/server/core/db"
	"callnote.app/server/internal/http/middleware"
	httprouter "callnote.app/server/internal/http/router"
	"callnote.app/server/internal/intelligence"
	"callnote.app/server/internal/provider/meetingbaas"
	"callnote.app/server/internal/queue"
	"callnote.app/server/internal/service"
	"callnote.app/server/internal/store"
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
	telemetry, err := otel.Setup(ctx, cfg, config.ServiceTypeServer)
	if err != nil {
		// slog is not configured yet; OTel failed before logger setup
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "callnote server starting",
		"env", cfg.Env,
		"service", cfg.OTel.ServiceName,
		"enrichment_mode", cfg.Enrichment.Mode)
	if err := id.Init(id.NodeServer); err != nil {
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

	taskProducer := queue.NewRedisProducer(redisClient, cfg.Pipeline.RedisStream, slog.Default())
	defer taskProducer.Close()

	provider := meetingbaas.NewClient(meetingbaas.Config{
		APIKey:     cfg.Recording.APIKey,
		BaseURL:    cfg.Recording.BaseURL,
		Timeout:    cfg.Recording.Timeout,
		MaxRetries: cfg.Recording.MaxRetries,
	})
	if !provider.Configured() {
		slog.WarnContext(ctx, "MEETINGBAAS_API_KEY not set, bot spawn and sync are disabled")
	}

	analyzer, err := intelligence.NewAnalyzer(cfg.Enrichment)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create analyzer", "error", err)
		os.Exit(1)
	}
	slog.InfoContext(ctx, "analyzer ready", "analyzer", analyzer.Name())

	m := metrics.New()

	services := service.NewServices(
		cfg,
		store.NewStores(database.Queries()),
		service.NewTxRunner(database),
		taskProducer,
		provider,
		analyzer,
		m,
	)
	defer services.Close()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services, m)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Manual intelligence runs wait for the analyzer.
		WriteTimeout: cfg.Enrichment.Timeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
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

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
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

func setupRouter(cfg config.Config, services *service.Services, m *metrics.Metrics) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	httprouter.SetupRoutes(router, services, httprouter.RouterConfig{
		TraceHeaderName: cfg.Pipeline.TraceHeaderName,
		Metrics:         m.Handler(),
	})

	return router
}

const banner = `
 ██████╗ █████╗ ██╗     ██╗     ███╗   ██╗ ██████╗ ████████╗███████╗
██╔════╝██╔══██╗██║     ██║     ████╗  ██║██╔═══██╗╚══██╔══╝██╔════╝
██║     ███████║██║     ██║     ██╔██╗ ██║██║   ██║   ██║   █████╗
██║     ██╔══██║██║     ██║     ██║╚██╗██║██║   ██║   ██║   ██╔══╝
╚██████╗██║  ██║███████╗███████╗██║ ╚████║╚██████╔╝   ██║   ███████╗
 ╚═════╝╚═╝  ╚═╝╚══════╝╚══════╝╚═╝  ╚═══╝ ╚═════╝    ╚═╝   ╚══════╝
                         server
`
