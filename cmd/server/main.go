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

	"tenantkit.dev/api/common/id"
	"tenantkit.dev/api/common/logger"
	"tenantkit.dev/api/common/otel"
	"tenantkit.dev/api/core/config"
	"tenantkit.dev/api/core/db"
	"tenantkit.dev/api/internal/http/handler"
	"tenantkit.dev/api/internal/http/handler/webhook"
	"tenantkit.dev/api/internal/http/middleware"
	httprouter "tenantkit.dev/api/internal/http/router"
	"tenantkit.dev/api/internal/identity"
	"tenantkit.dev/api/internal/metrics"
	"tenantkit.dev/api/internal/ratelimit"
	"tenantkit.dev/api/internal/service"
	"tenantkit.dev/api/internal/store"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel, cfg.Env)
	if err != nil {
		// slog is not configured until after OTel
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "tenantkit starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(cfg.NodeID); err != nil {
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

	healthChecks := map[string]handler.Check{"database": database.Ping}

	var limiter ratelimit.Limiter
	if cfg.Redis.Enabled() {
		redisOpts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
			os.Exit(1)
		}

		redisClient := redis.NewClient(redisOpts)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			// The limiter fails open, so a missing redis degrades rather than blocks startup.
			slog.WarnContext(ctx, "redis unreachable, api key rate limits will fail open", "error", err)
		} else {
			slog.InfoContext(ctx, "redis connected")
		}
		limiter = ratelimit.NewRedisLimiter(redisClient)
		healthChecks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	} else {
		slog.InfoContext(ctx, "redis disabled, api keys are not rate limited")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(registry)

	workos := identity.NewWorkOS(cfg.WorkOS)

	services := service.NewServices(service.ServicesConfig{
		Stores:        store.NewStores(database.Queries()),
		TxRunner:      service.NewTxRunner(database),
		Provider:      workos,
		Authenticator: workos,
		Metrics:       collector,
		RateLimit:     cfg.RateLimit,
		DashboardURL:  cfg.DashboardURL,
	})

	var verifier webhook.Verifier
	if cfg.WorkOS.WebhooksEnabled() {
		verifier, err = webhook.NewSvixVerifier(cfg.WorkOS.WebhookSecret)
		if err != nil {
			slog.ErrorContext(ctx, "invalid webhook signing secret", "error", err)
			os.Exit(1)
		}
	} else {
		slog.WarnContext(ctx, "identity webhooks disabled (no signing secret configured)")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services, httprouter.RouterConfig{
		DashboardURL: cfg.DashboardURL,
		IsProduction: cfg.IsProduction(),
		AdminAPIKey:  cfg.AdminAPIKey,
		Gatherer:     registry,
		Metrics:      collector,
		Limiter:      limiter,
		Verifier:     verifier,
		HealthChecks: healthChecks,
	})
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
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

func setupRouter(cfg config.Config, services *service.Services, routes httprouter.RouterConfig) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → RequestID stamps
	// provenance → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(routes.Metrics))

	httprouter.SetupRoutes(router, services, routes)

	return router
}

const banner = `
████████╗ ███████╗ ███╗   ██╗  █████╗  ███╗   ██╗ ████████╗ ██╗  ██╗ ██╗ ████████╗
╚══██╔══╝ ██╔════╝ ████╗  ██║ ██╔══██╗ ████╗  ██║ ╚══██╔══╝ ██║ ██╔╝ ██║ ╚══██╔══╝
   ██║    █████╗   ██╔██╗ ██║ ███████║ ██╔██╗ ██║    ██║    █████╔╝  ██║    ██║
   ██║    ██╔══╝   ██║╚██╗██║ ██╔══██║ ██║╚██╗██║    ██║    ██╔═██╗  ██║    ██║
   ██║    ███████╗ ██║ ╚████║ ██║  ██║ ██║ ╚████║    ██║    ██║  ██╗ ██║    ██║
   ╚═╝    ╚══════╝ ╚═╝  ╚═══╝ ╚═╝  ╚═╝ ╚═╝  ╚═══╝    ╚═╝    ╚═╝  ╚═╝ ╚═╝    ╚═╝
`
