// Package main is the entry point for the gp-kitchen server.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/RogerDodger/gp-kitchen/internal/api/middleware"
	v1 "github.com/RogerDodger/gp-kitchen/internal/api/v1"
	"github.com/RogerDodger/gp-kitchen/internal/auth"
	"github.com/RogerDodger/gp-kitchen/internal/config"
	"github.com/RogerDodger/gp-kitchen/internal/provider"
	"github.com/RogerDodger/gp-kitchen/internal/repository"
	"github.com/RogerDodger/gp-kitchen/internal/service"
	"github.com/RogerDodger/gp-kitchen/internal/utils"
	"github.com/RogerDodger/gp-kitchen/internal/worker"
)

const serviceName = "gp-kitchen"

func main() {
	cfg := config.Load()

	utils.InitLogger(cfg.Environment, serviceName)
	utils.Info("starting gp-kitchen server",
		slog.String("port", cfg.Port),
		slog.String("env", cfg.Environment),
	)

	metricsCollector := utils.NewMetricsCollector()

	tracerShutdown, err := utils.InitTracer(context.Background(), serviceName, "1.0.0", cfg.OTLPEndpoint)
	if err != nil {
		utils.Error("failed to initialize tracer", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer tracerShutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := repository.Connect(ctx, cfg.DBUrl)
	if err != nil {
		cancel()
		utils.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	if err := repository.RunMigrations(ctx, db); err != nil {
		cancel()
		utils.Error("failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}
	cancel()

	// Redis is optional; the kitchen runs without caching or rate limiting
	// when it is unavailable.
	var redisClient *repository.RedisClient
	if cfg.RedisAddr != "" {
		redisClient, err = repository.NewRedisClient(repository.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			utils.Warn("redis unavailable, continuing without cache", slog.String("error", err.Error()))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	repos := repository.NewRepositories(db)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, serviceName)

	wikiClient := &provider.WikiClient{
		BaseURL:   cfg.PricesAPIBase,
		UserAgent: cfg.PricesAPIAgent,
	}

	var cacheService service.CacheService
	if redisClient != nil {
		cacheService = service.NewCacheService(redisClient)
	}

	priceService := service.NewPriceService(repos, wikiClient, cacheService, metricsCollector)
	userService := service.NewUserService(repos)

	services := &service.Services{
		Auth:     service.NewAuthService(repos, jwtManager),
		User:     userService,
		Recipe:   service.NewRecipeService(repos, priceService, metricsCollector),
		Cookbook: service.NewCookbookService(repos),
		Price:    priceService,
		Cache:    cacheService,
	}

	pricePoller := worker.NewPricePoller(priceService, metricsCollector)
	guestReaper := worker.NewGuestReaper(userService, cfg.GuestTTL, metricsCollector)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		status := "healthy"
		code := http.StatusOK

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.Health(ctx); err != nil {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":  status,
			"service": serviceName,
		})
	})

	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/v1/metrics/basic", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(metricsCollector.GetMetrics())
	})

	apiRouter := v1.NewRouter(services, jwtManager)
	apiRouter.RegisterRoutes(mux)

	var handler http.Handler = mux
	handler = middleware.RateLimitMiddleware(cacheService, 300, time.Minute)(handler)
	handler = middleware.MetricsMiddleware(metricsCollector)(handler)
	handler = middleware.TracingMiddleware(serviceName)(handler)
	handler = middleware.LoggingMiddleware(handler)

	server := &http.Server{
		Addr:         cfg.GetAddr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	pricePoller.Start(cfg.PollInterval, cfg.MappingRefresh)
	guestReaper.Start(cfg.ReaperInterval)

	go func() {
		utils.Info("server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.Error("server failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	<-quit
	utils.Info("shutting down")

	workerCtx, workerCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := pricePoller.Stop(workerCtx); err != nil {
		utils.Warn("price poller shutdown", slog.String("error", err.Error()))
	}
	if err := guestReaper.Stop(workerCtx); err != nil {
		utils.Warn("guest reaper shutdown", slog.String("error", err.Error()))
	}
	workerCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		utils.Error("server shutdown failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	utils.Info("server stopped")
}
