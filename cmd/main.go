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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/jotonsd/url-shortener/internal/cache"
	"github.com/jotonsd/url-shortener/internal/config"
	"github.com/jotonsd/url-shortener/internal/database"
	"github.com/jotonsd/url-shortener/internal/handler"
	"github.com/jotonsd/url-shortener/internal/logger"
	"github.com/jotonsd/url-shortener/internal/middleware"
	"github.com/jotonsd/url-shortener/internal/repository"
	"github.com/jotonsd/url-shortener/internal/service"
	"github.com/jotonsd/url-shortener/internal/web"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code. Startup failures return before any
// resource is opened; later failures return so deferred closes still run.
func run() int {
	// .env is optional; real environment variables win.
	if os.Getenv("URLSHORT_APP_ENVIRONMENT") != "production" {
		_ = godotenv.Load()
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	log := logger.New(logger.Config{
		Level:   cfg.App.LogLevel,
		Format:  cfg.App.LogFormat,
		Service: "url-shortener",
	})
	slog.SetDefault(log)

	ctx := context.Background()

	db, err := database.Connect(ctx, cfg.DSN(), database.PoolConfig{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		log.Error("failed to connect to database", "host", cfg.Database.Host, "error", err)
		return 1
	}
	defer db.Close()

	log.Info("connected to database", "host", cfg.Database.Host, "dbname", cfg.Database.DBName)

	pgRepo := repository.NewPostgresURLRepository(db)
	if err := pgRepo.EnsureSchema(ctx); err != nil {
		log.Error("failed to prepare schema", "error", err)
		return 1
	}

	var redisClient *cache.RedisClient
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(cache.RedisConfig{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			MaxRetries:   cfg.Redis.MaxRetries,
			CacheTTL:     cfg.Redis.CacheTTL,
			Namespace:    "urlshort",
		})
		if err != nil {
			log.Warn("redis unavailable, running without cache", "error", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Info("connected to redis", "host", cfg.Redis.Host)
		}
	}

	var (
		urlCache    cache.Cache = cache.NewNullCache()
		cacheStatus handler.CacheStatus
		rateLimit   gin.HandlerFunc
	)
	if redisClient != nil {
		urlCache = redisClient
		cacheStatus = redisClient
		rateLimit = middleware.RedisRateLimit(redisClient, redisClient.Keys(), cfg.App.RateLimit, cfg.App.RateWindow, log)
	} else {
		rateLimit = middleware.InMemoryRateLimit(cfg.App.RateLimit, cfg.App.RateWindow)
	}

	urlRepo := repository.NewCachedURLRepository(pgRepo, urlCache, log)
	urlService := service.NewURLService(urlRepo, cfg.BaseURL(), log)
	urlHandler := handler.NewURLHandler(urlService, log)
	healthHandler := handler.NewHealthHandler(database.NewStatus(db), cacheStatus)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(log),
		middleware.RequestLogger(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins(),
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
			ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}),
	)
	router.SetHTMLTemplate(web.Templates())

	router.GET("/health", healthHandler.Health)
	router.GET("/info", healthHandler.Info)

	router.GET("/", urlHandler.IndexPage)
	router.POST("/", rateLimit, urlHandler.ShortenForm)

	api := router.Group("/api", rateLimit)
	{
		api.POST("/urls", urlHandler.CreateURL)
		api.GET("/urls/:shortCode", urlHandler.GetURL)
	}

	router.GET("/s/", urlHandler.RedirectURL)
	router.GET("/s/:shortCode", urlHandler.RedirectURL)

	srv := &http.Server{
		Addr:           cfg.ServerAddress(),
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	log.Info("server starting",
		"addr", srv.Addr,
		"base_url", cfg.BaseURL(),
		"cache_enabled", redisClient != nil,
		"rate_limit", cfg.App.RateLimit,
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	if err := serve(srv, quit, cfg.Server.ShutdownTimeout, log); err != nil {
		log.Error("server failed", "error", err)
		return 1
	}

	log.Info("server stopped")
	return 0
}

// serve runs srv until it fails or a signal arrives on quit, then shuts it
// down gracefully. A listen failure is returned instead of exiting so the
// caller's deferred closes still run.
func serve(srv *http.Server, quit <-chan os.Signal, shutdownTimeout time.Duration, log *slog.Logger) error {
	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case sig := <-quit:
		log.Info("shutting down server", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
