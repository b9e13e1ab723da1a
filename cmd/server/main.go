package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	config "github.com/avatarctic/user-management-service/configs"
	"github.com/avatarctic/user-management-service/internal/application/services"
	"github.com/avatarctic/user-management-service/internal/core/ports"
	"github.com/avatarctic/user-management-service/internal/infrastructure/cache"
	"github.com/avatarctic/user-management-service/internal/infrastructure/db"
	"github.com/avatarctic/user-management-service/internal/infrastructure/health"
	"github.com/avatarctic/user-management-service/internal/infrastructure/httpserver"
	"github.com/avatarctic/user-management-service/internal/infrastructure/redis"
	"github.com/avatarctic/user-management-service/internal/infrastructure/repositories"
)

// retentionInterval is how often expired activities are purged.
const retentionInterval = 6 * time.Hour

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger := newLogger(&cfg.Log)
	logger.Infof("Starting %s...", cfg.Server.ProjectName)

	// Initialize database (apply pool settings from config)
	database, err := db.NewDatabaseWithConfig(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	logger.Info("Connected to database successfully")

	if err := database.Migrate(cfg.Database.MigrationsPath); err != nil {
		logger.Fatal("Failed to run migrations:", err)
	}

	// The client dials lazily, so an absent Redis only disables what depends on it.
	redisClient := redis.NewRedisClient(&cfg.Redis)
	defer redisClient.Close()

	cacheStore, closeCache := newCacheStore(cfg, redisClient, logger)
	defer closeCache()

	// Initialize all db repository implementations
	baseUserRepo := repositories.NewUserRepository(database, logger)
	baseProjectRepo := repositories.NewProjectRepository(database, logger)
	baseReportRepo := repositories.NewReportRepository(database, logger)
	activityRepo := repositories.NewActivityRepository(database, logger)

	// Decorate with caching
	userRepo := repositories.NewCachingUserRepository(baseUserRepo, cacheStore, cfg.Cache.TTL, logger)
	projectRepo := repositories.NewCachingProjectRepository(baseProjectRepo, cacheStore, cfg.Cache.TTL, logger)
	reportRepo := repositories.NewCachingReportRepository(baseReportRepo, cacheStore, cfg.Cache.StatsTTL, logger)

	// Wire all services with their repository dependencies
	activityService := services.NewActivityService(activityRepo, logger)
	userService := services.NewUserService(userRepo, activityRepo, logger)
	authService := services.NewAuthService(userService, activityService, &cfg.JWT, logger)
	projectService := services.NewProjectService(projectRepo, userRepo, logger)
	reportService := services.NewReportService(reportRepo)
	accessControlService := services.NewAccessControlService(userService, projectService)

	var rateLimiter ports.RateLimiterService
	pingCtx, cancelPing := context.WithTimeout(context.Background(), cfg.Redis.DialTimeout)
	if err := redis.Ping(pingCtx, redisClient); err != nil {
		logger.WithError(err).Warn("Redis unavailable; auth rate limiting disabled")
	} else {
		rateLimiter = services.NewRateLimiterService(repositories.NewRateLimitRedisRepository(redisClient), &services.RateLimiterConfig{
			RequestsPerWindow: cfg.RateLimit.AuthRequestsPerMinute,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         cfg.RateLimit.KeyPrefix,
		}, logger)
	}
	cancelPing()

	hcSlice := []ports.HealthChecker{health.NewDBHealthChecker(database)}
	if cfg.Cache.Enabled {
		hcSlice = append(hcSlice, health.NewCacheHealthChecker(cacheStore))
	}

	serverConfig := &httpserver.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		TLSCertFile:    cfg.Server.TLSCertFile,
		TLSKeyFile:     cfg.Server.TLSKeyFile,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Environment:    cfg.Server.Environment,
		ProjectName:    cfg.Server.ProjectName,
		APIPrefix:      cfg.Server.APIPrefix,
	}

	deps := httpserver.ServerDeps{
		UserService:          userService,
		AuthService:          authService,
		ProjectService:       projectService,
		ActivityService:      activityService,
		ReportService:        reportService,
		AccessControlService: accessControlService,
		RateLimiterService:   rateLimiter,
		HealthCheckers:       hcSlice,
	}

	server := httpserver.NewServer(serverConfig, logger, deps)

	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()
	go activityService.RunRetention(bgCtx, retentionInterval)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server:", err)
		}
	}()

	logger.Infof("Server started on %s:%s", cfg.Server.Host, cfg.Server.Port)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	stopBackground()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}

func newLogger(cfg *config.LogConfig) *logrus.Logger {
	logger := logrus.New()
	if cfg.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}
	return logger
}

// newCacheStore builds the cache adapter for the configured backend. The
// returned func releases the in-process backend, if one was created.
func newCacheStore(cfg *config.Config, redisClient *goredis.Client, logger *logrus.Logger) (*cache.Store, func()) {
	noop := func() {}
	if !cfg.Cache.Enabled {
		logger.Info("Caching disabled by configuration")
		return cache.NewDisabledStore(logger), noop
	}

	codec, err := cache.ParseCodec(cfg.Cache.Codec)
	if err != nil {
		logger.Fatal("Invalid cache configuration:", err)
	}
	storeCfg := &cache.StoreConfig{
		DefaultTTL:      cfg.Cache.TTL,
		OpTimeout:       cfg.Cache.OpTimeout,
		Codec:           codec,
		BreakerFailures: cfg.Cache.BreakerFailures,
		BreakerOpenFor:  cfg.Cache.BreakerOpenFor,
	}
	metrics := cache.NewMetrics(prometheus.DefaultRegisterer)

	switch cfg.Cache.Backend {
	case "memory":
		mem, err := cache.NewMemoryBackend(cache.MemoryConfig{MaxCost: cfg.Cache.MemoryMaxCost})
		if err != nil {
			logger.WithError(err).Warn("cache: failed to create memory backend, caching disabled")
			return cache.NewDisabledStore(logger), noop
		}
		return cache.NewStore(cache.StaticConnector(mem), storeCfg, metrics, logger), mem.Close
	default:
		return cache.NewStore(redis.NewCacheConnector(redisClient, cfg.Cache.Namespace), storeCfg, metrics, logger), noop
	}
}
