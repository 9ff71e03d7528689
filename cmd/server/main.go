package main

import (
	"context"   // Shutdown and Redis operations
	"errors"    // Server close detection
	"net/http"  // HTTP server
	"os"        // Signals
	"os/signal" // Signal handling
	"syscall"   // SIGTERM
	"time"      // Timeouts

	"github.com/Neeraj-1996/mlmbackend/internal/api"        // HTTP handlers and router
	"github.com/Neeraj-1996/mlmbackend/internal/config"     // Configuration
	"github.com/Neeraj-1996/mlmbackend/internal/db"         // Database connection and migrations
	"github.com/Neeraj-1996/mlmbackend/internal/imagehost"  // Image host client
	"github.com/Neeraj-1996/mlmbackend/internal/middleware" // Rate limiting and metrics
	"github.com/Neeraj-1996/mlmbackend/internal/notify"     // OTP delivery
	"github.com/Neeraj-1996/mlmbackend/internal/service"    // Business rules
	"github.com/Neeraj-1996/mlmbackend/internal/store"      // Persistence
	"github.com/Neeraj-1996/mlmbackend/internal/utils"      // Cache

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	// Setup logger
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode) // Set Mode to Release if in production
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	gdb, err := db.Open(cfg.DSN(), !cfg.IsProd)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	if err := db.Migrate(gdb); err != nil {
		logrus.Fatalf("failed to migrate DB: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		logrus.Fatalf("failed to get sql.DB: %v", err)
	}

	cache := utils.NewCache(connectRedis(cfg), cfg.CacheTTL) // Nil client disables caching

	users := store.NewUserStore(gdb)
	withdrawals := store.NewWithdrawalStore(gdb)
	catalog := store.NewCatalogStore(gdb)
	images := imagehost.New(cfg.ImageHost)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	limiter.StartCleanup(ctx, time.Minute)

	router := api.NewRouter(api.Deps{
		Auth:        service.NewAuthService(users, images, notify.New(cfg.Mail), cfg.Tokens, cfg.OTP),
		Withdrawals: service.NewWithdrawalService(withdrawals, users),
		Catalog:     service.NewCatalogService(catalog, users, withdrawals, images),
		Users:       users,
		Cache:       cache,
		Tokens:      cfg.Tokens,
		Cookies: api.CookieConfig{
			Secure:     cfg.IsProd,
			AccessTTL:  cfg.Tokens.AccessTTL,
			RefreshTTL: cfg.Tokens.RefreshTTL,
		},
		Limiter:     limiter,
		Metrics:     middleware.NewMetrics(),
		CORSOrigins: cfg.CORSOrigins,
		Ping:        sqlDB.PingContext,
	})
	// Set trusted proxies for Gin
	if err := router.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		MaxHeaderBytes:    1 << 20,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Minute, // Multipart image uploads
		WriteTimeout:      time.Minute,
	}
	go func() {
		logrus.WithField("port", cfg.AppPort).Info("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Graceful shutdown failed")
	}
	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Warn("Closing DB failed")
	}
}

// connectRedis returns nil when Redis is not configured or unreachable
func connectRedis(cfg *config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		logrus.Warn("REDIS_ADDR not set, caching disabled")
		return nil
	}
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	// Test Redis connection
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logrus.WithError(err).Warn("Redis unreachable, caching disabled")
		_ = redisClient.Close()
		return nil
	}
	return redisClient
}
