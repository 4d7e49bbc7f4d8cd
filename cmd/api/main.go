package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"migrascore/internal/config"
	"migrascore/internal/db"
	apihttp "migrascore/internal/http"
	"migrascore/internal/repository"
	"migrascore/internal/scoring"
	"migrascore/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	consultationRepo := repository.NewPgConsultationRepository(pool)
	registry := scoring.NewRegistry()

	createWindow := time.Duration(cfg.CreateRateWindowMinutes) * time.Minute
	createLimiter := service.NewCreateRateLimiter(createWindow, cfg.CreateRateMax)
	var idempotencyStore service.IdempotencyStore
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			idempotencyStore = service.NewRedisIdempotencyStore(redisClient, time.Duration(cfg.IdempotencyTTLHours)*time.Hour)
			createLimiter = service.NewRedisCreateRateLimiter(redisClient, createWindow, cfg.CreateRateMax)
		}
		cancel()
	}

	jwtSvc := service.NewJWTService(cfg.JWTSecret, time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}
	if cfg.PaymentWebhookSecretHash == "" {
		logger.Warn("payment webhook secret not configured")
	}

	consultationSvc := service.NewConsultationService(logger, consultationRepo, registry, idempotencyStore, createLimiter)
	consultationHandler := apihttp.NewConsultationHandler(logger, consultationSvc)
	webhookHandler := apihttp.NewWebhookHandler(logger, consultationSvc)

	health := func(c *gin.Context) {
		if err := db.Ping(c.Request.Context(), pool); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}

	router := apihttp.NewRouter(logger, consultationHandler, webhookHandler, jwtSvc, cfg.PaymentWebhookSecretHash, health)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
