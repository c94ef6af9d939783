package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"

	"liferestart-server/internal/config"
	"liferestart-server/internal/handler"
	"liferestart-server/internal/logger"
	"liferestart-server/internal/middleware"
	"liferestart-server/internal/repository"
	"liferestart-server/internal/service"
)

func main() {
	// Standard log only until zap is up.
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	encoding := "json"
	if cfg.Env == "development" {
		encoding = "console"
	}
	zapLogger, err := logger.New(logger.Config{Level: cfg.LogLevel, Encoding: encoding})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("port", cfg.ServerPort),
	)

	// --- Redis (model preference persistence) ---
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		// The preference store degrades to the default selection, so a
		// missing redis is a warning, not a startup failure.
		zapLogger.Warn("Redis unavailable, model preference will not persist",
			zap.String("addr", cfg.RedisAddr),
			zap.Error(err),
		)
	} else {
		zapLogger.Info("Connected to Redis", zap.String("addr", cfg.RedisAddr))
	}
	pingCancel()
	defer redisClient.Close()

	// --- Repositories ---
	sessionRepo := repository.NewMemorySessionRepository(zapLogger)
	prefRepo := repository.NewRedisPreferenceRepository(redisClient, zapLogger)

	// --- Services ---
	selectionStore := service.NewSelectionStore(prefRepo, zapLogger)
	prompts := service.NewPromptBuilder(cfg.PromptHistoryTokens, zapLogger)

	openAIClient := service.NewOpenAIClient(cfg, zapLogger)
	ollamaClient, err := service.NewOllamaClient(cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to create ollama client", zap.Error(err))
	}

	router := service.NewResolverRouter(
		selectionStore,
		service.NewOllamaResolver(ollamaClient, prompts, cfg, zapLogger),
		service.NewOpenAIResolver(openAIClient, prompts, cfg, zapLogger),
		zapLogger,
	)
	gameService := service.NewGameService(sessionRepo, router, zapLogger)

	// --- Gin ---
	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(zapLogger))

	p := ginprometheus.NewPrometheus("gin")
	p.Use(engine)

	corsConfig := cors.DefaultConfig()
	if origins := cfg.GetAllowedOrigins(); len(origins) > 0 {
		corsConfig.AllowOrigins = origins
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	engine.Use(cors.New(corsConfig))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	gameHandler := handler.NewGameHandler(gameService, selectionStore, zapLogger)
	gameHandler.RegisterRoutes(engine)

	// --- HTTP server ---
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: engine,
	}

	go func() {
		zapLogger.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutdown signal received, stopping server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server shutdown failed", zap.Error(err))
	}
	zapLogger.Info("Server stopped")
}
