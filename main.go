package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bookingai/bookingai-engine/pkg/auth"
	"github.com/bookingai/bookingai-engine/pkg/config"
	"github.com/bookingai/bookingai-engine/pkg/database"
	"github.com/bookingai/bookingai-engine/pkg/handlers"
	"github.com/bookingai/bookingai-engine/pkg/llm"
	"github.com/bookingai/bookingai-engine/pkg/logging"
	"github.com/bookingai/bookingai-engine/pkg/middleware"
	"github.com/bookingai/bookingai-engine/pkg/repositories"
	"github.com/bookingai/bookingai-engine/pkg/retry"
	"github.com/bookingai/bookingai-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

const shutdownTimeout = 15 * time.Second

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("base_url", cfg.BaseURL),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())),
		zap.String("redis", fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)),
		zap.String("ai_provider", cfg.AI.Provider),
		zap.String("ai_endpoint", logging.SanitizeURL(cfg.AI.BaseURL)),
		zap.String("ai_model", cfg.AI.Model),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsLocal() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	db, err := retry.DoWithResult(ctx, retry.DefaultConfig(), func() (*database.DB, error) {
		return database.NewConnection(ctx, &database.Config{
			URL:            cfg.Database.URL(),
			MaxConnections: cfg.Database.MaxConnections,
		})
	})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	sqlDB, err := database.OpenSQL(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	if err := database.RunMigrations(sqlDB, cfg.MigrationsPath, logger); err != nil {
		_ = sqlDB.Close()
		return fmt.Errorf("run migrations: %w", err)
	}
	_ = sqlDB.Close()

	redisClient, err := retry.DoWithResult(ctx, retry.DefaultConfig(), func() (*redis.Client, error) {
		return database.NewRedisClient(ctx, &cfg.Redis)
	})
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	} else {
		logger.Info("Redis not configured, evaluation cache disabled")
	}

	aiClient, err := llm.NewClientForProvider(&llm.Config{
		Provider: cfg.AI.Provider,
		Endpoint: cfg.AI.BaseURL,
		Model:    cfg.AI.Model,
		APIKey:   cfg.AI.APIKey(),
		Timeout:  cfg.AI.Timeout,
	}, logger)
	if err != nil {
		return fmt.Errorf("create ai client: %w", err)
	}
	if cfg.AI.APIKey() == "" {
		logger.Warn("AI credential not set; AI endpoints will fail until it is configured",
			zap.String("provider", cfg.AI.Provider))
	}

	// Repositories
	userRepo := repositories.NewUserRepository()
	propertyRepo := repositories.NewPropertyRepository()
	roomRepo := repositories.NewRoomRepository()
	bookingRepo := repositories.NewBookingRepository()
	reviewRepo := repositories.NewReviewRepository()
	favoriteRepo := repositories.NewFavoriteRepository()
	evaluationCache := repositories.NewEvaluationCache(redisClient, cfg.Redis.CacheTTL)

	// Services
	userService := services.NewUserService(userRepo, logger)
	propertyService := services.NewPropertyService(propertyRepo, roomRepo, evaluationCache, logger)
	roomService := services.NewRoomService(propertyRepo, roomRepo, logger)
	bookingService := services.NewBookingService(bookingRepo, roomRepo, logger)
	evaluationService := services.NewEvaluationService(propertyRepo, reviewRepo, evaluationCache, aiClient, logger)
	reviewService := services.NewReviewService(bookingRepo, reviewRepo, evaluationService, logger)
	rankingService := services.NewRankingService(aiClient, logger)
	recommendationService := services.NewRecommendationService(propertyRepo, aiClient, cfg.AI.ChatHotelCap, logger)
	favoriteService := services.NewFavoriteService(favoriteRepo, propertyRepo)

	sessions := auth.NewSessionManager(cfg.Auth.SessionSecret, cfg.Auth.SessionMaxAge, cfg.Auth.SecureCookies)
	authMiddleware := auth.NewMiddleware(sessions, logger)
	scope := handlers.ScopeMiddleware(database.WithScope(db, logger))

	mux := http.NewServeMux()

	handlers.NewHealthHandler(cfg, db, logger).RegisterRoutes(mux)
	handlers.NewAuthHandler(userService, sessions, logger).RegisterRoutes(mux, authMiddleware, scope)
	handlers.NewPropertyHandler(propertyService, roomService, logger).RegisterRoutes(mux, authMiddleware, scope)
	handlers.NewBookingHandler(bookingService, reviewService, logger).RegisterRoutes(mux, authMiddleware, scope)
	handlers.NewFavoriteHandler(favoriteService, logger).RegisterRoutes(mux, authMiddleware, scope)
	handlers.NewAIHandler(rankingService, recommendationService, evaluationService, propertyService, logger).
		RegisterRoutes(mux, authMiddleware, scope)
	mux.Handle("GET /metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.BindAddr, cfg.Port),
		Handler:           middleware.RequestLogger(logger)(mux),
		ReadHeaderTimeout: 10 * time.Second,
		// Evaluations may take up to the AI timeout plus database work.
		WriteTimeout: cfg.AI.Timeout + 15*time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting bookingai-engine",
			zap.String("addr", server.Addr),
			zap.String("version", cfg.Version))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
