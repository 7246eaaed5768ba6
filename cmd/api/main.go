package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"deepmirror/internal/config"
	apihttp "deepmirror/internal/http"
	"deepmirror/internal/llm"
	"deepmirror/internal/notify"
	"deepmirror/internal/repository"
	"deepmirror/internal/scheduler"
	"deepmirror/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg.LogDevelopment)
	defer logger.Sync()

	store, err := repository.OpenStore(ctx, cfg, cfg.ResultCache, logger)
	if err != nil {
		logger.Fatal("store open", zap.Error(err))
	}
	defer store.Close()
	if err := store.Migrate(ctx); err != nil {
		logger.Fatal("store migrate", zap.Error(err))
	}

	llmClient, err := newLLMClient(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("llm client", zap.Error(err))
	}

	notifier := notify.NewDisabledNotifier(logger)
	if cfg.DiscordWebhook != "" {
		discord, err := notify.NewDiscordNotifier(cfg.DiscordWebhook, logger)
		if err != nil {
			logger.Warn("discord notifier init failed", zap.Error(err))
		} else {
			notifier = discord
		}
	}

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, cleanup lock will fail open", zap.Error(err))
		}
		cancel()
	}

	analysisProvider := service.NewLLMAnalysisProvider(llmClient, cfg.LLMTimeout, logger)
	resultSvc := service.NewResultService(logger, store.Results, analysisProvider)
	feedbackSvc := service.NewFeedbackService(logger, store.Feedback, notifier)
	cleanupSvc := service.NewFeedbackCleanupService(logger, store.Feedback, service.Retention{Years: cfg.RetentionYears, Window: cfg.FeedbackTTL}, redisClient)

	cleanupJob, err := scheduler.NewDaily("feedback-cleanup", cfg.CleanupHour, cfg.CleanupMinute,
		func(ctx context.Context, now time.Time) error {
			_, _, err := cleanupSvc.RunDaily(ctx, now)
			return err
		}, logger)
	if err != nil {
		logger.Fatal("cleanup scheduler", zap.Error(err))
	}
	go func() {
		if err := cleanupJob.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("cleanup scheduler stopped", zap.Error(err))
		}
	}()

	router := apihttp.NewRouter(logger,
		apihttp.NewResultHandler(logger, resultSvc),
		apihttp.NewFeedbackHandler(logger, feedbackSvc),
		apihttp.NewHealthHandler(logger, store.Ping),
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting server", zap.String("port", cfg.HTTPPort), zap.String("store", cfg.StoreDriver), zap.String("llm", cfg.LLMProvider))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}

func newLogger(development bool) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if development {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	return logger
}

func newLLMClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) (llm.LLMClient, error) {
	switch cfg.LLMProvider {
	case config.LLMProviderOpenAI:
		return llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMTimeout, logger), nil
	default:
		client, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiBaseURL, logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}
