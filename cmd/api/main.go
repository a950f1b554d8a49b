package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/fq962/atom-challenge-api/internal/config"
	"github.com/fq962/atom-challenge-api/internal/monitoring"
	"github.com/fq962/atom-challenge-api/internal/repositories"
	"github.com/fq962/atom-challenge-api/internal/server"
	"github.com/fq962/atom-challenge-api/internal/services"
	"github.com/fq962/atom-challenge-api/internal/storage"
	"github.com/fq962/atom-challenge-api/internal/token"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		boot := zerolog.New(os.Stderr).With().Timestamp().Logger()
		boot.Fatal().Err(err).Msg("invalid configuration")
	}

	logger := newLogger(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.ConnectTimeout)
	store, err := storage.Connect(ctx, cfg.Mongo)
	cancel()
	if err != nil {
		logger.Fatal().Err(err).Str("uri", cfg.Mongo.URI).Msg("mongo connection failed")
	}
	logger.Info().Str("database", cfg.Mongo.Database).Msg("mongo connected")

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			// Rate limiting degrades to its in-process fallback.
			logger.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable")
			redisClient = nil
		}
	}

	tokens := token.NewService(cfg.Auth)
	taskService := services.NewTaskService(repositories.NewTaskRepository(store))
	userService := services.NewUserService(repositories.NewUserRepository(store), tokens)

	metrics := monitoring.NewMetrics()
	health := monitoring.NewHealthChecker()
	health.Register("mongo", store.Ping)
	if redisClient != nil {
		health.Register("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	router := server.NewRouter(server.Dependencies{
		Config:  cfg,
		Logger:  logger,
		Tokens:  tokens,
		Tasks:   taskService,
		Users:   userService,
		Redis:   redisClient,
		Metrics: metrics,
		Health:  health,
	})

	srv := &http.Server{
		Addr:         cfg.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Str("environment", cfg.Server.Environment).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info().Str("signal", sig.String()).Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
	}
	if err := store.Close(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("mongo close failed")
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("redis close failed")
		}
	}

	logger.Info().Msg("server stopped")
}

func newLogger(cfg *config.Config) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if cfg.IsProduction() {
		return zerolog.New(os.Stdout).With().Timestamp().Str("service", "atom-challenge-api").Logger()
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
}
