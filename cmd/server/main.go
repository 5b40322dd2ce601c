package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/yukikurage/taskboard-api/internal/auth"
	"github.com/yukikurage/taskboard-api/internal/board"
	"github.com/yukikurage/taskboard-api/internal/config"
	"github.com/yukikurage/taskboard-api/internal/database"
	"github.com/yukikurage/taskboard-api/internal/handlers"
	"github.com/yukikurage/taskboard-api/internal/logging"
	"github.com/yukikurage/taskboard-api/internal/repository"
	"github.com/yukikurage/taskboard-api/internal/services"
	"github.com/yukikurage/taskboard-api/internal/telemetry"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	if cfg.Telemetry.Enabled {
		tp, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.Exporter, cfg.Telemetry.Endpoint)
		if err != nil {
			return fmt.Errorf("init tracer: %w", err)
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Warn("tracer shutdown", zap.Error(err))
			}
		}()
	}

	projectRepo, userRepo, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	revoker, closeRevoker, err := openRevoker(ctx, cfg.Redis, logger)
	if err != nil {
		return err
	}
	defer closeRevoker()

	authenticator := auth.NewAuthenticator(auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL), revoker)

	// Initialize AI service
	var suggester services.TaskSuggester
	if cfg.OpenAI.APIKey != "" {
		suggester = services.NewAIService(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	} else {
		logger.Info("OpenAI API key not set; task generation disabled")
	}

	router := handlers.NewRouter(handlers.Services{
		Auth:          services.NewAuthService(userRepo, authenticator, logger),
		Projects:      services.NewProjectService(projectRepo, logger),
		Members:       services.NewMembershipService(projectRepo, userRepo, logger),
		Tasks:         services.NewTaskService(projectRepo, suggester, logger),
		Board:         services.NewBoardService(board.NewEngine(projectRepo, logger), logger),
		Authenticator: authenticator,
	}, logger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStore connects the configured backend and returns its repositories.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.ProjectRepository, repository.UserRepository, func(), error) {
	if cfg.Store.Backend == "mongo" {
		client, db, err := database.ConnectMongo(ctx, cfg.Mongo, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.EnsureMongoIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, nil, err
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Warn("mongo disconnect", zap.Error(err))
			}
		}
		return repository.NewMongoProjectRepository(db), repository.NewMongoUserRepository(db), closeFn, nil
	}

	// Connect to database and run migrations
	db, err := database.Open(cfg.Database, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	closeFn := func() { database.Close(db, logger) }
	return repository.NewProjectRepository(db), repository.NewUserRepository(db), closeFn, nil
}

// openRevoker uses Redis when configured so logouts hold across instances.
func openRevoker(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (auth.Revoker, func(), error) {
	if cfg.Addr == "" {
		logger.Warn("redis not configured; token revocation is kept in memory")
		return auth.NewMemoryRevoker(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("connect to redis at %s: %w", cfg.Addr, err)
	}

	logger.Info("redis connected", zap.String("addr", cfg.Addr))
	return auth.NewRedisRevoker(client), func() { _ = client.Close() }, nil
}
