package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"task-management-backend/internal/cache"
	"task-management-backend/internal/config"
	"task-management-backend/internal/database"
	"task-management-backend/internal/handler"
	"task-management-backend/internal/logger"
	"task-management-backend/internal/mailer"
	"task-management-backend/internal/repository"
	"task-management-backend/internal/service"
	"task-management-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg := config.LoadConfig()
	log := logger.New(cfg.App.LogLevel, cfg.Environment())
	defer func() { _ = log.Sync() }()
	log.Info("Configuration loaded successfully")

	// 2. Initialize token signing and encryption
	codec, err := utils.NewTokenCodec(utils.TokenConfig{
		EncryptionKey: cfg.JWT.EncryptionKey,
		AccessSecret:  cfg.JWT.AccessSecret,
		RefreshSecret: cfg.JWT.RefreshSecret,
	})
	if err != nil {
		log.Fatal("Failed to initialize token codec", zap.Error(err))
	}

	// 3. Initialize database connection
	db := database.Connect(cfg, log)
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	if err := database.SeedStatuses(db); err != nil {
		log.Fatal("Failed to seed statuses", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 4. Optional Redis for the list cache and rate limiter
	var listCache service.ListCache
	deps := handler.RouterDeps{Config: cfg, Logger: log}
	if cfg.Redis.Addr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, running without cache and rate limiting", zap.Error(err))
		} else {
			defer func() { _ = client.Close() }()
			listCache = cache.NewCache(client, log, "tasks")
			deps.Limiter = cache.NewLimiter(client, log)
		}
	}

	// 5. Initialize repositories
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	taskRepo := repository.NewTaskRepo(db)
	statusRepo := repository.NewStatusRepo(db)
	auditRepo := repository.NewAuditRepo(db)

	// 6. Initialize services
	deps.AuthService = service.NewAuthService(userRepo, tokenRepo, auditRepo, codec, log)
	deps.TaskService = service.NewTaskService(taskRepo, statusRepo, repository.NewTaskShareRepo(db), userRepo, auditRepo,
		listCache, cfg.Redis.CacheTTL, log)
	deps.SubTaskService = service.NewSubTaskService(repository.NewSubTaskRepo(db), taskRepo, statusRepo, auditRepo, log)
	deps.ReminderService = service.NewReminderService(repository.NewReminderRepo(db), taskRepo, auditRepo,
		mailer.New(cfg.Mail, log), log)

	if err := deps.AuthService.EnsureAdmin(ctx, cfg.Admin); err != nil {
		log.Fatal("Failed to bootstrap admin account", zap.Error(err))
	}

	// 7. Start background token sweeper
	sweeper := service.NewTokenSweeper(tokenRepo, cfg.Sweeper.Interval, log)
	go sweeper.Start(ctx)

	// 8. Setup Gin router
	gin.SetMode(cfg.Server.GinMode)
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 9. Setup graceful shutdown
	go func() {
		log.Info("Server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Cancel background worker context
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited")
}
