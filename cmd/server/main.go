package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/database"
	httpapi "github.com/taskhive/taskhive/internal/http"
	"github.com/taskhive/taskhive/internal/repository"
	"github.com/taskhive/taskhive/internal/service"
	"github.com/taskhive/taskhive/pkg/auth"
	"github.com/taskhive/taskhive/pkg/email"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	client, db, err := database.Connect(ctx, database.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	cancel()
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			logger.Warn("mongo disconnect failed", zap.Error(err))
		}
	}()
	logger.Info("connected to MongoDB", zap.String("database", cfg.Mongo.Database))

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	err = database.EnsureIndexes(ctx, db)
	cancel()
	if err != nil {
		logger.Fatal("failed to ensure indexes", zap.Error(err))
	}

	users := repository.NewMongoUserRepository(db)
	projects := repository.NewMongoProjectRepository(db)
	tasks := repository.NewMongoTaskRepository(db)

	tokenManager := auth.NewTokenManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenDuration,
		cfg.JWT.RefreshTokenDuration,
	)

	emailService := newEmailService(cfg, logger)

	authService := service.NewAuthService(users, tokenManager, emailService, logger)
	projectService := service.NewProjectService(projects, tasks, users, logger)
	taskService := service.NewTaskService(tasks, projects, logger)
	dashboardService := service.NewDashboardService(tasks, logger)

	srv, err := httpapi.NewServer(
		&httpapi.Config{Host: cfg.Server.Host, Port: cfg.Server.Port},
		tokenManager,
		authService, projectService, taskService, dashboardService,
		logger,
	)
	if err != nil {
		logger.Fatal("failed to create server", zap.Error(err))
	}

	go func() {
		if err := srv.Start(); err != nil {
			logger.Info("http server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newEmailService(cfg *config.Config, logger *zap.Logger) email.Service {
	if cfg.Email.TestingMode {
		logger.Info("email testing mode enabled, emails will be recorded only")
		return email.NewMockService()
	}
	return email.NewSMTPService(&email.Config{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromEmail:    cfg.Email.FromEmail,
		FromName:     cfg.Email.FromName,
		BaseURL:      cfg.Email.BaseURL,
		AppName:      cfg.Email.FromName,
		SupportEmail: cfg.Email.SupportEmail,
	})
}
