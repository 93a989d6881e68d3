package main

import (
	"context"
	"log/slog"
	"os"

	"jumpstart-backend/config"
	"jumpstart-backend/database"
	"jumpstart-backend/email"
	"jumpstart-backend/handlers"
	"jumpstart-backend/repository"
	"jumpstart-backend/service"
	"jumpstart-backend/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	sloggin "github.com/samber/slog-gin"
)

func main() {
	// Load .env file from project root (relative to cmd/server/)
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../../.env"); err != nil {
			slog.Info("no .env file found, using environment variables")
		}
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database
	db, err := initPostgres(cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to initialize Postgres", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		logger.Error("failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("database ready")

	// Initialize storage
	fileStorage, err := storage.NewStorage(storage.Config{
		Type:         storage.Type(cfg.Storage.Type),
		LocalPath:    cfg.Storage.LocalPath,
		PublicPath:   cfg.Storage.PublicPath,
		S3Bucket:     cfg.Storage.S3Bucket,
		S3Region:     cfg.Storage.S3Region,
		S3BaseURL:    cfg.Storage.S3BaseURL,
		AWSAccessKey: cfg.Storage.AWSAccessKey,
		AWSSecretKey: cfg.Storage.AWSSecretKey,
	})
	if err != nil {
		logger.Error("failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("storage initialized", slog.String("type", cfg.Storage.Type))

	// Initialize mail transport
	var sender email.Sender
	if cfg.SMTP.Enabled() {
		sender, err = email.NewSMTPSender(email.SMTPConfig{
			Host:        cfg.SMTP.Host,
			Port:        cfg.SMTP.Port,
			Username:    cfg.SMTP.Username,
			Password:    cfg.SMTP.Password,
			FromAddress: cfg.SMTP.FromAddress,
			FromName:    cfg.SMTP.FromName,
		})
		if err != nil {
			logger.Error("failed to initialize SMTP sender", slog.String("error", err.Error()))
			os.Exit(1)
		}
	} else {
		logger.Warn("SMTP_HOST not set, newsletter emails will be logged only")
		sender = email.NewLogSender(logger)
	}

	// Initialize repositories
	newsletterRepo := repository.NewNewsletterRepository(db)
	subscriberRepo := repository.NewSubscriberRepository(db)
	postRepo := repository.NewPostRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	// Initialize services
	newsletterService := service.NewNewsletterService(
		service.WithNewsletterRepository(newsletterRepo),
		service.WithStorage(fileStorage),
		service.WithLogger(logger),
	)
	notifyService := service.NewNotificationService(newsletterRepo, subscriberRepo, sender, cfg.BaseURL, logger)
	subscriberService := service.NewSubscriberService(subscriberRepo)
	postService := service.NewPostService(postRepo, fileStorage, logger)
	authService := service.NewAuthService(adminRepo, cfg.JWTSecret)

	// Initialize handlers
	uploader := handlers.NewUploader(fileStorage, cfg.MaxUploadSize, logger)
	newsletterHandler := handlers.NewNewsletterHandler(newsletterService, notifyService, authService, uploader, fileStorage, logger)
	subscriberHandler := handlers.NewSubscriberHandler(subscriberService, logger)
	postHandler := handlers.NewPostHandler(postService, uploader, logger)
	authHandler := handlers.NewAuthHandler(authService, logger)

	// Setup Gin router
	r := gin.New()
	r.Use(sloggin.New(logger))
	r.Use(gin.Recovery())

	if len(cfg.AllowedOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
		r.Use(cors.New(corsConfig))
	}

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// Uploaded artifacts are exposed read-only when stored locally
	if local, ok := fileStorage.(*storage.LocalStorage); ok {
		r.Static(cfg.Storage.PublicPath, local.BasePath())
	}

	authRequired := handlers.AuthRequired(authService)

	// API routes
	api := r.Group("/api")
	{
		api.POST("/auth/login", authHandler.Login)

		// Newsletter endpoints
		api.GET("/newsletters", newsletterHandler.List)
		api.GET("/newsletters/:id", newsletterHandler.Get)
		api.GET("/newsletters/:id/download", newsletterHandler.Download)
		api.POST("/newsletters", authRequired, newsletterHandler.Create)
		api.PUT("/newsletters/:id", authRequired, newsletterHandler.Update)
		api.DELETE("/newsletters/:id", authRequired, newsletterHandler.Delete)
		api.POST("/newsletters/:id/send", authRequired, newsletterHandler.Send)

		// Subscriber endpoints
		api.POST("/subscribers", subscriberHandler.Subscribe)
		api.DELETE("/subscribers", subscriberHandler.UnsubscribeByEmail)
		api.DELETE("/subscribers/:id", authRequired, subscriberHandler.Unsubscribe)

		// Blog post endpoints
		api.GET("/posts", postHandler.List)
		api.GET("/posts/:id", postHandler.Get)
		api.POST("/posts", authRequired, postHandler.Create)
		api.PUT("/posts/:id", authRequired, postHandler.Update)
		api.DELETE("/posts/:id", authRequired, postHandler.Delete)
	}

	logger.Info("server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func initPostgres(connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, err
	}

	return pool, nil
}
