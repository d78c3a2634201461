package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"myfitapp/internal/config"
	"myfitapp/internal/database"
	"myfitapp/internal/handler"
	applogger "myfitapp/internal/logger"
	"myfitapp/internal/mailer"
	"myfitapp/internal/messaging"
	"myfitapp/internal/middleware"
	"myfitapp/internal/oauth"
	"myfitapp/internal/ratelimit"
	"myfitapp/internal/repository"
	"myfitapp/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"
)

const (
	connectRetries    = 50
	connectRetryDelay = 3 * time.Second
)

func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger ---
	logger, err := applogger.New(applogger.Config{
		Level:    cfg.LogLevel,
		Encoding: cfg.LogEncoding,
	})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	zap.ReplaceGlobals(logger)
	logger.Info("Logger initialized", zap.String("logLevel", cfg.LogLevel), zap.String("env", cfg.Env))

	// --- External Connections ---
	pgPool, err := database.Connect(context.Background(), database.PoolConfig{
		DSN:             cfg.DatabaseURL(),
		MaxConns:        cfg.DBMaxConns,
		MaxConnIdleTime: cfg.DBMaxConnIdleTime,
		MaxRetries:      connectRetries,
		RetryDelay:      connectRetryDelay,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer pgPool.Close()

	migrateCtx, migrateCancel := context.WithTimeout(context.Background(), time.Minute)
	if err := database.NewMigrator(pgPool, logger).Up(migrateCtx); err != nil {
		migrateCancel()
		logger.Fatal("Failed to apply database migrations", zap.Error(err))
	}
	migrateCancel()

	redisClient, err := setupRedis(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	mqConn, err := messaging.Connect(cfg.RabbitMQURL, connectRetries, connectRetryDelay, logger)
	if err != nil {
		logger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
	}
	defer mqConn.Close()

	// --- Dependency Injection ---
	userRepo := repository.NewPgUserRepository(pgPool, logger)
	sessionRepo := repository.NewRedisSessionRepository(redisClient, logger)
	oauthRepo := repository.NewRedisOAuthRepository(redisClient, logger)

	renderer, err := mailer.NewRenderer(cfg.FrontendURL, cfg.VerificationCodeTTL, logger)
	if err != nil {
		logger.Fatal("Failed to load email templates", zap.Error(err))
	}
	publisher, err := messaging.NewRabbitEmailPublisher(mqConn, cfg.EmailQueueName, logger)
	if err != nil {
		logger.Fatal("Failed to create email publisher", zap.Error(err))
	}

	authSvc := service.NewAuthService(service.Deps{
		Users:     userRepo,
		Sessions:  sessionRepo,
		OAuth:     oauthRepo,
		Publisher: publisher,
		Composer:  renderer,
	}, cfg, logger)

	var googleProvider handler.OAuthProvider
	if cfg.GoogleEnabled() {
		googleProvider = oauth.NewGoogleProvider(oauth.GoogleConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
		}, logger)
	}
	authHandler := handler.NewAuthHandler(authSvc, googleProvider, cfg, logger)

	rateLimitStore := ratelimit.NewRedisStore(redisClient, cfg.RateLimitRequests, cfg.RateLimitWindow)
	rateLimitMiddleware := ratelimit.Middleware(rateLimitStore, logger)

	smtpSender := mailer.NewSMTPSender(mailer.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		FromName: cfg.SMTPFromName,
	}, logger)
	emailConsumer := messaging.NewEmailConsumer(mqConn, cfg.EmailQueueName, cfg.EmailConcurrency,
		messaging.NewEmailProcessor(smtpSender, logger), logger)

	// --- HTTP Server Setup (Gin) ---
	gin.SetMode(gin.ReleaseMode)
	if cfg.Env == "development" {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.RedirectTrailingSlash = true
	router.Use(middleware.GinZapLogger(logger))
	router.Use(gin.Recovery())

	p := ginprometheus.NewPrometheus("gin")

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.GetAllowedOrigins()
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowOrigins = []string{cfg.FrontendURL}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader}
	corsConfig.AllowCredentials = true
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	authHandler.RegisterRoutes(router, rateLimitMiddleware)

	// Registered after the routes so that /metrics is not counted.
	p.Use(router)

	// --- Background Workers ---
	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		logger.Info("Starting email consumer...")
		if err := emailConsumer.Start(); err != nil {
			logger.Error("Email consumer stopped with error", zap.Error(err))
		}
	}()

	// --- Start HTTP Server ---
	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server listen error", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server forced to shutdown", zap.Error(err))
	}

	emailConsumer.Stop()
	select {
	case <-consumerDone:
	case <-shutdownCtx.Done():
		logger.Warn("Email consumer did not stop in time")
	}

	logger.Info("Server exiting")
}

// setupRedis creates the Redis client and waits until it answers a ping.
func setupRedis(cfg *config.Config, logger *zap.Logger) (*redis.Client, error) {
	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
	logger.Info("Attempting to connect to Redis",
		zap.String("address", opts.Addr),
		zap.Int("db", opts.DB),
		zap.Int("max_retries", connectRetries),
	)

	var lastErr error
	for attempt := 1; attempt <= connectRetries; attempt++ {
		client := redis.NewClient(opts)

		pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
		_, err := client.Ping(pingCtx).Result()
		pingCancel()
		if err == nil {
			logger.Info("Successfully connected and pinged Redis", zap.Int("attempt", attempt))
			return client, nil
		}

		_ = client.Close()
		lastErr = err
		logger.Warn("Redis ping failed, retrying...", zap.Int("attempt", attempt), zap.Error(err))
		if attempt < connectRetries {
			time.Sleep(connectRetryDelay)
		}
	}
	return nil, fmt.Errorf("failed to connect to redis after %d attempts: %w", connectRetries, lastErr)
}
