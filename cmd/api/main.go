package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"seatledger/config"
	_ "seatledger/docs"
	"seatledger/internal/adapters/auth"
	"seatledger/internal/adapters/cache"
	"seatledger/internal/adapters/email"
	delivery "seatledger/internal/delivery/http"
	"seatledger/internal/delivery/http/controllers"
	"seatledger/internal/delivery/http/middleware"
	"seatledger/internal/domain"
	"seatledger/internal/repository/postgres"
	"seatledger/internal/services"
	"seatledger/migrations"
)

const (
	serviceTimeout  = 5 * time.Second
	shutdownTimeout = 10 * time.Second
)

// @title Seat Ledger API
// @version 1.0
// @description Event seat-inventory ledger: catalog, sales, refunds, and audit reporting.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := config.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, serviceTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	if err := migrations.Apply(ctx, db); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	logger.Info("database ready")

	var summaryCache domain.SummaryCache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, summary cache disabled", "addr", cfg.RedisAddr, "err", err)
		} else {
			summaryCache = cache.NewSummaryCache(redisClient, cfg.SummaryCacheTTL, logger)
			logger.Info("summary cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.SummaryCacheTTL)
		}
	}

	notifier, err := email.NewNotifier(email.NotifierConfig{
		Provider:   cfg.NotifierProvider,
		From:       cfg.NotifyFrom,
		OpsAddress: cfg.NotifyOps,
		SES: email.SESConfig{
			Region:             cfg.SESRegion,
			AccessKeyID:        cfg.SESAccessKeyID,
			SecretAccessKey:    cfg.SESSecretKey,
			InsecureSkipVerify: cfg.SESInsecureTLS,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("create notifier: %w", err)
	}

	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)
	tokenCodec := auth.NewJWTCodec(cfg.JWTSecret)

	eventRepo := postgres.NewEventRepository(db)
	inventoryRepo := postgres.NewInventoryRepository(db)
	movementRepo := postgres.NewMovementRepository(db)
	userRepo := postgres.NewUserRepository(db)

	catalogSvc := services.NewCatalogService(eventRepo, summaryCache, logger, serviceTimeout)
	querySvc := services.NewQueryService(eventRepo, summaryCache, logger, serviceTimeout)
	inventorySvc := services.NewInventoryService(inventoryRepo, movementRepo, eventRepo, summaryCache, notifier, logger, serviceTimeout)
	userSvc := services.NewUserService(userRepo, hasher, tokenCodec, cfg.TokenExpiry, logger, serviceTimeout)

	if err := seedAdmin(ctx, cfg, userSvc, logger); err != nil {
		return err
	}

	authController := controllers.NewAuthController(logger, userSvc)
	eventController := controllers.NewEventController(logger, catalogSvc, querySvc)
	salesController := controllers.NewSalesController(logger, inventorySvc)
	reportController := controllers.NewReportController(logger, querySvc)

	mux := delivery.NewRouter(authController, eventController, salesController, reportController, tokenCodec)
	handler := middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// seedAdmin creates the bootstrap admin account when ADMIN_USERNAME and
// ADMIN_PASSWORD are configured. An existing account is left untouched.
func seedAdmin(ctx context.Context, cfg *config.Config, users domain.UserService, logger *slog.Logger) error {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return nil
	}
	_, err := users.CreateUser(ctx, cfg.AdminUsername, cfg.AdminPassword, domain.RoleAdmin)
	switch {
	case errors.Is(err, domain.ErrUserExists):
		logger.Info("admin account already present", "username", cfg.AdminUsername)
		return nil
	case err != nil:
		return fmt.Errorf("seed admin: %w", err)
	}
	logger.Info("admin account created", "username", cfg.AdminUsername)
	return nil
}
