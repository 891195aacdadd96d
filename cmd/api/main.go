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

	deliveryHTTP "github.com/frontandrew/patrol/internal/delivery/http"
	"github.com/frontandrew/patrol/internal/domain"
	"github.com/frontandrew/patrol/internal/pkg/config"
	"github.com/frontandrew/patrol/internal/pkg/database"
	"github.com/frontandrew/patrol/internal/pkg/jwt"
	"github.com/frontandrew/patrol/internal/pkg/logger"
	"github.com/frontandrew/patrol/internal/pkg/redis"
	"github.com/frontandrew/patrol/internal/repository"
	"github.com/frontandrew/patrol/internal/repository/cached"
	"github.com/frontandrew/patrol/internal/repository/postgres"
	"github.com/frontandrew/patrol/internal/usecase/auth"
	"github.com/frontandrew/patrol/internal/usecase/catalog"
	"github.com/frontandrew/patrol/internal/usecase/report"
	"github.com/frontandrew/patrol/internal/usecase/user"
	"github.com/frontandrew/patrol/internal/usecase/violation"
	"golang.org/x/sync/errgroup"
)

const sessionPurgeInterval = time.Hour

func main() {
	// =========================================================================
	// Загрузка конфигурации
	// =========================================================================

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// =========================================================================
	// Инициализация logger
	// =========================================================================

	log := logger.New(cfg.Logger.Level, cfg.Logger.Format, cfg.Logger.Output)
	logger.SetGlobalLogger(log)
	log.Info("Starting PATROL API server", map[string]interface{}{
		"version": "1.0.0",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// =========================================================================
	// Подключение к PostgreSQL
	// =========================================================================

	db, err := database.Connect(ctx, &cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer database.Close(db)

	log.Info("Connected to PostgreSQL", map[string]interface{}{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Database,
	})

	if cfg.Database.ApplySchema {
		if err := database.EnsureSchema(ctx, db); err != nil {
			log.Fatal("Failed to apply database schema", map[string]interface{}{
				"error": err.Error(),
			})
		}
		log.Info("Database schema is up to date")
	}

	// =========================================================================
	// Создание repositories
	// =========================================================================

	userRepo := postgres.NewUserRepository(db)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db)
	violationRepo := postgres.NewViolationRepository(db)

	var violationTypeRepo repository.ViolationTypeRepository = postgres.NewViolationTypeRepository(db)

	// Redis необязателен: без него справочник читается из PostgreSQL
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn("Redis is not available, catalog cache disabled", map[string]interface{}{
				"error":   err.Error(),
				"address": cfg.Redis.Address(),
			})
		} else {
			defer redisClient.Close()
			violationTypeRepo = cached.NewViolationTypeRepository(violationTypeRepo, redisClient, cfg.Catalog.CacheTTL, log)
			log.Info("Connected to Redis", map[string]interface{}{
				"address": cfg.Redis.Address(),
			})
		}
	}

	log.Info("Repositories initialized")

	// =========================================================================
	// Создание JWT token service
	// =========================================================================

	tokenService := jwt.NewTokenService(
		cfg.JWT.SecretKey,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// =========================================================================
	// Создание use case services
	// =========================================================================

	calculator := domain.NewFineCalculator(
		domain.ConfiguredVehicleClassifier(cfg.Fines.MotorcycleTokens, cfg.Fines.TruckTokens),
	)

	authService := auth.NewService(userRepo, refreshTokenRepo, tokenService, log)
	userService := user.NewService(userRepo, refreshTokenRepo, log)
	catalogService := catalog.NewService(violationTypeRepo, log)
	violationService := violation.NewService(violationRepo, catalogService, calculator, violation.Config{
		RecomputeWorkers: cfg.Fines.RecomputeWorkers,
		RecomputeBatch:   cfg.Fines.RecomputeBatch,
	}, log)
	reportService := report.NewService(violationRepo, log)

	log.Info("Use case services initialized")

	// =========================================================================
	// Создание HTTP handlers и router
	// =========================================================================

	router := deliveryHTTP.NewRouter(deliveryHTTP.Handlers{
		Auth:      deliveryHTTP.NewAuthHandler(authService, log),
		User:      deliveryHTTP.NewUserHandler(userService, log),
		Catalog:   deliveryHTTP.NewCatalogHandler(catalogService, log),
		Violation: deliveryHTTP.NewViolationHandler(violationService, log),
		Report:    deliveryHTTP.NewReportHandler(reportService, log),
	}, tokenService, cfg, log)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// =========================================================================
	// Запуск сервера и фоновых задач
	// =========================================================================

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("API server listening", map[string]interface{}{
			"address": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		purgeSessions(gctx, authService, log)
		return nil
	})

	// =========================================================================
	// Graceful shutdown
	// =========================================================================

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Graceful shutdown failed", map[string]interface{}{
				"error": err.Error(),
			})
			return srv.Close()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("Server stopped with error", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	log.Info("Server stopped gracefully")
}

// purgeSessions периодически чистит истекшие refresh токены до отмены ctx
func purgeSessions(ctx context.Context, authService *auth.Service, log logger.Logger) {
	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := authService.PurgeExpiredSessions(ctx); err != nil {
				log.Warn("Failed to purge expired sessions", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}
}
