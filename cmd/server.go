package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"coworkops/internal/analytics"
	"coworkops/internal/caching"
	"coworkops/internal/config"
	"coworkops/internal/handlers"
	"coworkops/internal/jobs"
	"coworkops/internal/jobs/background"
	"coworkops/internal/metrics"
	"coworkops/internal/middleware"
	"coworkops/internal/models"
	"coworkops/internal/repositories"
	"coworkops/internal/services"
	"coworkops/pkg/database"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	jwtSecret := cfg.Auth.JWTSecret
	if jwtSecret == "" {
		if cfg.App.Env != "dev" {
			return errors.New("JWT_SECRET environment variable is required")
		}
		jwtSecret = random.String(32)
		logger.Warn("using a generated JWT secret; tokens will not survive a restart")
	}

	pool, err := database.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return err
	}

	redisClient := caching.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	defer redisClient.Close()
	cacheService := caching.NewCacheService(redisClient)

	store, err := services.NewMinioStore(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.Bucket, cfg.Minio.UseSSL)
	if err != nil {
		logger.Warn("object storage unavailable, report exports disabled", zap.Error(err))
		store = nil
	} else if err := store.EnsureBucket(ctx); err != nil {
		logger.Warn("failed to ensure report bucket", zap.String("bucket", cfg.Minio.Bucket), zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	clock := clockwork.NewRealClock()

	// Repositories
	itemRepo := repositories.NewItemRepo(pool)
	locationRepo := repositories.NewLocationRepo(pool)
	roomRepo := repositories.NewRoomRepo(pool)
	stockRepo := repositories.NewStockRepo(pool)
	transferRepo := repositories.NewTransferRepo(pool)
	timeEntryRepo := repositories.NewTimeEntryRepo(pool)
	bookingRepo := repositories.NewBookingRepo(pool)
	settingsRepo := repositories.NewSettingsRepo(pool)
	userRepo := repositories.NewUserRepo(pool)
	auditLogsRepo := repositories.NewAuditLogsRepo(pool)
	reportRepo := repositories.NewReportRepo(pool)

	// Services
	rbacService := services.NewRBACService()
	auditLogsService := services.NewAuditLogsService(auditLogsRepo)
	authService := services.NewAuthService(userRepo, cacheService, clock, jwtSecret, cfg.Auth.AccessTokenTTL, logger)
	userService := services.NewUserService(userRepo, auditLogsService, logger)
	itemService := services.NewItemService(itemRepo, cacheService, auditLogsService, logger)
	locationService := services.NewLocationService(locationRepo, roomRepo)
	stockService := services.NewStockService(pool, stockRepo, itemRepo, locationRepo, logger)
	transferService := services.NewTransferService(services.TransferDeps{
		DB:           pool,
		TransferRepo: transferRepo,
		StockRepo:    stockRepo,
		ItemRepo:     itemRepo,
		LocationRepo: locationRepo,
		Audit:        auditLogsService,
		RBAC:         rbacService,
		Clock:        clock,
		Metrics:      appMetrics,
		Logger:       logger,
	})
	timeEntryService := services.NewTimeEntryService(pool, timeEntryRepo, locationRepo, clock, loc, appMetrics, logger)
	bookingService := services.NewBookingService(services.BookingDeps{
		DB:           pool,
		BookingRepo:  bookingRepo,
		RoomRepo:     roomRepo,
		UserRepo:     userRepo,
		SettingsRepo: settingsRepo,
		RBAC:         rbacService,
		Clock:        clock,
		Location:     loc,
		Metrics:      appMetrics,
		Logger:       logger,
	})
	settingsService := services.NewSettingsService(pool, settingsRepo, auditLogsService, logger)
	analyticsService := analytics.NewAnalyticsService(reportRepo, store, clock.Now, logger)
	notificationService := services.NewNotificationService(caching.NewAlertStore(redisClient), clock, logger)

	if err := settingsService.Seed(ctx, &models.Settings{
		DailyBookingLimitMinutes:   cfg.Booking.DailyLimitMinutes,
		MonthlyBookingLimitMinutes: cfg.Booking.MonthlyLimitMinutes,
		SlotMinutes:                cfg.Booking.SlotMinutes,
		OpenHour:                   cfg.Booking.OpenHour,
		CloseHour:                  cfg.Booking.CloseHour,
	}); err != nil {
		return fmt.Errorf("failed to seed settings: %w", err)
	}

	// Background jobs
	scheduler, err := background.NewJobScheduler(clock,
		background.Intervals{
			BookingCompletion: cfg.Jobs.BookingCompletionPeriod,
			LowStockAlerts:    cfg.Jobs.LowStockPeriod,
		},
		jobs.NewBookingCompletionService(bookingService, logger),
		jobs.NewInventoryAlertService(analyticsService, notificationService, appMetrics, logger),
		logger,
	)
	if err != nil {
		return err
	}
	if cfg.Jobs.Enabled {
		scheduler.Start()
	}
	defer func() {
		if err := scheduler.Stop(); err != nil {
			logger.Warn("scheduler shutdown", zap.Error(err))
		}
	}()

	// HTTP
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.HTTPErrorHandler(logger)

	versionMiddleware := middleware.NewVersionMiddleware()
	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.RequestID())
	e.Use(middleware.RequestLogger(logger, appMetrics))
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.BodyLimit("1M"))
	e.Use(versionMiddleware.APIVersionResolver())

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})))

	router := &handlers.Router{
		Auth:        handlers.NewAuthHandlers(authService, userService),
		Users:       handlers.NewUserHandlers(userService),
		Items:       handlers.NewItemHandlers(itemService),
		Locations:   handlers.NewLocationHandlers(locationService, bookingService),
		Inventory:   handlers.NewInventoryHandlers(stockService),
		Transfers:   handlers.NewTransferHandlers(transferService),
		TimeEntries: handlers.NewTimeEntryHandlers(timeEntryService, rbacService, loc),
		Bookings:    handlers.NewBookingHandlers(bookingService, rbacService, clock),
		Settings:    handlers.NewSettingsHandlers(settingsService),
		Reports:     handlers.NewReportHandlers(analyticsService, loc),
		AuditLogs:   handlers.NewAuditLogsHandlers(auditLogsService),
		Jobs:        handlers.NewJobHandlers(scheduler),
		Alerts:      handlers.NewNotificationHandlers(notificationService),
		Health:      handlers.NewHealthHandlers(pool, cacheService),
	}
	router.Register(e, middleware.JWTMiddleware(authService), middleware.NewRBACMiddleware(rbacService), versionMiddleware)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", addr), zap.String("version", version), zap.String("timezone", loc.String()))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
