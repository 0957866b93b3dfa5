package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sangkips/salon-commission-api/internal/application/scheduler"
	"github.com/sangkips/salon-commission-api/internal/application/service"
	"github.com/sangkips/salon-commission-api/internal/config"
	"github.com/sangkips/salon-commission-api/internal/infrastructure/cache"
	"github.com/sangkips/salon-commission-api/internal/infrastructure/database"
	"github.com/sangkips/salon-commission-api/internal/infrastructure/repository"
	"github.com/sangkips/salon-commission-api/internal/logger"
	"github.com/sangkips/salon-commission-api/internal/presentation/http/handler"
	"github.com/sangkips/salon-commission-api/internal/presentation/http/middleware"
	"github.com/sangkips/salon-commission-api/internal/presentation/http/routes"
	"github.com/sangkips/salon-commission-api/pkg/bizclock"
	"github.com/sangkips/salon-commission-api/pkg/printer"
	"github.com/sangkips/salon-commission-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		l := logger.New("production", "info")
		l.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.New(cfg.App.Env, cfg.App.LogLevel)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	clock, err := bizclock.Load(cfg.Business.Timezone)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load business timezone")
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Env, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Seed default data
	if err := database.SeedDefaultData(db, log); err != nil {
		log.Warn().Err(err).Msg("failed to seed default data")
	}

	ctx := context.Background()
	closers := make([]func() error, 0, 2)

	serviceCache := cache.ServiceCache(cache.NoopServiceCache{})
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisServiceCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := redisCache.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis unavailable, using noop service cache")
		} else {
			serviceCache = redisCache
			closers = append(closers, redisCache.Close)
			log.Info().Str("addr", cfg.Redis.Addr).Msg("service cache: redis")
		}
	}

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Initialize repositories
	transactionRepo := repository.NewTransactionRepository(db)
	branchRepo := repository.NewBranchRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	commissionRepo := repository.NewCommissionRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize services
	hours := service.WorkingHours{Start: cfg.Business.WorkStartHour, End: cfg.Business.WorkEndHour}
	tariffs := service.NewTariffResolver(serviceRepo, serviceCache, cfg.Redis.TTL, clock, hours, log)
	commissionService := service.NewCommissionService(commissionRepo, transactionRepo, tariffs, clock, log)
	transactionService := service.NewTransactionService(
		transactionRepo,
		branchRepo,
		serviceRepo,
		employeeRepo,
		service.NewMemberResolver(memberRepo),
		commissionService,
		clock,
		log,
	)

	resets, err := scheduler.NewCommissionResetScheduler(commissionService, clock, cfg.Scheduler.CatchUp, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build commission reset schedule")
	}
	if cfg.Scheduler.Enabled {
		resets.Start(ctx)
	} else {
		log.Info().Msg("commission reset scheduler disabled")
	}

	receiptPrinter, err := printer.New(printer.Config{
		Type:    cfg.Printer.Type,
		USBPath: cfg.Printer.USBPath,
		Address: cfg.Printer.Address,
	})
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize printer, receipts will not print")
		receiptPrinter = printer.Null{}
	}
	receiptService := service.NewReceiptService(receiptPrinter, cfg.Printer.Type, cfg.Printer.Width,
		transactionRepo, branchRepo, clock, log)

	rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfigFrom(cfg.RateLimit.Requests, cfg.RateLimit.Duration))
	defer rateLimiter.Close()

	// Initialize handlers
	handlers := &routes.Handlers{
		Transaction: handler.NewTransactionHandler(transactionService, commissionService),
		Branch:      handler.NewBranchHandler(service.NewBranchService(branchRepo)),
		Service:     handler.NewServiceHandler(service.NewCatalogService(serviceRepo, serviceCache, log)),
		Employee:    handler.NewEmployeeHandler(service.NewEmployeeService(employeeRepo, branchRepo)),
		Member:      handler.NewMemberHandler(service.NewMemberService(memberRepo, branchRepo, clock)),
		Commission:  handler.NewCommissionHandler(resets),
		Receipt:     handler.NewReceiptHandler(receiptService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
		Logger:          log,
		Now:             clock.Now,
	})

	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.App.Port).Str("env", cfg.App.Env).Msgf("starting %s", cfg.App.Name)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdown(log, server, resets, closers)
}

func shutdown(log zerolog.Logger, server *http.Server, resets *scheduler.CommissionResetScheduler, closers []func() error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	// An in-flight reset finishes before the process exits
	if err := resets.Stop(ctx); err != nil {
		log.Error().Err(err).Msg("scheduler shutdown")
	}
	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			log.Error().Err(err).Msg("close")
		}
	}
	log.Info().Msg("server stopped")
}
