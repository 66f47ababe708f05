package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	accountingapp "github.com/erp/lobapi/internal/application/accounting"
	hrapp "github.com/erp/lobapi/internal/application/hr"
	messagingapp "github.com/erp/lobapi/internal/application/messaging"
	mfapp "github.com/erp/lobapi/internal/application/microfinance"
	storeapp "github.com/erp/lobapi/internal/application/store"
	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/erp/lobapi/internal/infrastructure/auth"
	"github.com/erp/lobapi/internal/infrastructure/cache"
	"github.com/erp/lobapi/internal/infrastructure/config"
	"github.com/erp/lobapi/internal/infrastructure/event"
	"github.com/erp/lobapi/internal/infrastructure/logger"
	"github.com/erp/lobapi/internal/infrastructure/persistence"
	"github.com/erp/lobapi/internal/infrastructure/scheduler"
	"github.com/erp/lobapi/internal/infrastructure/storage"
	"github.com/erp/lobapi/internal/infrastructure/telemetry"
	"github.com/erp/lobapi/internal/interfaces/http/handler"
	"github.com/erp/lobapi/internal/interfaces/http/middleware"
	"github.com/erp/lobapi/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/erp/lobapi/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			LOB ERP API
//	@version		1.0
//	@description	Multi-tenant line-of-business API: accounting, HR, store, microfinance and messaging.

//	@contact.name	API Support
//	@contact.url	https://github.com/erp/lobapi

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Telemetry first, then re-tee the logger into the OTLP log pipeline
	providers, err := telemetry.Setup(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	if providers.Enabled() {
		level, _ := logger.ParseLevel(cfg.Log.Level)
		log = log.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, providers.LogCore(level))
		}))
	}
	defer logger.Sync(log)

	log.Info("Starting LOB API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	var profiler *telemetry.Profiler
	if cfg.Telemetry.ProfilingEnabled {
		profiler, err = telemetry.StartProfiler(cfg.Telemetry.ServiceName, cfg.Telemetry.PyroscopeURL, log)
		if err != nil {
			log.Warn("Continuous profiling unavailable", zap.Error(err))
		} else {
			providers.EnableSpanProfiles()
		}
	}

	meter := providers.Meter(cfg.Telemetry.ServiceName)
	domainMetrics, err := telemetry.NewDomainMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create domain metrics", zap.Error(err))
	}

	// Database
	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := telemetry.InstrumentDB(db.DB, meter, telemetry.DBConfig{
		TraceEnabled:       cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:         cfg.Telemetry.DBLogFullSQL,
		SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
	}, log); err != nil {
		log.Warn("Database instrumentation failed", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Redis is optional; without it presence and revocation stay per instance
	var redisClient redis.UniversalClient
	if cfg.Redis.Host != "" {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		redisClient = client
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	objectStorage, err := newObjectStorage(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	// Repositories
	accountRepo := persistence.NewGormChartOfAccountRepository(db.DB)
	periodRepo := persistence.NewGormAccountingPeriodRepository(db.DB)
	billRepo := persistence.NewGormBillRepository(db.DB)
	employeeRepo := persistence.NewGormEmployeeRepository(db.DB)
	leaveRepo := persistence.NewGormLeaveRequestRepository(db.DB)
	warehouseRepo := persistence.NewGormWarehouseRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	serialRepo := persistence.NewGormSerialNumberRepository(db.DB)
	adjustmentRepo := persistence.NewGormStockAdjustmentRepository(db.DB)
	depositRepo := persistence.NewGormFixedDepositRepository(db.DB)
	caseRepo := persistence.NewGormCollectionCaseRepository(db.DB)
	conversationRepo := persistence.NewGormConversationRepository(db.DB)
	messageRepo := persistence.NewGormMessageRepository(db.DB)

	// Services
	accountService := accountingapp.NewChartOfAccountService(accountRepo, log)
	periodService := accountingapp.NewAccountingPeriodService(periodRepo, log)
	billService := accountingapp.NewBillService(billRepo, log)
	employeeService := hrapp.NewEmployeeService(employeeRepo, log)
	leaveService := hrapp.NewLeaveRequestService(leaveRepo, employeeRepo, log)
	warehouseService := storeapp.NewWarehouseService(warehouseRepo, log)
	supplierService := storeapp.NewSupplierService(supplierRepo, log)
	serialService := storeapp.NewSerialNumberService(serialRepo, log)
	adjustmentService := storeapp.NewStockAdjustmentService(adjustmentRepo, warehouseRepo, log)
	depositService := mfapp.NewFixedDepositService(depositRepo, log)
	caseService := mfapp.NewCollectionCaseService(caseRepo, log)
	conversationService := messagingapp.NewConversationService(conversationRepo, log)
	messageService := messagingapp.NewMessageService(conversationRepo, messageRepo, objectStorage, log)
	messageService.SetConfig(messagingapp.AttachmentConfig{
		MaxSize:           cfg.Messaging.AttachmentMaxSize,
		UploadURLExpiry:   cfg.Messaging.UploadURLExpiry,
		DownloadURLExpiry: cfg.Messaging.DownloadURLExpiry,
	})

	// Realtime hub
	tracker := cache.NewConnectionTracker(cfg.Messaging, redisClient, log)
	hub := messagingapp.NewHub(conversationRepo, messageService, tracker, log)

	// Metric handlers are deduplicated by event id; hub fan-out is not
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(hub)
	processed := cache.NewIdempotencyStore(redisClient, cfg.App.Name)
	eventBus.Subscribe(event.NewIdempotentHandler("message-sent-metrics",
		messagingapp.NewMessageSentHandler(domainMetrics), processed, 0, log))
	eventBus.Subscribe(event.NewIdempotentHandler("stock-adjustment-approved",
		storeapp.NewStockAdjustmentApprovedHandler(log, domainMetrics), processed, 0, log))

	for _, svc := range []interface {
		SetEventPublisher(shared.EventPublisher)
	}{
		accountService, periodService, billService,
		employeeService, leaveService,
		warehouseService, supplierService, serialService, adjustmentService,
		depositService, caseService,
		conversationService, messageService,
	} {
		svc.SetEventPublisher(eventBus)
	}
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Scheduled jobs
	jobScheduler, err := newScheduler(cfg.Jobs, db, log)
	if err != nil {
		log.Fatal("Failed to create scheduler", zap.Error(err))
	}
	maturityJob := mfapp.NewMaturityJob(depositRepo, cfg.Jobs.MaturityBatch, log)
	maturityJob.SetEventPublisher(eventBus)
	maturityJob.SetMetrics(domainMetrics)
	if err := jobScheduler.Register(cfg.Jobs.MaturitySpec, maturityJob); err != nil {
		log.Fatal("Failed to register maturity job", zap.Error(err))
	}
	if err := jobScheduler.Start(ctx); err != nil {
		log.Fatal("Failed to start scheduler", zap.Error(err))
	}

	// Auth
	jwtService := auth.NewJWTService(cfg.JWT)
	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if redisClient != nil {
		blacklist = auth.NewRedisTokenBlacklist(redisClient, cfg.App.Name)
	}
	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.Blacklist = blacklist
	jwtConfig.Logger = log

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	httpMetrics, err := middleware.HTTPMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create HTTP metrics", zap.Error(err))
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName, providers.Enabled()))
	engine.Use(httpMetrics)
	engine.Use(middleware.Secure())
	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	systemHandler := handler.NewSystemHandler(cfg.App.Name, version).
		AddCheck("database", db.Ping)
	if redisClient != nil {
		systemHandler.AddCheck("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	engine.GET("/health", systemHandler.Health)

	// Docs are authenticated separately from the API since /swagger is skipped by the API JWT config
	swaggerJWT := middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		Blacklist:  blacklist,
		Logger:     log,
	})
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, swaggerJWT),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	apiMiddleware := []gin.HandlerFunc{
		middleware.JWTAuthMiddleware(jwtConfig),
		middleware.TenantMiddleware(),
		middleware.TracingAttributes(),
		middleware.Profiling(middleware.ProfilingConfig{
			Enabled:          profiler != nil,
			SkipPaths:        []string{"/health"},
			SkipPathPrefixes: []string{"/swagger", "/api/v1/messaging/hub"},
		}),
	}
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow, cfg.HTTP.RateLimitBurst)
		go rateLimiter.Run(ctx)
		apiMiddleware = append(apiMiddleware, rateLimiter.Middleware())
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
			zap.Int("burst", cfg.HTTP.RateLimitBurst),
		)
	}

	handlers := router.Handlers{
		Accounts:          handler.NewChartOfAccountHandler(accountService),
		AccountingPeriods: handler.NewAccountingPeriodHandler(periodService),
		Bills:             handler.NewBillHandler(billService),
		Employees:         handler.NewEmployeeHandler(employeeService),
		LeaveRequests:     handler.NewLeaveRequestHandler(leaveService),
		Warehouses:        handler.NewWarehouseHandler(warehouseService),
		Suppliers:         handler.NewSupplierHandler(supplierService),
		SerialNumbers:     handler.NewSerialNumberHandler(serialService),
		StockAdjustments:  handler.NewStockAdjustmentHandler(adjustmentService),
		FixedDeposits:     handler.NewFixedDepositHandler(depositService),
		CollectionCases:   handler.NewCollectionCaseHandler(caseService),
		Conversations:     handler.NewConversationHandler(conversationService),
		Messages:          handler.NewMessageHandler(messageService),
		Hub:               handler.NewHubHandler(hub, cfg.Messaging, domainMetrics),
		System:            systemHandler,
	}
	router.NewRouter(engine, router.WithAPIVersion("v1"), router.WithMiddleware(apiMiddleware...)).
		RegisterDomains(router.Domains(handlers)...).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down server...")
	case err := <-serverErr:
		log.Error("Server failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := jobScheduler.Stop(shutdownCtx); err != nil {
		log.Warn("Scheduler did not stop cleanly", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Warn("Event bus did not stop cleanly", zap.Error(err))
	}
	if profiler != nil {
		if err := profiler.Stop(); err != nil {
			log.Warn("Profiler did not stop cleanly", zap.Error(err))
		}
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Warn("Telemetry did not flush", zap.Error(err))
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newObjectStorage returns the S3 backend when a bucket is configured and the
// in-memory backend otherwise
func newObjectStorage(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (messagingapp.ObjectStorageService, error) {
	if !cfg.Enabled() {
		log.Warn("No storage bucket configured, attachments use the in-memory backend")
		return storage.NewMemoryObjectStorage(cfg.PublicBaseURL), nil
	}
	s3, err := storage.NewS3ObjectStorage(&cfg,
		storage.WithLogger(log),
		storage.WithPresignExpiration(cfg.PresignExpiration),
	)
	if err != nil {
		return nil, err
	}
	if err := s3.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	log.Info("Object storage ready", zap.String("bucket", s3.Bucket()))
	return s3, nil
}

func newScheduler(cfg config.JobsConfig, db *persistence.Database, log *zap.Logger) (*scheduler.CronScheduler, error) {
	location := time.UTC
	if cfg.Timezone != "" {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, err
		}
		location = loc
	}

	var recorder scheduler.RunRecorder
	if cfg.RecordJobRuns {
		recorder = scheduler.NewJobRunRepository(db.DB)
	}
	return scheduler.NewCronScheduler(scheduler.Config{
		Enabled:       cfg.Enabled,
		JobTimeout:    cfg.JobTimeout,
		RetryAttempts: cfg.RetryAttempts,
		RetryDelay:    cfg.RetryDelay,
		Location:      location,
	}, recorder, log), nil
}
