// Command server runs the back-office HTTP API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	assetapp "github.com/erp/backoffice/internal/application/asset"
	auditapp "github.com/erp/backoffice/internal/application/audit"
	billingapp "github.com/erp/backoffice/internal/application/billing"
	crmapp "github.com/erp/backoffice/internal/application/crm"
	hrapp "github.com/erp/backoffice/internal/application/hr"
	numberingapp "github.com/erp/backoffice/internal/application/numbering"
	procurementapp "github.com/erp/backoffice/internal/application/procurement"
	"github.com/erp/backoffice/internal/infrastructure/auth"
	"github.com/erp/backoffice/internal/infrastructure/cache"
	"github.com/erp/backoffice/internal/infrastructure/config"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/erp/backoffice/internal/infrastructure/persistence"
	"github.com/erp/backoffice/internal/infrastructure/persistence/tenant"
	"github.com/erp/backoffice/internal/infrastructure/telemetry"
	"github.com/erp/backoffice/internal/interfaces/http/handler"
	"github.com/erp/backoffice/internal/interfaces/http/middleware"
	"github.com/erp/backoffice/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

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
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting ERP back office",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("database", cfg.Database.Driver),
	)

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.TracesConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	logLevel, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		logLevel = zapcore.InfoLevel
	}
	logsProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          cfg.Telemetry.Insecure,
		MinLevel:          logLevel,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	log = logsProvider.Bridge(log)

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.ExportInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.Profiling.Enabled,
		ServerAddress:   cfg.Telemetry.Profiling.ServerAddress,
		ApplicationName: cfg.Telemetry.ServiceName,
		ProfileTypes:    cfg.Telemetry.Profiling.ProfileTypes,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() && cfg.Telemetry.Profiling.SpanProfiles {
		tracerProvider.EnableSpanProfiles()
	}

	coreMetrics, err := telemetry.NewCoreMetrics(meterProvider.Meter("erp.backoffice"))
	if err != nil {
		log.Fatal("Failed to register core metrics", zap.Error(err))
	}

	dbSystem := "postgresql"
	if cfg.Database.Driver == persistence.DriverSQLite {
		dbSystem = "sqlite"
	}
	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        dbSystem,
	}, log)

	gormLog := logger.NewGormLogger(log, logger.GormConfig{
		Level:         cfg.Log.Level,
		SlowThreshold: cfg.Telemetry.DBSlowQueryThresh,
		Retryable:     persistence.IsRetryable,
	})

	db, err := persistence.NewDatabase(&cfg.Database,
		persistence.WithLogger(gormLog),
		persistence.WithPlugin(dbTracing.RegisterOtelGorm),
		persistence.WithPlugin(tenant.NewCallback(tenant.DefaultConfig()).Register),
	)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Database.Driver == persistence.DriverSQLite {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate sqlite schema", zap.Error(err))
		}
	}
	log.Info("Database connected successfully")

	coordination, err := cache.NewCoordination(ctx, cfg.Redis, cfg.Numbering.GuardTTL,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.IsProduction()),
	)
	if err != nil {
		log.Fatal("Failed to initialize coordination", zap.Error(err))
	}
	defer func() {
		if err := coordination.Close(); err != nil {
			log.Error("Error closing coordination", zap.Error(err))
		}
	}()

	scope := persistence.NewGormTransactionScope(db.DB)
	tenants := persistence.NewGormTenantRepository(db.DB)
	retries := cfg.Numbering.MaxRetries

	numbers := numberingapp.NewService(scope, tenants, coordination.Guard, numberingapp.Defaults{
		StartNumber:    cfg.Numbering.StartNumber,
		Padding:        cfg.Numbering.Padding,
		Separator:      cfg.Numbering.Separator,
		PrefixTemplate: cfg.Numbering.PrefixTemplate,
		SuffixTemplate: cfg.Numbering.SuffixTemplate,
	}, retries)
	numbers.SetCoreMetrics(coreMetrics)

	agents := crmapp.NewAgentService(scope)
	agents.SetCoreMetrics(coreMetrics)
	deals := crmapp.NewDealService(scope)
	deals.SetCoreMetrics(coreMetrics)

	parties := procurementapp.NewPartyService(scope)
	parties.SetCoreMetrics(coreMetrics)
	orders := procurementapp.NewPurchaseOrderService(scope, numbers, retries)
	orders.SetCoreMetrics(coreMetrics)

	clients := billingapp.NewClientService(scope)
	clients.SetCoreMetrics(coreMetrics)
	quotations := billingapp.NewQuotationService(scope, numbers, tenants, retries)
	quotations.SetCoreMetrics(coreMetrics)
	receipts := billingapp.NewReceiptService(scope, numbers, retries)
	receipts.SetCoreMetrics(coreMetrics)

	employees := hrapp.NewEmployeeService(scope, numbers, retries)
	employees.SetCoreMetrics(coreMetrics)

	assets := assetapp.NewService(scope)
	assets.SetCoreMetrics(coreMetrics)

	recycleBin := auditapp.NewRecycleBinService(scope)
	recycleBin.SetCoreMetrics(coreMetrics)

	jwtService := auth.NewJWTService(cfg.JWT)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(logger.AccessLog(log))
	engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName, tracerProvider.IsEnabled(), "/health")...)
	if meterProvider.IsEnabled() {
		engine.Use(middleware.HTTPMetrics(meterProvider.Meter("http.server"), log))
	}
	engine.Use(middleware.CORS(cfg.HTTP.CORSOrigins))
	engine.Use(middleware.Secure(cfg.HTTP.HSTSMaxAge))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	systemHandler := handler.NewSystemHandler(cfg.App.Name, cfg.App.Version, db)
	engine.GET("/health", systemHandler.Health)

	groups := router.DomainGroups(router.Handlers{
		Sequences:   handler.NewSequenceHandler(numbers),
		CRM:         handler.NewCRMHandler(agents, deals),
		Procurement: handler.NewProcurementHandler(parties, orders),
		Billing:     handler.NewBillingHandler(clients, quotations, receipts),
		Employees:   handler.NewEmployeeHandler(employees),
		Assets:      handler.NewAssetHandler(assets),
		RecycleBin:  handler.NewRecycleBinHandler(recycleBin),
		System:      systemHandler,
	}, middleware.Idempotency(middleware.IdempotencyConfig{
		Store: coordination.Idempotency,
		TTL:   cfg.HTTP.IdempotencyTTL,
	}))
	router.Mount(engine, router.Config{
		Version: "v1",
		Middleware: []gin.HandlerFunc{
			middleware.Authenticate(jwtService, log),
			middleware.SpanIdentity(),
			middleware.ProfilingLabels(profiler.IsEnabled() && cfg.Telemetry.Profiling.RequestLabels),
		},
	}, groups...)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Metrics shutdown failed", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Tracer shutdown failed", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Warn("Profiler shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
	if err := logsProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Log export shutdown failed", zap.Error(err))
	}
}
