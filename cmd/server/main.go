package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/facturaec/dashboard/internal/application/billing"
	catalogapp "github.com/facturaec/dashboard/internal/application/catalog"
	identityapp "github.com/facturaec/dashboard/internal/application/identity"
	inventoryapp "github.com/facturaec/dashboard/internal/application/inventory"
	orgapp "github.com/facturaec/dashboard/internal/application/organization"
	reportapp "github.com/facturaec/dashboard/internal/application/report"
	tradeapp "github.com/facturaec/dashboard/internal/application/trade"
	"github.com/facturaec/dashboard/internal/infrastructure/apiclient"
	"github.com/facturaec/dashboard/internal/infrastructure/auth"
	"github.com/facturaec/dashboard/internal/infrastructure/config"
	"github.com/facturaec/dashboard/internal/infrastructure/logger"
	"github.com/facturaec/dashboard/internal/infrastructure/printing"
	"github.com/facturaec/dashboard/internal/infrastructure/session"
	"github.com/facturaec/dashboard/internal/infrastructure/storage"
	"github.com/facturaec/dashboard/internal/infrastructure/telemetry"
	"github.com/facturaec/dashboard/internal/interfaces/http/handler"
	"github.com/facturaec/dashboard/internal/interfaces/http/middleware"
	"github.com/facturaec/dashboard/internal/interfaces/http/router"
	"github.com/facturaec/dashboard/internal/interfaces/web"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: logger.DefaultTimeFormat,
	}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	// Telemetry
	providers, err := telemetry.Setup(context.Background(), telemetry.Config{
		ServiceName:       cfg.Telemetry.ServiceName,
		Environment:       cfg.App.Env,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		Insecure:          cfg.Telemetry.Insecure,
		TracesEnabled:     cfg.Telemetry.Enabled,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		MetricsEnabled:    cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		LogsEnabled:       cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		ProfilingEnabled:  cfg.Telemetry.ProfilingEnabled,
		PyroscopeURL:      cfg.Telemetry.PyroscopeURL,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	if providers.Logs.IsEnabled() {
		// Rebuild the logger so every entry is also exported over OTLP
		withOTLP, err := logger.New(logCfg, providers.Logs.Core(cfg.Telemetry.ServiceName, logger.ParseLevel(cfg.Log.Level)))
		if err != nil {
			log.Fatal("Failed to attach OTLP log exporter", zap.Error(err))
		}
		log = withOTLP
	}
	zap.ReplaceGlobals(log)
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting dashboard",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("backend", cfg.Backend.BaseURL),
	)

	// Backend API client
	meter := providers.Meter.Meter("dashboard")
	clientMetrics, err := apiclient.NewMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create API client metrics", zap.Error(err))
	}
	breaker := apiclient.DefaultBreakerConfig()
	if cfg.Backend.BreakerThreshold > 0 {
		breaker.FailureThreshold = cfg.Backend.BreakerThreshold
	}
	if cfg.Backend.BreakerOpenTimeout > 0 {
		breaker.OpenTimeout = cfg.Backend.BreakerOpenTimeout
	}
	client, err := apiclient.New(apiclient.Config{
		BaseURL:         cfg.Backend.BaseURL,
		APIPrefix:       cfg.Backend.APIPrefix,
		Timeout:         cfg.Backend.Timeout,
		DownloadTimeout: cfg.Backend.DownloadTimeout,
		MaxDownloadSize: cfg.Backend.MaxDownloadSize,
		UserAgent:       cfg.App.Name,
		Breaker:         breaker,
	}, apiclient.WithMetrics(clientMetrics), apiclient.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to create API client", zap.Error(err))
	}

	// Session store
	var store session.Store
	switch cfg.Session.Store {
	case "redis":
		redisStore, err := session.NewRedisStore(session.RedisConfig{
			Addr:      cfg.Redis.Addr(),
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		store = redisStore
		log.Info("Session store connected", zap.String("addr", cfg.Redis.Addr()))
	default:
		store = session.NewMemoryStore(time.Minute)
		log.Info("Using in-memory session store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Error closing session store", zap.Error(err))
		}
	}()

	// Document archive
	var archive storage.Archive
	switch cfg.Storage.Driver {
	case "s3":
		s3Archive, err := storage.NewS3Archive(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to create S3 archive", zap.Error(err))
		}
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := s3Archive.EnsureBucket(ctx); err != nil {
			log.Warn("Archive bucket is not reachable, downloads fall back to the backend",
				zap.String("bucket", s3Archive.Bucket()), zap.Error(err))
		}
		cancel()
		archive = s3Archive
	case "memory":
		archive = storage.NewMemoryArchive()
	default:
		archive = storage.NoopArchive{}
	}

	// Templates
	templates, err := web.Templates(web.Funcs())
	if err != nil {
		log.Fatal("Failed to parse templates", zap.Error(err))
	}

	// PDF renderer for the sales report export
	var renderer printing.PDFRenderer = printing.DisabledRenderer{}
	if cfg.Printing.Enabled {
		chrome, err := printing.NewChromedpRenderer(&printing.ChromedpConfig{
			DefaultTimeout: cfg.Printing.Timeout,
			RemoteURL:      cfg.Printing.RemoteURL,
			NoSandbox:      cfg.Printing.NoSandbox,
			MaxTabs:        cfg.Printing.MaxTabs,
			Logger:         log,
		})
		if err != nil {
			log.Fatal("Failed to create PDF renderer", zap.Error(err))
		}
		renderer = chrome
	}
	defer func() {
		if err := renderer.Close(); err != nil {
			log.Error("Error closing PDF renderer", zap.Error(err))
		}
	}()

	// Application services
	authService := identityapp.NewAuthService(client)
	productService := catalogapp.NewProductService(client, cfg.SRI.IVACodes)
	ventaService := tradeapp.NewVentaService(client)
	compraService := tradeapp.NewCompraService(client)
	facturaService := billingapp.NewFacturaService(client, archive)
	notaCreditoService := billingapp.NewNotaCreditoService(client)
	retencionService := billingapp.NewRetencionService(client)
	impuestoService := billingapp.NewImpuestoService(client)
	inventoryService := inventoryapp.NewInventoryService(client)
	sucursalService := orgapp.NewSucursalService(client)
	configuracionService := orgapp.NewConfiguracionService(client)
	reportService := reportapp.NewReportService(client, templates, renderer)

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	engine.SetHTMLTemplate(templates)
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	} else {
		_ = engine.SetTrustedProxies(nil)
	}

	sessions := middleware.NewSessions(middleware.SessionConfig{
		Store:      store,
		Tokens:     auth.NewSessionTokens(cfg.SessionSecret(), cfg.App.Name, cfg.Session.TTL),
		CookieName: cfg.Session.CookieName,
		TTL:        cfg.Session.TTL,
		Secure:     cfg.Session.Secure,
		SameSite:   middleware.ParseSameSite(cfg.Session.SameSite),
	})
	loginLimiter := middleware.NewRateLimiter(cfg.HTTP.LoginRateLimit, cfg.HTTP.LoginRateBurst)
	defer loginLimiter.Close()

	base := handler.NewBaseHandler(sessions)
	pages := handler.NewPageHandler(base, cfg.App.Name, cfg.Tenant.BaseDomain)
	handlers := router.Handlers{
		System:        handler.NewSystemHandler(cfg.App.Name, client, store),
		Pages:         pages,
		Auth:          handler.NewAuthHandler(base, authService, sessions),
		Report:        handler.NewReportHandler(base, reportService, configuracionService),
		Product:       handler.NewProductHandler(base, productService),
		Venta:         handler.NewVentaHandler(base, ventaService, sucursalService),
		Factura:       handler.NewFacturaHandler(base, facturaService, cfg.SRI.PollInterval),
		NotaCredito:   handler.NewNotaCreditoHandler(base, notaCreditoService, facturaService),
		Retencion:     handler.NewRetencionHandler(base, retencionService, compraService, impuestoService),
		Impuesto:      handler.NewImpuestoHandler(base, impuestoService),
		Compra:        handler.NewCompraHandler(base, compraService, productService),
		Inventory:     handler.NewInventoryHandler(base, inventoryService, productService, sucursalService),
		Sucursal:      handler.NewSucursalHandler(base, sucursalService),
		Configuracion: handler.NewConfiguracionHandler(base, configuracionService),
	}

	security := middleware.DefaultSecurityConfig()
	security.HSTSEnabled = cfg.HTTP.HSTSEnabled

	// Order matters: the error page renders after everything else has run,
	// and the span enricher needs the tenant and session values.
	engine.Use(middleware.ErrorHandler(pages.RenderError))
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.SecureWithConfig(security))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
		SkipPaths:   []string{"/healthz", "/readyz"},
	}))
	engine.Use(middleware.TenantMiddleware(cfg.Tenant))
	engine.Use(middleware.SpanEnricher())
	engine.Use(middleware.Profiling(cfg.Telemetry.ProfilingEnabled))
	engine.Use(middleware.HTTPMetrics(meter))

	engine.StaticFS("/static", web.Static())
	engine.NoRoute(pages.NotFound)

	r := router.NewRouter(engine)
	r.Register(router.Routes(handlers, router.Guards{
		Sessions:      sessions,
		LoginLimiter:  loginLimiter,
		MaxUploadSize: cfg.HTTP.MaxUploadSize,
	})...)
	r.Setup()

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

	shutdownTimeout := cfg.HTTP.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := providers.Shutdown(ctx); err != nil {
		log.Warn("Telemetry shutdown incomplete", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
