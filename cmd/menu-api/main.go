package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/resto-menu-api/api/swagger"
	"github.com/noah-isme/resto-menu-api/internal/handler"
	"github.com/noah-isme/resto-menu-api/internal/middleware"
	"github.com/noah-isme/resto-menu-api/internal/repository"
	"github.com/noah-isme/resto-menu-api/internal/service"
	"github.com/noah-isme/resto-menu-api/internal/timewindow"
	"github.com/noah-isme/resto-menu-api/migrations"
	"github.com/noah-isme/resto-menu-api/pkg/cache"
	"github.com/noah-isme/resto-menu-api/pkg/config"
	"github.com/noah-isme/resto-menu-api/pkg/database"
	"github.com/noah-isme/resto-menu-api/pkg/events"
	"github.com/noah-isme/resto-menu-api/pkg/jobs"
	"github.com/noah-isme/resto-menu-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/resto-menu-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/resto-menu-api/pkg/middleware/requestid"
)

// @title Resto Menu API
// @version 1.0.0
// @description Menu schedule resolution and pricing rule evaluation for restaurants.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey TenantToken
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		migrator, err := database.NewMigrator(db.DB, migrations.FS, cfg.Database.MigrationsDir, logr)
		if err != nil {
			logr.Fatal("failed to prepare migrations", zap.Error(err))
		}
		if err := migrator.Up(ctx); err != nil {
			logr.Fatal("failed to migrate", zap.Error(err))
		}
	}

	metricsSvc := service.NewMetricsService()
	readiness := map[string]handler.HealthChecker{
		"postgres": func(ctx context.Context) error { return database.Ping(ctx, db) },
	}

	var cacheRepo service.CacheRepository = repository.NewMemoryCacheRepository(nil)
	if cfg.Redis.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Fatal("failed to connect redis", zap.Error(err))
		}
		defer client.Close()
		cacheRepo = repository.NewCacheRepository(client, logr)
		readiness["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Snapshot.CacheTTL, logr, cfg.Snapshot.CacheEnabled)

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Events.Enabled {
		producer, err := events.NewProducer(cfg.Events, logr)
		if err != nil {
			logr.Fatal("failed to create event producer", zap.Error(err))
		}
		publisher = producer
	}
	defer publisher.Close()

	eventSvc := service.NewEventService(publisher, cacheSvc, metricsSvc, logr)
	queue := jobs.NewQueue("snapshot-invalidation", eventSvc.ProcessJob, jobs.QueueConfig{
		Workers:    cfg.Events.Workers,
		MaxRetries: cfg.Events.MaxRetries,
		RetryDelay: cfg.Events.RetryDelay,
		Logger:     logr,
	})
	queue.Start(ctx)
	defer queue.Stop()
	eventSvc.AttachQueue(queue)

	if cfg.Events.Enabled && cfg.Events.ConsumeEnabled {
		consumer, err := events.NewConsumer(cfg.Events, eventSvc.HandleMessage, logr)
		if err != nil {
			logr.Fatal("failed to create event consumer", zap.Error(err))
		}
		defer consumer.Close()
		go func() {
			if err := consumer.Run(ctx); err != nil {
				logr.Error("event consumer stopped", zap.Error(err))
			}
		}()
	}

	scheduleRepo := repository.NewScheduleRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	channelRepo := repository.NewChannelRepository(db)
	ruleRepo := repository.NewPricingRuleRepository(db)

	loc := cfg.Location()
	builder := service.NewMenuBuilder(cfg.Engine, metricsSvc, logr)
	menuSvc := service.NewMenuService(service.SnapshotSources{
		Catalog:   catalogRepo,
		Schedules: scheduleRepo,
		Channels:  channelRepo,
		Rules:     ruleRepo,
	}, builder, cacheSvc, metricsSvc, loc, logr)

	handlers := handler.Handlers{
		Menu:        handler.NewMenuHandler(menuSvc),
		Schedules:   handler.NewScheduleHandler(service.NewScheduleService(scheduleRepo, eventSvc, nil, logr)),
		Channels:    handler.NewChannelHandler(service.NewChannelService(channelRepo, eventSvc, timewindow.ParseDayPolicy(cfg.Engine.MidnightDayPolicy), loc, nil, logr)),
		Catalog:     handler.NewCatalogHandler(service.NewCatalogService(catalogRepo, eventSvc, nil, logr)),
		CatalogIO:   handler.NewCatalogIOHandler(service.NewCatalogIOService(catalogRepo, eventSvc, nil, logr)),
		PricingRule: handler.NewPricingRuleHandler(service.NewPricingRuleService(ruleRepo, catalogRepo, eventSvc, nil, logr)),
		Events:      handler.NewEventHandler(eventSvc),
	}
	metricsHandler := handler.NewMetricsHandler(metricsSvc, readiness)

	var tokens middleware.TokenValidator
	if cfg.JWT.Enabled {
		tokens = service.NewTenantTokenService(cfg.JWT.Secret)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins, cfg.JWT.TenantHeader))
	r.Use(middleware.Metrics(metricsSvc, "/metrics", "/health", "/ready"))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	r.GET("/metrics/engine", metricsHandler.Engine)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.WithResponseMeta())
	api.Use(middleware.Tenant(tokens, cfg.JWT.TenantHeader))
	handler.RegisterRoutes(api, handlers)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
