package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/skugen-backend/internal/config"
	"github.com/yungbote/skugen-backend/internal/data/blob"
	"github.com/yungbote/skugen-backend/internal/domain/sku"
	httpx "github.com/yungbote/skugen-backend/internal/http"
	"github.com/yungbote/skugen-backend/internal/observability"
	"github.com/yungbote/skugen-backend/internal/platform/logger"
	"github.com/yungbote/skugen-backend/internal/services"
	"github.com/yungbote/skugen-backend/internal/sku/collection"
)

type Services struct {
	SKU   services.SKUService
	Theme services.ThemeService
}

type App struct {
	Log      *logger.Logger
	Cfg      config.Config
	Metrics  *observability.Metrics
	Blob     blob.Store
	Store    *collection.Store
	Services Services
	Router   *gin.Engine

	provider     blobProvider
	tracing      bool
	otelShutdown func(context.Context) error
}

// New builds the logger from cfg.LogMode and wires the rest with NewWithLogger.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	a, err := NewWithLogger(ctx, cfg, log)
	if err != nil {
		log.Sync()
		return nil, err
	}
	return a, nil
}

// NewWithLogger wires telemetry, the blob store, the services and the router,
// and loads the persisted collection and theme once.
func NewWithLogger(ctx context.Context, cfg config.Config, log *logger.Logger) (*App, error) {
	tracing := observability.TracingOptionsFromEnv()
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Environment: cfg.Telemetry.Environment,
		Version:     cfg.Telemetry.Version,
	}, tracing)

	metrics, err := wireMetrics(cfg)
	if err != nil {
		return nil, err
	}

	provider, err := resolveBlobStore(ctx, log, cfg.Storage)
	if err != nil {
		_ = otelShutdown(ctx)
		return nil, err
	}
	store := instrumentBlobStore(string(provider.driver), provider.store, metrics)

	a := &App{
		Log:          log,
		Cfg:          cfg,
		Metrics:      metrics,
		Blob:         store,
		provider:     provider,
		tracing:      tracing.Enabled,
		otelShutdown: otelShutdown,
	}
	if err := a.wireServices(ctx); err != nil {
		a.Close()
		return nil, err
	}
	a.Router = a.wireRouter()
	return a, nil
}

func wireMetrics(cfg config.Config) (*observability.Metrics, error) {
	if !cfg.Telemetry.MetricsEnabled {
		return nil, nil
	}
	m, err := observability.NewMetrics(cfg.Telemetry.ServiceName, nil)
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}
	return m, nil
}

func (a *App) wireServices(ctx context.Context) error {
	a.Log.Info("Wiring services...")
	opts := []collection.StoreOption{}
	if a.Metrics != nil {
		opts = append(opts, collection.WithObserver(a.Metrics))
	}
	a.Store = collection.NewStore(a.Log, a.Blob, opts...)

	loadCtx, cancel := context.WithTimeout(ctx, orDefault(a.Cfg.Storage.Timeout.Std(), 10*time.Second))
	defer cancel()
	if err := a.Store.Load(loadCtx); err != nil {
		return fmt.Errorf("load sku collection: %w", err)
	}

	gen := a.Cfg.Generator
	a.Services.SKU = services.NewSKUService(a.Log, a.Store, services.GeneratorSettings{
		DefaultRule:      sku.Rule(gen.DefaultRule),
		DefaultSeparator: sku.Separator(gen.DefaultSeparator),
		RuleLength:       gen.RuleLength,
		Sizes:            gen.Sizes,
	}, a.Metrics)

	a.Services.Theme = services.NewThemeService(a.Log, a.Blob, sku.Theme(a.Cfg.Theme.Default), a.Metrics)
	if err := a.Services.Theme.Load(loadCtx); err != nil {
		return fmt.Errorf("load theme: %w", err)
	}
	return nil
}

// Run serves HTTP until ctx is cancelled and runs the metrics collectors for
// the selected storage backend alongside it.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)

	a.Metrics.StartDBCollector(gctx, a.Log, a.provider.db)
	a.Metrics.StartRedisCollector(gctx, a.Log, a.provider.redis)

	srv := httpx.NewServer(a.Log, a.Router, httpx.ServerConfig{
		Addr:              a.Cfg.HTTP.Addr,
		ReadHeaderTimeout: a.Cfg.HTTP.ReadHeaderTimeout.Std(),
		ShutdownTimeout:   a.Cfg.HTTP.ShutdownTimeout.Std(),
	})
	g.Go(func() error {
		return srv.Run(gctx)
	})
	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Blob != nil {
		if err := a.Blob.Close(); err != nil {
			a.Log.Warn("close blob store", "error", err)
		}
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), orDefault(a.Cfg.HTTP.ShutdownTimeout.Std(), 5*time.Second))
		if err := a.otelShutdown(ctx); err != nil && !errors.Is(err, context.Canceled) {
			a.Log.Warn("otel shutdown", "error", err)
		}
		cancel()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
