package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"TopicWatcher/internal/config"
	"TopicWatcher/internal/infrastructure/parser"
	"TopicWatcher/internal/infrastructure/scheduler"
	"TopicWatcher/internal/infrastructure/storage"
	"TopicWatcher/internal/infrastructure/webhook"
	"TopicWatcher/internal/logging"
	"TopicWatcher/internal/ports"
	"TopicWatcher/internal/usecase"
)

const shutdownTimeout = 30 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	store     ports.SeenStore
	closer    io.Closer
	pipeline  *usecase.Pipeline
	scheduler *usecase.Scheduler
}

// New builds a runnable application instance.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	store, closer, err := openStore(ctx, cfg.Storage, baseLogger.With("component", "storage"))
	if err != nil {
		return nil, err
	}

	fetcher := parser.NewHTTPFetcher(&http.Client{Timeout: cfg.Source.TimeoutDuration()}, cfg.Source.UserAgent)
	extractor := parser.NewTopicExtractor(parser.Selectors{
		Item:      cfg.Source.ItemSelector,
		Link:      cfg.Source.LinkSelector,
		TopicPath: cfg.Source.TopicPath,
	})
	source := parser.NewPageSource(cfg.Source.URL, fetcher, extractor, baseLogger.With("component", "source"))

	poster := webhook.NewPoster(cfg.Delivery.Endpoint, cfg.Delivery.Source, &http.Client{Timeout: cfg.Delivery.TimeoutDuration()})
	deliverer := usecase.NewDeliverer(poster, usecase.DelivererConfig{
		Pacing:   cfg.Delivery.PacingDuration(),
		Cooldown: cfg.Delivery.CooldownDuration(),
		Logger:   baseLogger.With("component", "delivery"),
	})

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:    source,
		Store:     store,
		Deliverer: deliverer,
		Logger:    baseLogger.With("component", "pipeline"),
	})

	driver := scheduler.NewIntervalScheduler(cfg.Scheduler.IntervalDuration())
	sched := usecase.NewScheduler(driver, pipeline, baseLogger.With("component", "scheduler"))

	return &Application{
		cfg:       cfg,
		logger:    baseLogger,
		store:     store,
		closer:    closer,
		pipeline:  pipeline,
		scheduler: sched,
	}, nil
}

func openStore(ctx context.Context, cfg config.StorageConfig, log *slog.Logger) (ports.SeenStore, io.Closer, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		store, err := storage.OpenSQLiteStore(ctx, cfg.Path, log)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, store, nil
	default:
		return storage.NewJSONFileStore(cfg.Path, log), nil, nil
	}
}

// Run loads the seen set, runs a cycle immediately and then every
// interval until ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	a.logger.Info("starting topic watcher",
		"url", a.cfg.Source.URL,
		"interval", a.cfg.Scheduler.IntervalDuration().String(),
		"endpoint", a.cfg.Delivery.Endpoint,
		"storage", a.cfg.Storage.Driver,
	)

	a.pipeline.Load(ctx)
	a.logger.Info("seen topics ready", "count", a.pipeline.SeenCount())

	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()
	a.logger.Info("shutting down")

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.scheduler.Stop(stopCtx); err != nil {
		return fmt.Errorf("stop scheduler: %w", err)
	}

	return nil
}

// RunOnce loads the seen set and performs a single cycle.
func (a *Application) RunOnce(ctx context.Context) usecase.CycleReport {
	a.pipeline.Load(ctx)
	return a.scheduler.RunOnce(ctx, time.Now())
}

// SeenCount loads the persisted seen set and returns its size.
func (a *Application) SeenCount(ctx context.Context) (int, error) {
	set, err := a.store.Load(ctx)
	if err != nil {
		return 0, err
	}
	return set.Len(), nil
}

// Close releases storage resources.
func (a *Application) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
