package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"NewsCuration/internal/config"
	"NewsCuration/internal/domain"
	"NewsCuration/internal/infrastructure/advisor"
	"NewsCuration/internal/infrastructure/rest"
	"NewsCuration/internal/infrastructure/scheduler"
	"NewsCuration/internal/infrastructure/storage"
	"NewsCuration/internal/infrastructure/telegram"
	"NewsCuration/internal/logging"
	"NewsCuration/internal/ports"
	"NewsCuration/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	store    *storage.Store
	curation *usecase.Curation
	intake   *usecase.Intake
}

// New opens storage, seeds the catalog from config and builds the use cases.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	store, err := storage.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := seedCatalog(ctx, store, cfg.Catalog); err != nil {
		_ = store.Close()
		return nil, err
	}

	adv := newAdvisor(cfg.Advisor, store, baseLogger)

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.Enabled() {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram)
	}

	curation := usecase.NewCuration(usecase.CurationDeps{
		Items:    store,
		News:     store,
		Catalog:  store,
		Notifier: notifier,
		Policy:   cfg.Publish,
		Logger:   baseLogger.With("component", "curation"),
	})

	intake := usecase.NewIntake(usecase.IntakeDeps{
		News:      store,
		Items:     store,
		Catalog:   store,
		Advisor:   adv,
		BatchSize: cfg.Intake.BatchSize,
		Logger:    baseLogger.With("component", "intake"),
	})

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		store:    store,
		curation: curation,
		intake:   intake,
	}, nil
}

// Curation exposes the reviewer use case.
func (a *Application) Curation() *usecase.Curation { return a.curation }

// Intake exposes the enqueue job.
func (a *Application) Intake() *usecase.Intake { return a.intake }

// Store exposes the storage adapter for catalog and import commands.
func (a *Application) Store() *storage.Store { return a.store }

// Close releases the database.
func (a *Application) Close() error {
	return a.store.Close()
}

// Serve runs the reviewer API and the optional intake scheduler until ctx is cancelled.
func (a *Application) Serve(ctx context.Context) error {
	handler := rest.NewCurationHandler(a.curation)
	router := rest.NewRouter(handler, a.logger.With("component", "http"))

	jobs := usecase.NewScheduler(
		scheduler.NewTickerScheduler(a.cfg.Intake.Interval, a.cfg.Scheduler.Location()),
		a.intake,
		a.logger.With("component", "scheduler"),
	)
	if err := jobs.Start(ctx); err != nil {
		return fmt.Errorf("start intake scheduler: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.InfoContext(ctx, "reviewer API listening", "addr", a.cfg.HTTP.Addr, "intake_interval", a.cfg.Intake.Interval)
		if err := router.Start(a.cfg.HTTP.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case err, ok := <-errCh:
		if ok {
			serveErr = fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := router.Shutdown(shutdownCtx); err != nil {
		a.logger.ErrorContext(shutdownCtx, "http shutdown failed", "error", err)
	}
	if err := jobs.Stop(shutdownCtx); err != nil {
		a.logger.ErrorContext(shutdownCtx, "scheduler shutdown failed", "error", err)
	}

	return serveErr
}

func newAdvisor(cfg config.AdvisorConfig, catalog ports.CategoryCatalog, logger *slog.Logger) ports.Advisor {
	switch cfg.Kind {
	case config.AdvisorService:
		if cfg.Endpoint == "" {
			logger.Warn("advisor service endpoint is empty, running without advisor")
			return nil
		}
		return advisor.NewServiceClient(cfg.Endpoint, cfg.APIKey, cfg.Timeout)
	case config.AdvisorChat:
		if cfg.APIKey == "" {
			logger.Warn("chat advisor has no api key, running without advisor")
			return nil
		}
		return advisor.NewChatClient(cfg, catalog)
	case config.AdvisorNone, "":
		return nil
	default:
		logger.Warn("unknown advisor kind, running without advisor", "kind", cfg.Kind)
		return nil
	}
}

func seedCatalog(ctx context.Context, store *storage.Store, catalog config.CatalogConfig) error {
	for _, source := range catalog.Sources {
		if err := store.UpsertSource(ctx, source); err != nil {
			return fmt.Errorf("seed source %s: %w", source.ID, err)
		}
	}
	for _, category := range catalog.Categories {
		if category.ID == "" {
			continue
		}
		if category.Name == "" {
			category.Name = category.ID
		}
		if err := store.UpsertCategory(ctx, category); err != nil {
			return fmt.Errorf("seed category %s: %w", category.ID, err)
		}
	}
	return nil
}

// ImportScrapedNews stores records produced by an external scraper. Existing ids are skipped.
func (a *Application) ImportScrapedNews(ctx context.Context, records []domain.ScrapedNews) (int, error) {
	inserted := 0
	for _, news := range records {
		if news.DiscoveredAt.IsZero() {
			news.DiscoveredAt = time.Now().UTC()
		}
		created, err := a.store.InsertScrapedNews(ctx, news)
		if err != nil {
			return inserted, fmt.Errorf("import %s: %w", news.ID, err)
		}
		if created {
			inserted++
		}
	}
	return inserted, nil
}
