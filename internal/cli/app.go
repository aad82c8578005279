package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-grid/internal/repository"
	"github.com/noah-isme/sma-timetable-grid/internal/service"
	"github.com/noah-isme/sma-timetable-grid/internal/timetable"
	"github.com/noah-isme/sma-timetable-grid/migrations"
	"github.com/noah-isme/sma-timetable-grid/pkg/cache"
	"github.com/noah-isme/sma-timetable-grid/pkg/config"
	"github.com/noah-isme/sma-timetable-grid/pkg/database"
	"github.com/noah-isme/sma-timetable-grid/pkg/storage"
)

// app holds the wired services shared by every command.
type app struct {
	cfg        *config.Config
	logger     *zap.Logger
	metrics    *service.MetricsService
	cache      *service.CacheService
	timetables *service.TimetableService
	exports    *service.ExportService
	closers    []func() error
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	gridCfg, err := cfg.Grid.Timetable()
	if err != nil {
		return nil, err
	}
	grid, err := timetable.NewGrid(gridCfg)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger, metrics: service.NewMetricsService()}

	var source service.SessionSource
	switch cfg.Sessions.Source {
	case config.SourcePostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		if err := migrations.Up(ctx, db); err != nil {
			a.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		source = repository.NewSessionRepository(db)
	default:
		source = repository.NewCSVSessionRepository(cfg.Sessions.CSVPath)
	}

	a.cache = a.connectCache(ctx)

	store, err := storage.NewLocalStorage(cfg.Export.Dir)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("prepare export dir: %w", err)
	}

	a.timetables = service.NewTimetableService(source, timetable.NewPlanner(grid, logger), a.cache, a.metrics, cfg.Sessions.Cycles, logger)
	a.exports = service.NewExportService(a.timetables, store, service.ExportConfig{
		Workers:    cfg.Export.Workers,
		Retries:    cfg.Export.Retries,
		RetryDelay: cfg.Export.RetryDelay,
	}, a.metrics, logger, service.Renderers{})

	logger.Debug("application wired",
		zap.String("source", cfg.Sessions.Source),
		zap.Int("slots", grid.Len()),
		zap.Bool("cache", a.cache.Enabled()),
	)
	return a, nil
}

// connectCache returns nil when caching is off or Redis is unreachable; the
// service then treats every lookup as a miss.
func (a *app) connectCache(ctx context.Context) *service.CacheService {
	if !a.cfg.Cache.Enabled {
		return nil
	}
	client, err := cache.NewRedis(ctx, a.cfg.Redis)
	if err != nil {
		a.logger.Warn("redis unavailable, view cache disabled", zap.Error(err))
		return nil
	}
	repo := repository.NewCacheRepository(client, service.CacheNamespace)
	a.closers = append(a.closers, repo.Close)
	return service.NewCacheService(repo, a.metrics, a.cfg.Cache.TTL, a.logger, true)
}

// Close releases database and cache connections.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("close failed", zap.Error(err))
		}
	}
	a.closers = nil
}
