package app

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/ivanoskov/warehouse/internal/config"
	"github.com/ivanoskov/warehouse/internal/repository"
	"github.com/ivanoskov/warehouse/internal/service"
	"go.uber.org/zap"
)

// stateTTL - сколько живет незавершенный диалог в redis
const stateTTL = 24 * time.Hour

// App - собранные зависимости одного процесса
type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	Repository repository.Repository
	Catalog    *service.Catalog
	// States - состояния диалогов бота
	States     repository.StateStore

	closers []func() error
}

// New собирает хранилище, кэш и каталог по конфигурации.
// Конфигурация должна быть проверена вызывающим.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{Config: cfg, Logger: logger}

	repo, err := a.openStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = repository.NewRedisClient(cfg.RedisAddr)
		a.closers = append(a.closers, redisClient.Close)
	}

	// состояния диалогов переживают процесс, если хранилище это умеет
	switch stateStore, ok := repo.(repository.StateStore); {
	case redisClient != nil:
		a.States = repository.NewRedisStateStore(redisClient, stateTTL)
		logger.Info("keeping bot dialogs in redis", zap.String("addr", cfg.RedisAddr))
	case ok:
		a.States = stateStore
	default:
		a.States = repository.NewMemoryStateStore()
	}

	if cfg.CacheTTL > 0 {
		var cache repository.Cache
		if redisClient != nil {
			cache = repository.NewRedisCache(redisClient)
			logger.Info("using redis read cache", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.CacheTTL))
		} else {
			cache = repository.NewMemoryCache()
			logger.Info("using in-process read cache", zap.Duration("ttl", cfg.CacheTTL))
		}
		repo = repository.NewCachedRepository(repo, cache, cfg.CacheTTL, logger)
	}

	a.Repository = repo
	a.Catalog = service.NewCatalog(repo, logger, service.Options{
		MissingCategoryLabel: cfg.MissingCategoryLabel,
	})
	return a, nil
}

func (a *App) openStore(ctx context.Context) (repository.Repository, error) {
	cfg := a.Config
	tables := repository.Tables{Products: cfg.ProductsTable, Categories: cfg.CategoriesTable}

	switch cfg.Store {
	case config.StoreSupabase:
		repo, err := repository.NewSupabaseRepository(cfg.SupabaseURL, cfg.SupabaseKey, tables, a.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to supabase: %w", err)
		}
		return repo, nil

	case config.StorePostgres:
		db, err := repository.OpenPostgres(cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		if sqlDB, err := db.DB(); err == nil {
			a.closers = append(a.closers, sqlDB.Close)
		}

		repo := repository.NewPostgresRepository(db, tables, a.Logger)
		if err := repo.Migrate(ctx); err != nil {
			return nil, err
		}
		return repo, nil

	case config.StoreMemory:
		a.Logger.Warn("using in-memory store, data is lost on exit")
		return repository.NewMemoryRepository(repository.SeedCategoryNames(cfg.SeedCategories...)...), nil

	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

// Close освобождает соединения в обратном порядке
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
