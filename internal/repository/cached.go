package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ivanoskov/warehouse/internal/model"
	"go.uber.org/zap"
)

const productsCacheKey = "warehouse:products"

// CachedRepository кэширует чтение продуктов на ttl.
// Любая запись и явное обновление сбрасывают кэш целиком.
// Ошибки кэша только логируются: источник правды - хранилище.
type CachedRepository struct {
	Repository
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger

	// gen растет при каждом сбросе. Чтение, пересекшееся со сбросом,
	// не кладет свой результат в кэш.
	mu  sync.Mutex
	gen uint64
}

func NewCachedRepository(inner Repository, cache Cache, ttl time.Duration, logger *zap.Logger) *CachedRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedRepository{
		Repository: inner,
		cache:      cache,
		ttl:        ttl,
		logger:     logger,
	}
}

func (r *CachedRepository) GetProducts(ctx context.Context) ([]model.ProductRow, error) {
	data, err := r.cache.Get(ctx, productsCacheKey)
	switch {
	case err == nil:
		rows, decodeErr := decodeProductRows(data)
		if decodeErr == nil {
			r.logger.Debug("products served from cache", zap.Int("rows", len(rows)))
			return rows, nil
		}
		r.logger.Warn("dropping unreadable cache entry", zap.Error(decodeErr))
	case !errors.Is(err, ErrCacheMiss):
		r.logger.Warn("cache read failed", zap.Error(err))
	}

	r.mu.Lock()
	gen := r.gen
	r.mu.Unlock()

	rows, err := r.Repository.GetProducts(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := encodeProductRows(rows)
	if err != nil {
		r.logger.Warn("failed to encode products for cache", zap.Error(err))
		return rows, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen != gen {
		r.logger.Debug("skipping cache fill after concurrent invalidation")
		return rows, nil
	}
	if err := r.cache.Set(ctx, productsCacheKey, payload, r.ttl); err != nil {
		r.logger.Warn("cache write failed", zap.Error(err))
	}
	return rows, nil
}

func (r *CachedRepository) CreateProduct(ctx context.Context, product *model.Product) error {
	if err := r.Repository.CreateProduct(ctx, product); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedRepository) DeleteProduct(ctx context.Context, id int64) error {
	if err := r.Repository.DeleteProduct(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

// Invalidate сбрасывает кэш продуктов
func (r *CachedRepository) Invalidate(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	if err := r.cache.Delete(ctx, productsCacheKey); err != nil {
		return fmt.Errorf("failed to invalidate products cache: %w", err)
	}
	return nil
}

func (r *CachedRepository) invalidate(ctx context.Context) {
	if err := r.Invalidate(ctx); err != nil {
		r.logger.Warn("cache invalidation failed", zap.Error(err))
	}
}

func encodeProductRows(rows []model.ProductRow) ([]byte, error) {
	return json.Marshal(rows)
}
