package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/ivanoskov/warehouse/internal/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Repository определяет интерфейс для работы с хранилищем данных
type Repository interface {
	GetCategories(ctx context.Context) ([]model.Category, error)
	GetProducts(ctx context.Context) ([]model.ProductRow, error)
	CreateProduct(ctx context.Context, product *model.Product) error
	DeleteProduct(ctx context.Context, id int64) error
}

// invalidator реализуют хранилища с кэшем чтения
type invalidator interface {
	Invalidate(ctx context.Context) error
}

type Options struct {
	MissingCategoryLabel string
}

// ProductInput - данные формы добавления продукта
type ProductInput struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

// Snapshot - полное состояние склада после чтения
type Snapshot struct {
	Categories []model.Category `json:"categories"`
	Records    []model.Record   `json:"products"`
	Summary    Summary          `json:"summary"`
}

// Catalog читает справочник и продукты и выполняет изменения.
// После каждого изменения состояние перечитывается целиком.
type Catalog struct {
	repo         Repository
	logger       *zap.Logger
	missingLabel string

	mu          sync.RWMutex
	categoryIDs map[string]int64
	indexed     bool
}

// NewCatalog создает новый экземпляр Catalog
func NewCatalog(repo Repository, logger *zap.Logger, opts Options) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	label := opts.MissingCategoryLabel
	if label == "" {
		label = DefaultMissingCategoryLabel
	}
	return &Catalog{
		repo:         repo,
		logger:       logger,
		missingLabel: label,
		categoryIDs:  make(map[string]int64),
	}
}

// FetchCategories читает справочник и обновляет соответствие имя -> ID
func (c *Catalog) FetchCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := c.repo.GetCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	index := make(map[string]int64, len(categories))
	for _, cat := range categories {
		// при совпадении имен побеждает последняя строка
		index[cat.Name] = cat.ID
	}

	c.mu.Lock()
	c.categoryIDs = index
	c.indexed = true
	c.mu.Unlock()

	return categories, nil
}

// FetchProducts читает продукты и приводит их к плоским записям
func (c *Catalog) FetchProducts(ctx context.Context) ([]model.Record, error) {
	rows, err := c.repo.GetProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	return Reshape(rows, c.missingLabel), nil
}

// Load читает справочник и продукты параллельно
func (c *Catalog) Load(ctx context.Context) (Snapshot, error) {
	var snapshot Snapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		categories, err := c.FetchCategories(gctx)
		snapshot.Categories = categories
		return err
	})
	g.Go(func() error {
		records, err := c.FetchProducts(gctx)
		snapshot.Records = records
		return err
	})
	if err := g.Wait(); err != nil {
		c.logger.Error("failed to load catalog", zap.Error(err))
		return Snapshot{}, err
	}

	snapshot.Summary = Summarize(snapshot.Records)
	c.logger.Debug("catalog loaded",
		zap.Int("categories", len(snapshot.Categories)),
		zap.Int("products", len(snapshot.Records)))
	return snapshot, nil
}

// Refresh сбрасывает кэш чтения, если он есть, и перечитывает все
func (c *Catalog) Refresh(ctx context.Context) (Snapshot, error) {
	if inv, ok := c.repo.(invalidator); ok {
		if err := inv.Invalidate(ctx); err != nil {
			c.logger.Warn("failed to invalidate read cache", zap.Error(err))
		}
	}
	return c.Load(ctx)
}

// InsertProduct проверяет ввод, добавляет продукт и возвращает новое состояние
func (c *Catalog) InsertProduct(ctx context.Context, in ProductInput) (Snapshot, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Snapshot{}, fmt.Errorf("%w: product name is required", ErrValidation)
	}
	if err := checkAmount("quantity", in.Quantity); err != nil {
		return Snapshot{}, err
	}
	if err := checkAmount("price", in.Price); err != nil {
		return Snapshot{}, err
	}

	categoryID, err := c.resolveCategory(ctx, in.Category)
	if err != nil {
		return Snapshot{}, err
	}

	product := &model.Product{
		Name:       name,
		Quantity:   in.Quantity,
		Price:      in.Price,
		CategoryID: categoryID,
	}
	if err := c.repo.CreateProduct(ctx, product); err != nil {
		return Snapshot{}, fmt.Errorf("failed to create product: %w", err)
	}
	c.logger.Info("product inserted",
		zap.Int64("id", product.ID),
		zap.String("name", product.Name),
		zap.String("category", in.Category))

	return c.Load(ctx)
}

// DeleteProduct удаляет продукт и возвращает новое состояние.
// Удаление отсутствующего ID не ошибка.
func (c *Catalog) DeleteProduct(ctx context.Context, id int64) (Snapshot, error) {
	if err := c.repo.DeleteProduct(ctx, id); err != nil {
		return Snapshot{}, fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	c.logger.Info("product deleted", zap.Int64("id", id))

	return c.Load(ctx)
}

// MissingCategoryLabel возвращает подпись для продуктов без категории
func (c *Catalog) MissingCategoryLabel() string {
	return c.missingLabel
}

func (c *Catalog) resolveCategory(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)

	c.mu.RLock()
	indexed := c.indexed
	c.mu.RUnlock()

	if !indexed {
		if _, err := c.FetchCategories(ctx); err != nil {
			return 0, err
		}
	}

	c.mu.RLock()
	id, ok := c.categoryIDs[name]
	c.mu.RUnlock()
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
	}
	return id, nil
}

func checkAmount(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be a number", ErrValidation, field)
	}
	if v < 0 {
		return fmt.Errorf("%w: %s must not be negative", ErrValidation, field)
	}
	return nil
}
