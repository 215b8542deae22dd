package repository

import (
	"context"
	"fmt"

	"github.com/ivanoskov/warehouse/internal/model"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type categoryRow struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"not null"`
}

type productRow struct {
	ID         int64        `gorm:"primaryKey"`
	Name       string       `gorm:"not null"`
	Quantity   float64      `gorm:"not null"`
	Price      float64      `gorm:"type:numeric(12,2);not null"`
	CategoryID int64        `gorm:"not null"`
	Category   *categoryRow `gorm:"foreignKey:CategoryID"`
}

// PostgresRepository работает с базой напрямую, минуя PostgREST
type PostgresRepository struct {
	db     *gorm.DB
	tables Tables
	logger *zap.Logger
}

// OpenPostgres открывает соединение через драйвер lib/pq
func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DriverName: "postgres",
		DSN:        dsn,
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		// имена таблиц настраиваются, ограничение внешнего ключа создает схема хранилища
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return db, nil
}

func NewPostgresRepository(db *gorm.DB, tables Tables, log *zap.Logger) *PostgresRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &PostgresRepository{
		db:     db,
		tables: tables.withDefaults(),
		logger: log,
	}
}

// Migrate создает таблицы, если их еще нет
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	db := r.db.WithContext(ctx)
	if err := db.Table(r.tables.Categories).AutoMigrate(&categoryRow{}); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", r.tables.Categories, err)
	}
	if err := db.Table(r.tables.Products).AutoMigrate(&productRow{}); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", r.tables.Products, err)
	}
	return nil
}

func (r *PostgresRepository) GetCategories(ctx context.Context) ([]model.Category, error) {
	var rows []categoryRow
	if err := r.db.WithContext(ctx).Table(r.tables.Categories).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	categories := make([]model.Category, len(rows))
	for i, c := range rows {
		categories[i] = model.Category{ID: c.ID, Name: c.Name}
	}
	r.logger.Debug("categories fetched", zap.Int("rows", len(categories)))
	return categories, nil
}

func (r *PostgresRepository) GetProducts(ctx context.Context) ([]model.ProductRow, error) {
	var rows []productRow
	err := r.db.WithContext(ctx).
		Table(r.tables.Products).
		Preload("Category", func(db *gorm.DB) *gorm.DB {
			return db.Table(r.tables.Categories)
		}).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	products := make([]model.ProductRow, len(rows))
	for i, p := range rows {
		ref := model.NoCategory()
		if p.Category != nil {
			ref = model.SingleCategory(p.Category.Name)
		}
		products[i] = model.ProductRow{
			ID:       p.ID,
			Name:     p.Name,
			Quantity: p.Quantity,
			Price:    p.Price,
			Category: ref,
		}
	}
	r.logger.Debug("products fetched", zap.Int("rows", len(products)))
	return products, nil
}

func (r *PostgresRepository) CreateProduct(ctx context.Context, product *model.Product) error {
	row := productRow{
		Name:       product.Name,
		Quantity:   product.Quantity,
		Price:      product.Price,
		CategoryID: product.CategoryID,
	}
	if err := r.db.WithContext(ctx).Table(r.tables.Products).Create(&row).Error; err != nil {
		r.logger.Error("failed to create product", zap.String("name", product.Name), zap.Error(err))
		return fmt.Errorf("failed to create product: %w", err)
	}

	product.ID = row.ID
	r.logger.Info("product created", zap.Int64("id", product.ID), zap.String("name", product.Name))
	return nil
}

func (r *PostgresRepository) DeleteProduct(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Table(r.tables.Products).Delete(&productRow{}, id)
	if res.Error != nil {
		r.logger.Error("failed to delete product", zap.Int64("id", id), zap.Error(res.Error))
		return fmt.Errorf("failed to delete product %d: %w", id, res.Error)
	}
	r.logger.Info("product deleted", zap.Int64("id", id), zap.Int64("affected", res.RowsAffected))
	return nil
}
