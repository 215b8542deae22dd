package repository

import (
	"context"

	"github.com/ivanoskov/warehouse/internal/model"
)

type Repository interface {
	// Категории
	GetCategories(ctx context.Context) ([]model.Category, error)

	// Продукты
	GetProducts(ctx context.Context) ([]model.ProductRow, error)
	CreateProduct(ctx context.Context, product *model.Product) error
	DeleteProduct(ctx context.Context, id int64) error
}

// Tables - имена таблиц в хранилище
type Tables struct {
	Products   string
	Categories string
	States     string
}

// DefaultTables возвращает стандартные имена таблиц
func DefaultTables() Tables {
	return Tables{
		Products:   "products",
		Categories: "categories",
		States:     "user_states",
	}
}

func (t Tables) withDefaults() Tables {
	def := DefaultTables()
	if t.Products == "" {
		t.Products = def.Products
	}
	if t.Categories == "" {
		t.Categories = def.Categories
	}
	if t.States == "" {
		t.States = def.States
	}
	return t
}
