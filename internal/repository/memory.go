package repository

import (
	"context"
	"sync"

	"github.com/ivanoskov/warehouse/internal/model"
)

// MemoryRepository - хранилище в памяти для локального запуска и тестов.
// Ведет себя как удаленное: join разрешается при чтении, удаление
// отсутствующей строки не ошибка.
type MemoryRepository struct {
	mu         sync.Mutex
	categories []model.Category
	products   []model.Product
	nextID     int64
	failWith   error
}

func NewMemoryRepository(seed ...model.Category) *MemoryRepository {
	categories := make([]model.Category, len(seed))
	copy(categories, seed)
	return &MemoryRepository{
		categories: categories,
		nextID:     1,
	}
}

// SeedCategoryNames создает категории с последовательными ID
func SeedCategoryNames(names ...string) []model.Category {
	categories := make([]model.Category, len(names))
	for i, name := range names {
		categories[i] = model.Category{ID: int64(i + 1), Name: name}
	}
	return categories
}

// FailWith заставляет все последующие вызовы возвращать err (nil - снять)
func (r *MemoryRepository) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failWith = err
}

func (r *MemoryRepository) GetCategories(ctx context.Context) ([]model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWith != nil {
		return nil, r.failWith
	}
	categories := make([]model.Category, len(r.categories))
	copy(categories, r.categories)
	return categories, nil
}

func (r *MemoryRepository) GetProducts(ctx context.Context) ([]model.ProductRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWith != nil {
		return nil, r.failWith
	}

	names := make(map[int64]string, len(r.categories))
	for _, c := range r.categories {
		names[c.ID] = c.Name
	}

	rows := make([]model.ProductRow, len(r.products))
	for i, p := range r.products {
		ref := model.NoCategory()
		if name, ok := names[p.CategoryID]; ok {
			ref = model.SingleCategory(name)
		}
		rows[i] = model.ProductRow{
			ID:       p.ID,
			Name:     p.Name,
			Quantity: p.Quantity,
			Price:    p.Price,
			Category: ref,
		}
	}
	return rows, nil
}

func (r *MemoryRepository) CreateProduct(ctx context.Context, product *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWith != nil {
		return r.failWith
	}

	product.ID = r.nextID
	r.nextID++
	r.products = append(r.products, *product)
	return nil
}

func (r *MemoryRepository) DeleteProduct(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWith != nil {
		return r.failWith
	}

	for i, p := range r.products {
		if p.ID == id {
			r.products = append(r.products[:i], r.products[i+1:]...)
			break
		}
	}
	return nil
}
