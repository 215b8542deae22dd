package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ivanoskov/warehouse/internal/model"
	"github.com/supabase-community/supabase-go"
	"go.uber.org/zap"
)

type SupabaseRepository struct {
	client *supabase.Client
	tables Tables
	logger *zap.Logger
}

func NewSupabaseRepository(url, key string, tables Tables, logger *zap.Logger) (*SupabaseRepository, error) {
	client, err := supabase.NewClient(url, key, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SupabaseRepository{
		client: client,
		tables: tables.withDefaults(),
		logger: logger,
	}, nil
}

// productColumns - проекция продукта со встроенной категорией под ключом "category"
func (r *SupabaseRepository) productColumns() string {
	return fmt.Sprintf("id, name, quantity, price, category:%s(name)", r.tables.Categories)
}

func (r *SupabaseRepository) GetCategories(ctx context.Context) ([]model.Category, error) {
	data, count, err := r.client.From(r.tables.Categories).
		Select("id, name", "", false).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	categories, err := decodeCategories(data)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("categories fetched", zap.Int("rows", len(categories)), zap.Int64("count", count))
	return categories, nil
}

func (r *SupabaseRepository) GetProducts(ctx context.Context) ([]model.ProductRow, error) {
	data, count, err := r.client.From(r.tables.Products).
		Select(r.productColumns(), "", false).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	products, err := decodeProductRows(data)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("products fetched", zap.Int("rows", len(products)), zap.Int64("count", count))
	return products, nil
}

func (r *SupabaseRepository) CreateProduct(ctx context.Context, product *model.Product) error {
	data, _, err := r.client.From(r.tables.Products).
		Insert(product, false, "", "representation", "").
		Execute()
	if err != nil {
		r.logger.Error("failed to create product", zap.String("name", product.Name), zap.Error(err))
		return fmt.Errorf("failed to create product: %w", err)
	}

	// Парсим ответ для получения ID
	var created []model.Product
	if err := json.Unmarshal(data, &created); err != nil {
		return fmt.Errorf("failed to parse created product: %w", err)
	}
	if len(created) > 0 {
		product.ID = created[0].ID
	}
	r.logger.Info("product created", zap.Int64("id", product.ID), zap.String("name", product.Name))
	return nil
}

func (r *SupabaseRepository) DeleteProduct(ctx context.Context, id int64) error {
	_, _, err := r.client.From(r.tables.Products).
		Delete("", "").
		Eq("id", strconv.FormatInt(id, 10)).
		Execute()
	if err != nil {
		r.logger.Error("failed to delete product", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	r.logger.Info("product deleted", zap.Int64("id", id))
	return nil
}

// GetState читает состояние диалога из таблицы состояний
func (r *SupabaseRepository) GetState(ctx context.Context, userID int64) (*model.UserState, bool, error) {
	data, _, err := r.client.From(r.tables.States).
		Select("*", "", false).
		Eq("user_id", strconv.FormatInt(userID, 10)).
		Execute()
	if err != nil {
		return nil, false, fmt.Errorf("failed to get user state: %w", err)
	}
	return decodeUserState(data)
}

// SaveState вставляет или заменяет состояние по user_id
func (r *SupabaseRepository) SaveState(ctx context.Context, state *model.UserState) error {
	_, _, err := r.client.From(r.tables.States).
		Insert(state, true, "user_id", "minimal", "").
		Execute()
	if err != nil {
		r.logger.Error("failed to save user state", zap.Int64("user_id", state.UserID), zap.Error(err))
		return fmt.Errorf("failed to save user state: %w", err)
	}
	return nil
}

func (r *SupabaseRepository) DeleteState(ctx context.Context, userID int64) error {
	_, _, err := r.client.From(r.tables.States).
		Delete("", "").
		Eq("user_id", strconv.FormatInt(userID, 10)).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete user state: %w", err)
	}
	return nil
}

func decodeUserState(data []byte) (*model.UserState, bool, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, false, nil
	}
	var states []model.UserState
	if err := json.Unmarshal(data, &states); err != nil {
		return nil, false, fmt.Errorf("failed to parse user state: %w", err)
	}
	if len(states) == 0 {
		return nil, false, nil
	}
	return &states[0], true, nil
}

func decodeCategories(data []byte) ([]model.Category, error) {
	categories := []model.Category{}
	if len(bytes.TrimSpace(data)) == 0 {
		return categories, nil
	}
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("failed to parse categories: %w", err)
	}
	return categories, nil
}

// decodeProductRows сохраняет числа как json.Number, чтобы числовые строки
// и числа хранилища приводились одинаково
func decodeProductRows(data []byte) ([]model.ProductRow, error) {
	rows := []model.ProductRow{}
	if len(bytes.TrimSpace(data)) == 0 {
		return rows, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to parse products: %w", err)
	}
	if rows == nil {
		rows = []model.ProductRow{}
	}
	return rows, nil
}
