package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/ivanoskov/warehouse/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(SeedCategoryNames("Hardware", "Tools")...)

	categories, err := repo.GetCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Category{{ID: 1, Name: "Hardware"}, {ID: 2, Name: "Tools"}}, categories)

	rows, err := repo.GetProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)

	bolt := &model.Product{Name: "Bolt", Quantity: 100, Price: 0.5, CategoryID: 1}
	require.NoError(t, repo.CreateProduct(ctx, bolt))
	assert.Equal(t, int64(1), bolt.ID)

	orphan := &model.Product{Name: "Orphan", Quantity: 1, Price: 2, CategoryID: 99}
	require.NoError(t, repo.CreateProduct(ctx, orphan))
	assert.Equal(t, int64(2), orphan.ID)

	rows, err = repo.GetProducts(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Hardware", rows[0].Category.Name("None"))
	assert.Equal(t, 100.0, rows[0].Quantity)
	assert.Equal(t, "None", rows[1].Category.Name("None"), "missing category resolves to no join")

	require.NoError(t, repo.DeleteProduct(ctx, bolt.ID))
	require.NoError(t, repo.DeleteProduct(ctx, bolt.ID), "deleting an absent id is a no-op")

	rows, err = repo.GetProducts(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, orphan.ID, rows[0].ID)
}

func TestMemoryRepositoryFailWith(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	storeErr := errors.New("store unavailable")
	repo.FailWith(storeErr)

	_, err := repo.GetCategories(ctx)
	assert.ErrorIs(t, err, storeErr)
	_, err = repo.GetProducts(ctx)
	assert.ErrorIs(t, err, storeErr)
	assert.ErrorIs(t, repo.CreateProduct(ctx, &model.Product{Name: "x"}), storeErr)
	assert.ErrorIs(t, repo.DeleteProduct(ctx, 1), storeErr)

	repo.FailWith(nil)
	_, err = repo.GetProducts(ctx)
	assert.NoError(t, err)
}
